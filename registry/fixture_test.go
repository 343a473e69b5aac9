package registry

import (
	"github.com/wippyai/rtti-runtime/descriptor"
	"github.com/wippyai/rtti-runtime/stream"
	"github.com/wippyai/rtti-runtime/typeid"
)

// fixture plays the offline producer: it assembles descriptors and side
// tables and encodes them into a Module.
type fixture struct {
	set    stream.Set
	tables SideTables
}

func newFixture() *fixture {
	return &fixture{set: stream.Set{Functions: map[string]*descriptor.OverloadSet{}}}
}

func (f *fixture) module(name string) Module {
	return Module{Name: name, Streams: stream.Encode(&f.set), Tables: f.tables}
}

func (f *fixture) add(t *descriptor.Type) *descriptor.Type {
	if t.ID == 0 {
		t.ID = typeid.FromName(t.Name)
	}
	if t.RuntimeHashIndex == 0 {
		t.RuntimeHashIndex = descriptor.NoIndex
	}
	if t.Type.ID == 0 {
		t.Type = descriptor.NoType
	}
	f.set.Types = append(f.set.Types, t)
	return t
}

func (f *fixture) record(name string, size uint32, annotations ...string) *descriptor.Type {
	return f.add(&descriptor.Type{
		Name:        name,
		MangledName: "_" + name,
		Kind:        descriptor.KindStruct,
		Size:        size,
		Align:       4,
		Annotations: annotations,
		Record:      &descriptor.Record{QualifiedName: name, Size: size, Align: 4},
	})
}

func (f *fixture) scalar(name string, kind descriptor.Kind, size uint32) *descriptor.Type {
	return f.add(&descriptor.Type{Name: name, Kind: kind, Size: size, Align: size})
}

func (f *fixture) refTo(t *descriptor.Type, kind descriptor.Kind, suffix string) *descriptor.Type {
	return f.add(&descriptor.Type{
		Name: t.Name + suffix,
		Kind: kind,
		Size: 4, Align: 4,
		Type: descriptor.QualifiedType{ID: t.ID},
	})
}

func (f *fixture) funcType(name string, params ...typeid.ID) *descriptor.Type {
	ft := &descriptor.FunctionType{Return: descriptor.QualifiedType{ID: typeid.FromName("void")}}
	for _, p := range params {
		ft.Params = append(ft.Params, descriptor.QualifiedType{ID: p})
	}
	return f.add(&descriptor.Type{Name: name, Kind: descriptor.KindFunc, Function: ft})
}

func (f *fixture) invoker(inv descriptor.Invoker) uint64 {
	f.tables.Invokers = append(f.tables.Invokers, inv)
	return uint64(len(f.tables.Invokers) - 1)
}

// method adds a member function to rec's overload set called name.
func (f *fixture) method(rec *descriptor.Type, name string, fnType *descriptor.Type, inv descriptor.Invoker, params ...descriptor.Parameter) *descriptor.Function {
	fn := &descriptor.Function{
		ParentID:      rec.ID,
		ID:            fnType.ID,
		QualifiedName: rec.Name + "::" + name,
		Name:          name,
		IsMember:      true,
		IsCtor:        name == rec.DeclarationName(),
		IsDtor:        name == "~"+rec.DeclarationName(),
		Parameters:    params,
		InvokerIndex:  descriptor.NoIndex,
	}
	if inv != nil {
		fn.InvokerIndex = f.invoker(inv)
	}
	r := rec.Record
	set, ok := r.FunctionSet(name)
	if !ok {
		set = &descriptor.OverloadSet{QualifiedName: fn.QualifiedName, Name: name}
		r.Functions = append(r.Functions, set)
	}
	set.Functions = append(set.Functions, fn)
	return fn
}

// free adds a namespace-level function.
func (f *fixture) free(qualified, name string, fnType *descriptor.Type, inv descriptor.Invoker) *descriptor.Function {
	fn := &descriptor.Function{
		ParentID:      typeid.None,
		ID:            fnType.ID,
		QualifiedName: qualified,
		Name:          name,
		InvokerIndex:  descriptor.NoIndex,
	}
	if inv != nil {
		fn.InvokerIndex = f.invoker(inv)
	}
	set, ok := f.set.Functions[qualified]
	if !ok {
		set = &descriptor.OverloadSet{QualifiedName: qualified, Name: name}
		f.set.Functions[qualified] = set
	}
	set.Functions = append(set.Functions, fn)
	return fn
}

func (f *fixture) typeAlias(name string, target *descriptor.Type) {
	f.set.TypeAliases = append(f.set.TypeAliases, &descriptor.TypeAlias{
		Name:    name,
		Aliased: descriptor.QualifiedType{ID: target.ID},
	})
}

func (f *fixture) namespaceAlias(name, aliased string) {
	f.set.NamespaceAliases = append(f.set.NamespaceAliases, &descriptor.NamespaceAlias{Name: name, Aliased: aliased})
}

func (f *fixture) using(containing, used string) {
	f.set.Usings = append(f.set.Usings, &descriptor.NamespaceUsing{Containing: containing, Used: used})
}

func load(mods ...Module) (*Registry, error) {
	r := New()
	for _, m := range mods {
		r.AddModule(m)
	}
	return r, r.Load()
}
