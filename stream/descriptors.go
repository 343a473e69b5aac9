package stream

import (
	"slices"

	"github.com/wippyai/rtti-runtime/descriptor"
)

func (e *encoder) typ(t *descriptor.Type) {
	e.id(t.ID)
	e.w.WriteU64(t.RuntimeHashIndex)
	e.w.Byte(byte(t.Kind))
	e.w.WriteString(t.Name)
	e.w.WriteString(t.MangledName)
	e.qualified(t.Type)
	e.w.WriteU32(t.Size)
	e.w.WriteU32(t.Align)
	e.w.WriteStrings(t.Annotations)
	e.w.WriteString(t.DefinitionPath)

	switch {
	case t.Kind.IsRecord():
		e.w.WriteBool(t.Record != nil)
		if t.Record != nil {
			e.record(t.Record)
		}
	case t.Kind == descriptor.KindFunc:
		e.w.WriteBool(t.Function != nil)
		if f := t.Function; f != nil {
			e.qualified(f.Return)
			e.count(len(f.Params))
			for _, p := range f.Params {
				e.qualified(p)
			}
			e.w.WriteBool(f.Const)
			e.w.WriteBool(f.Ref)
			e.w.WriteBool(f.RRef)
		}
	case t.Kind == descriptor.KindArray:
		e.w.WriteBool(t.Array != nil)
		if t.Array != nil {
			e.w.WriteU32(t.Array.Length)
		}
	case t.Kind == descriptor.KindEnum:
		e.w.WriteBool(t.Enum != nil)
		if t.Enum != nil {
			e.enum(t.Enum)
		}
	case t.Kind == descriptor.KindMemberPtr:
		e.w.WriteBool(t.MemberPtr != nil)
		if t.MemberPtr != nil {
			e.qualified(t.MemberPtr.Class)
		}
	}
}

func (d *decoder) typ() *descriptor.Type {
	t := &descriptor.Type{
		ID:               d.id(),
		RuntimeHashIndex: d.u64(),
		Kind:             descriptor.Kind(d.u8()),
		Name:             d.str(),
		MangledName:      d.str(),
		Type:             d.qualified(),
		Size:             d.u32(),
		Align:            d.u32(),
		Annotations:      d.strs(),
		DefinitionPath:   d.str(),
	}

	switch {
	case t.Kind.IsRecord():
		if d.boolean() {
			t.Record = d.record()
		}
	case t.Kind == descriptor.KindFunc:
		if d.boolean() {
			f := &descriptor.FunctionType{Return: d.qualified()}
			n := d.count()
			for i := 0; i < n && d.err == nil; i++ {
				f.Params = append(f.Params, d.qualified())
			}
			f.Const = d.boolean()
			f.Ref = d.boolean()
			f.RRef = d.boolean()
			t.Function = f
		}
	case t.Kind == descriptor.KindArray:
		if d.boolean() {
			t.Array = &descriptor.Array{Length: d.u32()}
		}
	case t.Kind == descriptor.KindEnum:
		if d.boolean() {
			t.Enum = d.enum()
		}
	case t.Kind == descriptor.KindMemberPtr:
		if d.boolean() {
			t.MemberPtr = &descriptor.MemberPtr{Class: d.qualified()}
		}
	}
	return t
}

func (e *encoder) enum(en *descriptor.Enum) {
	e.qualified(en.Underlying)
	names := make([]string, 0, len(en.Values))
	for n := range en.Values {
		names = append(names, n)
	}
	slices.Sort(names)
	e.count(len(names))
	for _, n := range names {
		e.w.WriteString(n)
		e.w.WriteS64(en.Values[n])
	}
}

func (d *decoder) enum() *descriptor.Enum {
	en := &descriptor.Enum{Underlying: d.qualified(), Values: map[string]int64{}}
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		name := d.str()
		en.Values[name] = d.s64()
	}
	return en
}

func (e *encoder) record(r *descriptor.Record) {
	e.w.WriteString(r.QualifiedName)

	e.count(len(r.TemplateParameters))
	for _, p := range r.TemplateParameters {
		e.w.WriteString(p.Name)
		e.qualified(p.Type)
		e.w.WriteBool(p.Typename)
		e.w.WriteU64(p.ValueIndex)
	}

	e.count(len(r.Bases))
	for _, b := range r.Bases {
		e.id(b.ParentID)
		e.id(b.ID)
		e.w.Byte(byte(b.Access))
		e.w.WriteBool(b.Virtual)
		e.w.WriteBool(b.Primary)
		e.w.WriteBool(b.VBase)
		e.w.WriteU32(b.Offset)
		e.w.WriteU64(b.UpIndex)
		e.w.WriteU64(b.DownIndex)
	}

	e.count(len(r.TypeAliases))
	for _, a := range r.TypeAliases {
		e.typeAlias(a)
	}

	e.count(len(r.Fields))
	for _, f := range r.Fields {
		e.id(f.ParentID)
		e.qualified(f.Type)
		e.w.WriteString(f.Name)
		e.w.WriteU32(f.Offset)
		e.w.WriteU32(f.Size)
		e.w.Byte(byte(f.Access))
		e.w.WriteBool(f.Mutable)
		e.w.WriteBool(f.BitField)
		e.w.WriteU32(f.BitSize)
		e.w.WriteU32(f.BitOffset)
		e.w.WriteStrings(f.Annotations)
	}

	e.count(len(r.StaticFields))
	for _, f := range r.StaticFields {
		e.id(f.ParentID)
		e.qualified(f.Type)
		e.w.WriteString(f.Name)
		e.w.Byte(byte(f.Access))
		e.w.WriteBool(f.Constexpr)
		e.w.WriteU64(f.ValueIndex)
		e.w.WriteStrings(f.Annotations)
	}

	e.count(len(r.Functions))
	for _, s := range r.Functions {
		e.overloadSet(s)
	}

	for _, flag := range []bool{
		r.IsPOD,
		r.TrivialDefaultCtor, r.TrivialCopyCtor, r.TrivialCopyAssign,
		r.TrivialMoveCtor, r.TrivialMoveAssign, r.TrivialDtor,
		r.TriviallyCopyable, r.Abstract, r.Polymorphic, r.Dynamic,
	} {
		e.w.WriteBool(flag)
	}
	e.w.WriteU32(r.Size)
	e.w.WriteU32(r.Align)
}

func (d *decoder) record() *descriptor.Record {
	r := &descriptor.Record{QualifiedName: d.str()}

	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.TemplateParameters = append(r.TemplateParameters, &descriptor.TemplateParameter{
			Name:       d.str(),
			Type:       d.qualified(),
			Typename:   d.boolean(),
			ValueIndex: d.u64(),
		})
	}

	n = d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.Bases = append(r.Bases, &descriptor.Base{
			ParentID:  d.id(),
			ID:        d.id(),
			Access:    descriptor.Access(d.u8()),
			Virtual:   d.boolean(),
			Primary:   d.boolean(),
			VBase:     d.boolean(),
			Offset:    d.u32(),
			UpIndex:   d.u64(),
			DownIndex: d.u64(),
		})
	}

	n = d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.TypeAliases = append(r.TypeAliases, d.typeAlias())
	}

	n = d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.Fields = append(r.Fields, &descriptor.Field{
			ParentID:    d.id(),
			Type:        d.qualified(),
			Name:        d.str(),
			Offset:      d.u32(),
			Size:        d.u32(),
			Access:      descriptor.Access(d.u8()),
			Mutable:     d.boolean(),
			BitField:    d.boolean(),
			BitSize:     d.u32(),
			BitOffset:   d.u32(),
			Annotations: d.strs(),
		})
	}

	n = d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.StaticFields = append(r.StaticFields, &descriptor.StaticField{
			ParentID:    d.id(),
			Type:        d.qualified(),
			Name:        d.str(),
			Access:      descriptor.Access(d.u8()),
			Constexpr:   d.boolean(),
			ValueIndex:  d.u64(),
			Annotations: d.strs(),
		})
	}

	n = d.count()
	for i := 0; i < n && d.err == nil; i++ {
		r.Functions = append(r.Functions, d.overloadSet())
	}

	for _, flag := range []*bool{
		&r.IsPOD,
		&r.TrivialDefaultCtor, &r.TrivialCopyCtor, &r.TrivialCopyAssign,
		&r.TrivialMoveCtor, &r.TrivialMoveAssign, &r.TrivialDtor,
		&r.TriviallyCopyable, &r.Abstract, &r.Polymorphic, &r.Dynamic,
	} {
		*flag = d.boolean()
	}
	r.Size = d.u32()
	r.Align = d.u32()
	return r
}

func (e *encoder) overloadSet(s *descriptor.OverloadSet) {
	e.w.WriteString(s.QualifiedName)
	e.w.WriteString(s.Name)
	e.count(len(s.Functions))
	for _, f := range s.Functions {
		e.function(f)
	}
}

func (d *decoder) overloadSet() *descriptor.OverloadSet {
	s := &descriptor.OverloadSet{QualifiedName: d.str(), Name: d.str()}
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		s.Functions = append(s.Functions, d.function())
	}
	return s
}

func (e *encoder) function(f *descriptor.Function) {
	e.w.WriteU64(f.InvokerIndex)
	e.id(f.ParentID)
	e.id(f.ID)
	e.w.WriteString(f.QualifiedName)
	e.w.WriteString(f.Name)
	for _, flag := range []bool{
		f.IsMember, f.IsStatic, f.IsCtor, f.IsDtor, f.IsConverter,
		f.IsExplicit, f.IsVirtual, f.IsDeleted, f.IsDefaulted,
	} {
		e.w.WriteBool(flag)
	}
	e.count(len(f.Parameters))
	for _, p := range f.Parameters {
		e.w.WriteString(p.Name)
		e.w.WriteU32(p.Index)
		e.w.WriteBool(p.Defaulted)
	}
	e.w.WriteStrings(f.Annotations)
	e.w.WriteString(f.DefinitionPath)
}

func (d *decoder) function() *descriptor.Function {
	f := &descriptor.Function{
		InvokerIndex:  d.u64(),
		ParentID:      d.id(),
		ID:            d.id(),
		QualifiedName: d.str(),
		Name:          d.str(),
	}
	for _, flag := range []*bool{
		&f.IsMember, &f.IsStatic, &f.IsCtor, &f.IsDtor, &f.IsConverter,
		&f.IsExplicit, &f.IsVirtual, &f.IsDeleted, &f.IsDefaulted,
	} {
		*flag = d.boolean()
	}
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		f.Parameters = append(f.Parameters, descriptor.Parameter{
			Name:      d.str(),
			Index:     d.u32(),
			Defaulted: d.boolean(),
		})
	}
	f.Annotations = d.strs()
	f.DefinitionPath = d.str()
	return f
}

func (e *encoder) typeAlias(a *descriptor.TypeAlias) {
	e.w.WriteString(a.Name)
	e.qualified(a.Aliased)
}

func (d *decoder) typeAlias() *descriptor.TypeAlias {
	return &descriptor.TypeAlias{Name: d.str(), Aliased: d.qualified()}
}
