package registry

import (
	"errors"
	"testing"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

func TestTypeByID_StableIdentity(t *testing.T) {
	f := newFixture()
	foo := f.record("app::Foo", 8)
	r, err := load(f.module("m"))
	if err != nil {
		t.Fatal(err)
	}

	a, ok := r.TypeByID(foo.ID)
	if !ok {
		t.Fatal("app::Foo not found")
	}
	b, _ := r.TypeByID(foo.ID)
	c, _ := r.TypeByName("app::Foo")
	if a != b || a != c {
		t.Error("repeated lookups must return the identical descriptor")
	}
	if _, ok := r.TypeByID(typeid.FromName("app::Missing")); ok {
		t.Error("unexpected descriptor for unknown id")
	}
}

func TestTypeByName(t *testing.T) {
	f := newFixture()
	x := f.record("b::c::X", 4)
	impl := f.record("app::detail::Impl", 4)
	handle := f.record("app::Foo", 4)
	f.namespaceAlias("a", "b::c")
	f.using("app", "app::detail")
	f.typeAlias("app::Handle", handle)

	r, err := load(f.module("m"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want *descriptor.Type
	}{
		{"b::c::X", x},
		{"a::X", x},
		{"app::Impl", impl},
		{"app::detail::Impl", impl},
		{"app::Handle", handle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.TypeByName(tt.name)
			if !ok {
				t.Fatalf("TypeByName(%q) not found", tt.name)
			}
			if got.ID != tt.want.ID {
				t.Errorf("TypeByName(%q) = %s, want %s", tt.name, got.Name, tt.want.Name)
			}
		})
	}

	if _, ok := r.TypeByName("ab::X"); ok {
		t.Error("alias a must not match the ab namespace")
	}
	if _, ok := r.TypeByName("app::Nope"); ok {
		t.Error("unexpected match for app::Nope")
	}
}

func TestExpandNamespaces(t *testing.T) {
	r := New()
	r.nsAliases = []*descriptor.NamespaceAlias{
		{Name: "x", Aliased: "y"},
		{Name: "y", Aliased: "z::w"},
	}
	if got := r.ExpandNamespaces("x::T"); got != "z::w::T" {
		t.Errorf("chained expansion = %q, want z::w::T", got)
	}

	r.nsAliases = []*descriptor.NamespaceAlias{
		{Name: "p", Aliased: "q"},
		{Name: "q", Aliased: "p"},
	}
	// cyclic data terminates
	_ = r.ExpandNamespaces("p::T")
}

func TestPermuteNamespaces(t *testing.T) {
	r := New()
	r.usings = []*descriptor.NamespaceUsing{
		{Containing: "x", Used: "x::y"},
		{Containing: "a", Used: "a::b"},
	}

	var tried []string
	found := r.PermuteNamespaces("a::T", func(s string) bool {
		tried = append(tried, s)
		return false
	})
	if found {
		t.Error("fn never succeeded")
	}
	if len(tried) != 2 || tried[0] != "a::T" || tried[1] != "a::b::T" {
		t.Errorf("tried %v, want [a::T a::b::T]", tried)
	}

	tried = nil
	found = r.PermuteNamespaces("a::T", func(s string) bool {
		tried = append(tried, s)
		return true
	})
	if !found || len(tried) != 1 {
		t.Errorf("first success should stop the search, tried %v", tried)
	}
}

func TestTypesByAnnotations(t *testing.T) {
	f := newFixture()
	a := f.record("app::A", 4, "serialize", "net")
	b := f.record("app::B", 4, "serialize")
	f.record("app::C", 4)
	r, err := load(f.module("m"))
	if err != nil {
		t.Fatal(err)
	}

	got := r.TypesByAnnotations("serialize")
	if len(got) != 2 {
		t.Fatalf("serialize matched %d types, want 2", len(got))
	}
	if got[0].ID.Compare(got[1].ID) >= 0 {
		t.Error("results must be ordered by id")
	}
	got = r.TypesByAnnotations("serialize", "net")
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("serialize+net = %v, want [app::A]", got)
	}
	_ = b
	if all := r.AllTypes(); len(all) != 3 {
		t.Errorf("AllTypes = %d, want 3", len(all))
	}
}

func TestFunctions(t *testing.T) {
	f := newFixture()
	sig := f.funcType("int (int)", typeid.FromName("int"))
	calls := 0
	inv := func(args ...*value.Value) (*value.Value, error) {
		calls++
		return nil, nil
	}
	f.free("app::util::run", "run", sig, inv)
	f.free("app::util::run", "run", sig, nil)
	f.free("app::other", "other", sig, nil)
	f.namespaceAlias("u", "app::util")

	r, err := load(f.module("m"))
	if err != nil {
		t.Fatal(err)
	}

	sets, ok := r.FunctionsByName("u::run")
	if !ok || len(sets) != 1 || len(sets[0].Functions) != 2 {
		t.Fatalf("FunctionsByName(u::run) = %v, %v", sets, ok)
	}
	fn := sets[0].Functions[0]
	if !fn.CanInvoke() {
		t.Fatal("invoker was not patched in")
	}
	if _, err := fn.Invoker(); err != nil || calls != 1 {
		t.Errorf("invoke: err=%v calls=%d", err, calls)
	}
	if sets[0].Functions[1].CanInvoke() {
		t.Error("function without invoker index must stay uninvokable")
	}

	byType, ok := r.FunctionsByType(sig.ID)
	if !ok || len(byType) != 3 {
		t.Errorf("FunctionsByType = %d functions, want 3", len(byType))
	}
}

func TestFunctionsAcrossModules(t *testing.T) {
	f1 := newFixture()
	sig := f1.funcType("void ()")
	f1.free("app::init", "init", sig, nil)
	f2 := newFixture()
	f2.free("app::init", "init", sig, nil)

	r, err := load(f1.module("one"), f2.module("two"))
	if err != nil {
		t.Fatal(err)
	}
	sets, _ := r.FunctionsByName("app::init")
	if len(sets) != 2 {
		t.Errorf("overload sets = %d, want one per module", len(sets))
	}
}

func TestRuntimeHash(t *testing.T) {
	f := newFixture()
	foo := f.record("app::Foo", 4)
	foo.RuntimeHashIndex = 0
	f.tables.RuntimeHashes = []uint64{0xfeedface}
	r, err := load(f.module("m"))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := r.TypeByRuntimeHash(0xfeedface)
	if !ok || got.ID != foo.ID {
		t.Error("runtime hash lookup failed")
	}
}

func TestLoad_SideTableOutOfRange(t *testing.T) {
	f := newFixture()
	derived := f.record("app::D", 8)
	derived.Record.Bases = []*descriptor.Base{{
		ParentID: derived.ID, ID: typeid.FromName("app::B"),
		UpIndex: 4, DownIndex: descriptor.NoIndex,
	}}
	_, err := load(f.module("m"))
	if !errors.Is(err, &rtterrors.Error{Phase: rtterrors.PhaseLoad, Kind: rtterrors.KindOutOfBounds}) {
		t.Errorf("err = %v, want load/out_of_bounds", err)
	}
}

func TestLoad_DescriptorOnly(t *testing.T) {
	f := newFixture()
	f.record("app::B", 4)
	derived := f.record("app::D", 8)
	derived.Record.Bases = []*descriptor.Base{{
		ParentID: derived.ID, ID: typeid.FromName("app::B"),
		Virtual: true, VBase: true,
		UpIndex: 0, DownIndex: 1,
	}}
	m := f.module("m")
	m.DescriptorOnly = true

	r, err := load(m)
	if err != nil {
		t.Fatalf("descriptor-only load: %v", err)
	}
	got, ok := r.TypeByName("app::D")
	if !ok {
		t.Fatal("app::D not registered")
	}
	b := got.Record.Bases[0]
	if b.Up != nil || b.Down != nil {
		t.Error("adjusters should stay unresolved")
	}
	if b.UpIndex != 0 || b.DownIndex != 1 {
		t.Errorf("indices = %d/%d, want 0/1", b.UpIndex, b.DownIndex)
	}
}

func TestLoad_BadStream(t *testing.T) {
	r := New()
	r.AddModule(Module{Name: "broken"})
	r.pending[0].Streams.Types = []byte{0x01, 0x02}
	if err := r.Load(); !errors.Is(err, rtterrors.ErrInvalidData) {
		t.Errorf("err = %v, want invalid_data", err)
	}
}

func TestLoad_Twice(t *testing.T) {
	r := New()
	if err := r.Load(); err != nil {
		t.Fatal(err)
	}
	if !r.Loaded() {
		t.Error("Loaded should report true")
	}
	defer func() {
		if _, ok := recover().(*rtterrors.FatalError); !ok {
			t.Error("second Load must be fatal")
		}
	}()
	_ = r.Load()
}

func TestDefault(t *testing.T) {
	a := Default()
	if a == nil || a != Default() {
		t.Error("Default must return one shared registry")
	}
}
