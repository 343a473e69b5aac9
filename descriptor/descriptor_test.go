package descriptor

import (
	"errors"
	"testing"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
)

type mapResolver map[typeid.ID]*Type

func (m mapResolver) TypeByID(id typeid.ID) (*Type, bool) {
	t, ok := m[id]
	return t, ok
}

func (m mapResolver) add(t *Type) *Type {
	m[t.ID] = t
	return t
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindULongLong, "ulonglong"},
		{KindStruct, "struct"},
		{KindMemberPtr, "member_ptr"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}

	for k := KindUnknown; k <= KindMemberPtr; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
}

func TestKind_Predicates(t *testing.T) {
	tests := []struct {
		kind                               Kind
		record, nominal, numeric, pointery bool
	}{
		{KindStruct, true, true, false, false},
		{KindUnion, true, true, false, false},
		{KindEnum, false, true, false, false},
		{KindInt, false, false, true, false},
		{KindBool, false, false, true, false},
		{KindDouble, false, false, true, false},
		{KindVoid, false, false, false, false},
		{KindPtr, false, false, false, true},
		{KindRRef, false, false, false, true},
		{KindMemberPtr, false, false, false, true},
		{KindFunc, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if tt.kind.IsRecord() != tt.record {
				t.Errorf("IsRecord = %v", !tt.record)
			}
			if tt.kind.IsNominal() != tt.nominal {
				t.Errorf("IsNominal = %v", !tt.nominal)
			}
			if tt.kind.IsNumeric() != tt.numeric {
				t.Errorf("IsNumeric = %v", !tt.numeric)
			}
			if tt.kind.IsPointerLike() != tt.pointery {
				t.Errorf("IsPointerLike = %v", !tt.pointery)
			}
		})
	}
}

func TestBase_Cast(t *testing.T) {
	static := &Base{Offset: 16}
	if got := static.CastUp(100); got != 116 {
		t.Errorf("CastUp = %d, want 116", got)
	}
	if got := static.CastDown(116); got != 100 {
		t.Errorf("CastDown = %d, want 100", got)
	}

	dynamic := &Base{
		Offset: 16,
		Up:     func(p uint32) uint32 { return p + 40 },
		Down:   func(p uint32) uint32 { return p - 40 },
	}
	if got := dynamic.CastUp(100); got != 140 {
		t.Errorf("closure CastUp = %d, want 140", got)
	}
	if got := dynamic.CastDown(140); got != 100 {
		t.Errorf("closure CastDown = %d, want 100", got)
	}
}

func TestRecord_Bases(t *testing.T) {
	a := &Base{ID: typeid.FromName("A")}
	v := &Base{ID: typeid.FromName("V"), Virtual: true}
	vb := &Base{ID: typeid.FromName("V"), Virtual: true, VBase: true}
	r := &Record{Bases: []*Base{a, v, vb}}

	if got := r.RegularBases(); len(got) != 2 || got[0] != a || got[1] != v {
		t.Errorf("RegularBases = %v", got)
	}
	if got := r.VBases(); len(got) != 1 || got[0] != vb {
		t.Errorf("VBases = %v", got)
	}
	if got := r.VirtualBases(); len(got) != 2 {
		t.Errorf("VirtualBases len = %d, want 2", len(got))
	}
	if b, ok := r.VBase(typeid.FromName("V")); !ok || b != vb {
		t.Error("VBase(V) did not return the stored vbase")
	}
	if _, ok := r.VBase(typeid.FromName("A")); ok {
		t.Error("A is not a vbase")
	}
}

func TestRecord_Match(t *testing.T) {
	res := mapResolver{}
	res.add(&Type{ID: typeid.FromName("ns::Alpha"), Name: "ns::Alpha", Kind: KindStruct})
	r := &Record{
		Fields: []*Field{{Name: "x"}, {Name: "y"}, {Name: "xy"}},
		Functions: []*OverloadSet{
			{Name: "get"}, {Name: "set"}, {Name: "operator="},
		},
		Bases: []*Base{{ID: typeid.FromName("ns::Alpha")}},
	}

	if got, err := r.MatchFields("x|y"); err != nil || len(got) != 2 {
		t.Errorf("MatchFields(x|y) = %d fields, %v; want 2 (anchored)", len(got), err)
	}
	if got, err := r.MatchFunctionSets(".et"); err != nil || len(got) != 2 {
		t.Errorf("MatchFunctionSets(.et) = %d, %v; want 2", len(got), err)
	}
	if got, err := r.MatchBases(res, "ns::A.*"); err != nil || len(got) != 1 {
		t.Errorf("MatchBases = %d, %v; want 1", len(got), err)
	}

	if _, err := r.MatchFields("("); !errors.Is(err, rtterrors.ErrInvalidData) {
		t.Errorf("MatchFields(() error = %v, want invalid_data", err)
	}
	if _, err := r.MatchFunctionSets("[a-"); !errors.Is(err, rtterrors.ErrInvalidData) {
		t.Errorf("MatchFunctionSets([a-) error = %v, want invalid_data", err)
	}
	if _, err := r.MatchBases(res, "*"); !errors.Is(err, rtterrors.ErrInvalidData) {
		t.Errorf("MatchBases(*) error = %v, want invalid_data", err)
	}
}

func TestType_DeclarationName(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Foo", "Foo"},
		{"app::Foo", "Foo"},
		{"app::detail::Vec<int, app::X>", "Vec"},
	}
	for _, tt := range tests {
		ty := &Type{Name: tt.name}
		if got := ty.DeclarationName(); got != tt.want {
			t.Errorf("DeclarationName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestType_SpecialMembers(t *testing.T) {
	res := mapResolver{}
	foo := res.add(&Type{ID: typeid.FromName("app::Foo"), Name: "app::Foo", Kind: KindStruct, Size: 8})
	ref := res.add(&Type{ID: typeid.FromName("const app::Foo &"), Kind: KindRef, Type: QualifiedType{ID: foo.ID, Const: true}})
	rref := res.add(&Type{ID: typeid.FromName("app::Foo &&"), Kind: KindRRef, Type: QualifiedType{ID: foo.ID}})
	intT := res.add(&Type{ID: typeid.FromName("int"), Kind: KindInt, Size: 4})

	fnType := func(name string, params ...typeid.ID) typeid.ID {
		ft := &FunctionType{Return: NoType}
		for _, p := range params {
			ft.Params = append(ft.Params, QualifiedType{ID: p})
		}
		return res.add(&Type{ID: typeid.FromName(name), Kind: KindFunc, Function: ft}).ID
	}

	defCtor := &Function{Name: "Foo", IsCtor: true, ID: fnType("void (int)", intT.ID),
		Parameters: []Parameter{{Name: "n", Defaulted: true}}}
	copyCtor := &Function{Name: "Foo", IsCtor: true, ID: fnType("void (const app::Foo &)", ref.ID),
		Parameters: []Parameter{{Name: "o"}}}
	moveCtor := &Function{Name: "Foo", IsCtor: true, ID: fnType("void (app::Foo &&)", rref.ID),
		Parameters: []Parameter{{Name: "o"}}}
	assign := &Function{Name: "operator=", ID: fnType("app::Foo &(const app::Foo &)", ref.ID),
		Parameters: []Parameter{{Name: "o"}}}
	dtor := &Function{Name: "~Foo", IsDtor: true}

	foo.Record = &Record{Functions: []*OverloadSet{
		{Name: "Foo", Functions: []*Function{copyCtor, moveCtor, defCtor}},
		{Name: "operator=", Functions: []*Function{assign}},
		{Name: "~Foo", Functions: []*Function{dtor}},
	}}

	if f, ok := foo.DefaultConstructor(); !ok || f != defCtor {
		t.Error("DefaultConstructor should pick the all-defaulted overload")
	}
	if f, ok := foo.CopyConstructor(res); !ok || f != copyCtor {
		t.Error("CopyConstructor mismatch")
	}
	if f, ok := foo.MoveConstructor(res); !ok || f != moveCtor {
		t.Error("MoveConstructor mismatch")
	}
	if f, ok := foo.CopyAssignment(res); !ok || f != assign {
		t.Error("CopyAssignment mismatch")
	}
	if _, ok := foo.MoveAssignment(res); ok {
		t.Error("no move assignment was declared")
	}
	if f, ok := foo.Destructor(); !ok || f != dtor {
		t.Error("Destructor mismatch")
	}

	bare := &Type{Name: "app::Bare", Kind: KindStruct, Record: &Record{}}
	if _, ok := bare.DefaultConstructor(); ok {
		t.Error("record without constructors has no default constructor")
	}
}

func TestType_Annotations(t *testing.T) {
	ty := &Type{Annotations: []string{"serialize", "pod"}}
	if !ty.HasAnnotations("pod", "serialize") {
		t.Error("expected both annotations")
	}
	if ty.HasAnnotations("pod", "missing") {
		t.Error("missing annotation should fail")
	}
	if !ty.HasAnnotations() {
		t.Error("empty annotation set always matches")
	}
}

func TestEnum_Names(t *testing.T) {
	e := &Enum{Values: map[string]int64{"A": 0, "B": 1, "ALIAS": 1}}
	if v, ok := e.Value("B"); !ok || v != 1 {
		t.Errorf("Value(B) = %d, %v", v, ok)
	}
	names := e.Names(1)
	if len(names) != 2 || names[0] != "ALIAS" || names[1] != "B" {
		t.Errorf("Names(1) = %v, want [ALIAS B]", names)
	}
}
