package stream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
)

func sampleSet() *Set {
	base := typeid.FromName("app::Base")
	derived := typeid.FromName("app::Derived")
	ctorType := typeid.FromName("void ()")

	ctor := &descriptor.Function{
		InvokerIndex:  3,
		ParentID:      derived,
		ID:            ctorType,
		QualifiedName: "app::Derived::Derived",
		Name:          "Derived",
		IsMember:      true,
		IsCtor:        true,
		Parameters:    []descriptor.Parameter{{Name: "n", Index: 0, Defaulted: true}},
	}

	return &Set{
		Functions: map[string]*descriptor.OverloadSet{
			"app::free": {QualifiedName: "app::free", Name: "free", Functions: []*descriptor.Function{{
				InvokerIndex:  descriptor.NoIndex,
				ParentID:      typeid.None,
				ID:            ctorType,
				QualifiedName: "app::free",
				Name:          "free",
				Annotations:   []string{"export"},
			}}},
			"app::alpha": {QualifiedName: "app::alpha", Name: "alpha"},
		},
		Types: []*descriptor.Type{
			{ID: base, RuntimeHashIndex: descriptor.NoIndex, Kind: descriptor.KindStruct, Name: "app::Base",
				Type: descriptor.NoType, Size: 4, Align: 4,
				Record: &descriptor.Record{QualifiedName: "app::Base", Size: 4, Align: 4, IsPOD: true}},
			{ID: derived, RuntimeHashIndex: 0, Kind: descriptor.KindStruct, Name: "app::Derived",
				MangledName: "N3app7DerivedE", Type: descriptor.NoType, Size: 16, Align: 8,
				Annotations: []string{"reflect", "pod"}, DefinitionPath: "app/derived.hpp",
				Record: &descriptor.Record{
					QualifiedName: "app::Derived",
					TemplateParameters: []*descriptor.TemplateParameter{
						{Name: "N", Type: descriptor.QualifiedType{ID: typeid.FromName("int")}, ValueIndex: 0},
					},
					Bases: []*descriptor.Base{{ParentID: derived, ID: base, Offset: 8,
						Virtual: true, VBase: true, UpIndex: 0, DownIndex: descriptor.NoIndex}},
					Fields: []*descriptor.Field{{ParentID: derived, Name: "flags", Offset: 0, Size: 4,
						Type: descriptor.QualifiedType{ID: typeid.FromName("unsigned int"), Const: true},
						BitField: true, BitSize: 3, BitOffset: 2}},
					StaticFields: []*descriptor.StaticField{{ParentID: derived, Name: "kMax",
						Constexpr: true, ValueIndex: 1}},
					Functions: []*descriptor.OverloadSet{{QualifiedName: "app::Derived::Derived",
						Name: "Derived", Functions: []*descriptor.Function{ctor}}},
					Polymorphic: true, Dynamic: true, Size: 16, Align: 8,
				}},
			{ID: ctorType, Kind: descriptor.KindFunc, Name: "void ()", RuntimeHashIndex: descriptor.NoIndex,
				Function: &descriptor.FunctionType{Return: descriptor.QualifiedType{ID: typeid.FromName("void")}}},
			{ID: typeid.FromName("app::Color"), Kind: descriptor.KindEnum, Name: "app::Color",
				RuntimeHashIndex: descriptor.NoIndex, Size: 4, Align: 4,
				Enum: &descriptor.Enum{Underlying: descriptor.QualifiedType{ID: typeid.FromName("int")},
					Values: map[string]int64{"Red": -1, "Green": 0, "Blue": 1}}},
			{ID: typeid.FromName("int[4]"), Kind: descriptor.KindArray, Name: "int[4]",
				RuntimeHashIndex: descriptor.NoIndex, Array: &descriptor.Array{Length: 4}},
			{ID: typeid.FromName("app::Fwd"), Kind: descriptor.KindUnknown, Name: "app::Fwd",
				RuntimeHashIndex: descriptor.NoIndex},
		},
		TypeAliases: []*descriptor.TypeAlias{
			{Name: "app::BasePtr", Aliased: descriptor.QualifiedType{ID: base.AddPointer()}},
		},
		NamespaceAliases: []*descriptor.NamespaceAlias{{Name: "a", Aliased: "b::c"}},
		Usings:           []*descriptor.NamespaceUsing{{Containing: "app", Used: "app::detail"}},
	}
}

func TestEncodeDecode(t *testing.T) {
	in := sampleSet()
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(out.Types) != len(in.Types) {
		t.Fatalf("decoded %d types, want %d", len(out.Types), len(in.Types))
	}

	d := out.Types[1]
	if d.Name != "app::Derived" || d.MangledName != "N3app7DerivedE" || d.Size != 16 {
		t.Errorf("derived header = %+v", d)
	}
	if d.RuntimeHashIndex != 0 || out.Types[0].RuntimeHashIndex != descriptor.NoIndex {
		t.Error("runtime hash indices not preserved")
	}
	if !d.HasAnnotations("reflect", "pod") || d.DefinitionPath != "app/derived.hpp" {
		t.Error("annotations or definition path lost")
	}

	r := d.Record
	if r == nil {
		t.Fatal("record payload missing")
	}
	if len(r.Bases) != 1 || !r.Bases[0].VBase || r.Bases[0].Offset != 8 || r.Bases[0].DownIndex != descriptor.NoIndex {
		t.Errorf("base = %+v", r.Bases[0])
	}
	f, ok := r.Field("flags")
	if !ok || !f.BitField || f.BitSize != 3 || f.BitOffset != 2 || !f.Type.Const {
		t.Errorf("field = %+v", f)
	}
	if sf, ok := r.StaticField("kMax"); !ok || !sf.Constexpr || sf.ValueIndex != 1 {
		t.Errorf("static field = %+v", sf)
	}
	if !r.Polymorphic || !r.Dynamic || r.Abstract {
		t.Error("record flags not preserved")
	}
	if ctor, ok := d.DefaultConstructor(); !ok || ctor.InvokerIndex != 3 {
		t.Error("constructor not preserved")
	}

	if e := out.Types[3].Enum; e == nil || e.Values["Red"] != -1 || len(e.Values) != 3 {
		t.Errorf("enum = %+v", e)
	}
	if a := out.Types[4].Array; a == nil || a.Length != 4 {
		t.Errorf("array = %+v", a)
	}
	if out.Types[5].Kind != descriptor.KindUnknown || out.Types[5].Record != nil {
		t.Error("stub type should decode without payload")
	}

	fs, ok := out.Functions["app::free"]
	if !ok || len(fs.Functions) != 1 || fs.Functions[0].InvokerIndex != descriptor.NoIndex {
		t.Errorf("free function set = %+v", fs)
	}
	if fs.Functions[0].ParentID != typeid.None {
		t.Error("free function should have no parent")
	}

	if out.TypeAliases[0].Aliased.ID != typeid.FromName("app::Base").AddPointer() {
		t.Error("type alias target lost")
	}
	if out.NamespaceAliases[0].Aliased != "b::c" || out.Usings[0].Used != "app::detail" {
		t.Error("namespace data lost")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a := Encode(sampleSet())
	b := Encode(sampleSet())
	if !bytes.Equal(a.Functions, b.Functions) || !bytes.Equal(a.Types, b.Types) {
		t.Error("encoding maps must not depend on iteration order")
	}
}

func TestDecodeErrors(t *testing.T) {
	st := Encode(sampleSet())

	tests := []struct {
		name string
		st   Streams
	}{
		{"truncated types", Streams{Types: st.Types[:len(st.Types)-3]}},
		{"trailing types", Streams{Types: append(append([]byte{}, st.Types...), 0x00)}},
		{"truncated functions", Streams{Functions: st.Functions[:5]}},
		{"bad count", Streams{Usings: []byte{0x7f}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.st)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, &rtterrors.Error{Phase: rtterrors.PhaseLoad, Kind: rtterrors.KindInvalidData}) {
				t.Errorf("error %v should be a load/invalid_data error", err)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	s, err := Decode(Streams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Types) != 0 || len(s.Functions) != 0 {
		t.Error("empty streams should decode to an empty set")
	}
}
