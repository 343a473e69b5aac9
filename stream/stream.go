package stream

import (
	"errors"
	"slices"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
)

var errTrailing = errors.New("trailing bytes after stream")

// Streams holds the raw bytes of one module's descriptor streams.
type Streams struct {
	Functions        []byte
	Types            []byte
	TypeAliases      []byte
	NamespaceAliases []byte
	Usings           []byte
}

// Set is the decoded form of Streams.
type Set struct {
	// Functions maps qualified names to overload sets.
	Functions        map[string]*descriptor.OverloadSet
	Types            []*descriptor.Type
	TypeAliases      []*descriptor.TypeAlias
	NamespaceAliases []*descriptor.NamespaceAlias
	Usings           []*descriptor.NamespaceUsing
}

// Encode serializes every part of s.
func Encode(s *Set) Streams {
	return Streams{
		Functions:        EncodeFunctions(s.Functions),
		Types:            EncodeTypes(s.Types),
		TypeAliases:      EncodeTypeAliases(s.TypeAliases),
		NamespaceAliases: EncodeNamespaceAliases(s.NamespaceAliases),
		Usings:           EncodeUsings(s.Usings),
	}
}

// Decode parses all five streams. Empty streams decode to empty parts.
func Decode(st Streams) (*Set, error) {
	var (
		s   Set
		err error
	)
	if s.Functions, err = DecodeFunctions(st.Functions); err != nil {
		return nil, rtterrors.Load("functions stream", err)
	}
	if s.Types, err = DecodeTypes(st.Types); err != nil {
		return nil, rtterrors.Load("types stream", err)
	}
	if s.TypeAliases, err = DecodeTypeAliases(st.TypeAliases); err != nil {
		return nil, rtterrors.Load("type aliases stream", err)
	}
	if s.NamespaceAliases, err = DecodeNamespaceAliases(st.NamespaceAliases); err != nil {
		return nil, rtterrors.Load("namespace aliases stream", err)
	}
	if s.Usings, err = DecodeUsings(st.Usings); err != nil {
		return nil, rtterrors.Load("usings stream", err)
	}
	return &s, nil
}

// EncodeFunctions writes overload sets keyed by qualified name, in sorted
// key order.
func EncodeFunctions(m map[string]*descriptor.OverloadSet) []byte {
	e := newEncoder()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	e.count(len(keys))
	for _, k := range keys {
		e.w.WriteString(k)
		e.overloadSet(m[k])
	}
	return e.w.Bytes()
}

func DecodeFunctions(data []byte) (map[string]*descriptor.OverloadSet, error) {
	out := make(map[string]*descriptor.OverloadSet)
	if len(data) == 0 {
		return out, nil
	}
	d := newDecoder(data, "functions")
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		k := d.str()
		out[k] = d.overloadSet()
	}
	return out, d.finish()
}

func EncodeTypes(ts []*descriptor.Type) []byte {
	e := newEncoder()
	e.count(len(ts))
	for _, t := range ts {
		e.typ(t)
	}
	return e.w.Bytes()
}

func DecodeTypes(data []byte) ([]*descriptor.Type, error) {
	if len(data) == 0 {
		return nil, nil
	}
	d := newDecoder(data, "types")
	n := d.count()
	out := make([]*descriptor.Type, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.typ())
	}
	return out, d.finish()
}

func EncodeTypeAliases(as []*descriptor.TypeAlias) []byte {
	e := newEncoder()
	e.count(len(as))
	for _, a := range as {
		e.typeAlias(a)
	}
	return e.w.Bytes()
}

func DecodeTypeAliases(data []byte) ([]*descriptor.TypeAlias, error) {
	if len(data) == 0 {
		return nil, nil
	}
	d := newDecoder(data, "type aliases")
	n := d.count()
	out := make([]*descriptor.TypeAlias, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, d.typeAlias())
	}
	return out, d.finish()
}

func EncodeNamespaceAliases(as []*descriptor.NamespaceAlias) []byte {
	e := newEncoder()
	e.count(len(as))
	for _, a := range as {
		e.w.WriteString(a.Name)
		e.w.WriteString(a.Aliased)
	}
	return e.w.Bytes()
}

func DecodeNamespaceAliases(data []byte) ([]*descriptor.NamespaceAlias, error) {
	if len(data) == 0 {
		return nil, nil
	}
	d := newDecoder(data, "namespace aliases")
	n := d.count()
	out := make([]*descriptor.NamespaceAlias, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, &descriptor.NamespaceAlias{Name: d.str(), Aliased: d.str()})
	}
	return out, d.finish()
}

func EncodeUsings(us []*descriptor.NamespaceUsing) []byte {
	e := newEncoder()
	e.count(len(us))
	for _, u := range us {
		e.w.WriteString(u.Containing)
		e.w.WriteString(u.Used)
	}
	return e.w.Bytes()
}

func DecodeUsings(data []byte) ([]*descriptor.NamespaceUsing, error) {
	if len(data) == 0 {
		return nil, nil
	}
	d := newDecoder(data, "usings")
	n := d.count()
	out := make([]*descriptor.NamespaceUsing, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		out = append(out, &descriptor.NamespaceUsing{Containing: d.str(), Used: d.str()})
	}
	return out, d.finish()
}
