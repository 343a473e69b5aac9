package descriptor

import (
	"regexp"
	"sync"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
)

// Resolver looks up type descriptors by id.
type Resolver interface {
	TypeByID(id typeid.ID) (*Type, bool)
}

// RegularBases returns the regular bases, excluding vbases.
func (r *Record) RegularBases() []*Base {
	return r.filterBases(func(b *Base) bool { return !b.VBase })
}

// VBases returns the virtual bases stored on this record.
func (r *Record) VBases() []*Base {
	return r.filterBases(func(b *Base) bool { return b.VBase })
}

// VirtualBases returns every base inherited virtually. This is not always
// the same set as VBases.
func (r *Record) VirtualBases() []*Base {
	return r.filterBases(func(b *Base) bool { return b.Virtual })
}

func (r *Record) filterBases(keep func(*Base) bool) []*Base {
	var out []*Base
	for _, b := range r.Bases {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// VBase returns the vbase with the given id.
func (r *Record) VBase(id typeid.ID) (*Base, bool) {
	for _, b := range r.Bases {
		if b.VBase && b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// Base returns the regular base with the given id.
func (r *Record) Base(id typeid.ID) (*Base, bool) {
	for _, b := range r.Bases {
		if !b.VBase && b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (r *Record) Field(name string) (*Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (r *Record) StaticField(name string) (*StaticField, bool) {
	for _, f := range r.StaticFields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (r *Record) TypeAlias(name string) (*TypeAlias, bool) {
	for _, a := range r.TypeAliases {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

func (r *Record) TemplateParameter(name string) (*TemplateParameter, bool) {
	for _, p := range r.TemplateParameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// FunctionSet returns the overload set with the given unqualified name.
func (r *Record) FunctionSet(name string) (*OverloadSet, bool) {
	for _, s := range r.Functions {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Function returns the first function of the named overload set.
func (r *Record) Function(name string) (*Function, bool) {
	s, ok := r.FunctionSet(name)
	if !ok || len(s.Functions) == 0 {
		return nil, false
	}
	return s.Functions[0], true
}

// AllFunctions returns every member function including overloads.
func (r *Record) AllFunctions() []*Function {
	var out []*Function
	for _, s := range r.Functions {
		out = append(out, s.Functions...)
	}
	return out
}

// maxPatterns bounds the compiled pattern cache. The cache is dropped
// whole when it fills.
const maxPatterns = 256

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// compile returns the pattern anchored at both ends.
func compile(pattern string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, rtterrors.New(rtterrors.PhaseLookup, rtterrors.KindInvalidData).
			Value(pattern).
			Cause(err).
			Detail("invalid name pattern %q", pattern).
			Build()
	}
	if len(patternCache) >= maxPatterns {
		clear(patternCache)
	}
	patternCache[pattern] = re
	return re, nil
}

// MatchFields returns the fields whose names match pattern in full.
func (r *Record) MatchFields(pattern string) ([]*Field, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []*Field
	for _, f := range r.Fields {
		if re.MatchString(f.Name) {
			out = append(out, f)
		}
	}
	return out, nil
}

// MatchFunctionSets returns the overload sets whose names match pattern in
// full.
func (r *Record) MatchFunctionSets(pattern string) ([]*OverloadSet, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []*OverloadSet
	for _, s := range r.Functions {
		if re.MatchString(s.Name) {
			out = append(out, s)
		}
	}
	return out, nil
}

// MatchBases returns the regular bases whose type names match pattern.
func (r *Record) MatchBases(res Resolver, pattern string) ([]*Base, error) {
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []*Base
	for _, b := range r.RegularBases() {
		if t, ok := res.TypeByID(b.ID); ok && re.MatchString(t.Name) {
			out = append(out, b)
		}
	}
	return out, nil
}
