package registry

import (
	"slices"

	"github.com/wippyai/rtti-runtime/descriptor"
	"github.com/wippyai/rtti-runtime/typeid"
)

// TypeByID returns the canonical descriptor for id. Repeated lookups return
// the same pointer.
func (r *Registry) TypeByID(id typeid.ID) (*descriptor.Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// TypeByRuntimeHash returns the type with the given native runtime identity
// hash.
func (r *Registry) TypeByRuntimeHash(hash uint64) (*descriptor.Type, bool) {
	t, ok := r.byHash[hash]
	return t, ok
}

// AllTypes returns every registered type ordered by id.
func (r *Registry) AllTypes() []*descriptor.Type {
	out := make([]*descriptor.Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sortByID(out)
	return out
}

func sortByID(ts []*descriptor.Type) {
	slices.SortFunc(ts, func(a, b *descriptor.Type) int {
		return a.ID.Compare(b.ID)
	})
}

// TypeByName resolves a possibly aliased name. Namespace aliases are
// expanded first, then each namespace-using permutation is tried, checking
// type aliases before the id of the name itself.
func (r *Registry) TypeByName(name string) (*descriptor.Type, bool) {
	var result *descriptor.Type
	r.PermuteNamespaces(r.ExpandNamespaces(name), func(s string) bool {
		if a, ok := r.TypeAlias(s); ok {
			result, ok = r.types[a.Aliased.ID]
			return ok
		}
		t, ok := r.types[typeid.FromName(s)]
		result = t
		return ok
	})
	return result, result != nil
}

// TypeAlias returns the first registered alias with the given name.
func (r *Registry) TypeAlias(name string) (*descriptor.TypeAlias, bool) {
	for _, a := range r.typeAliases {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// TypesByAnnotations returns the types carrying every given annotation,
// ordered by id.
func (r *Registry) TypesByAnnotations(annotations ...string) []*descriptor.Type {
	var out []*descriptor.Type
	for _, t := range r.types {
		if t.HasAnnotations(annotations...) {
			out = append(out, t)
		}
	}
	sortByID(out)
	return out
}

// FunctionsByName returns every overload set registered under the
// qualified name after namespace alias expansion.
func (r *Registry) FunctionsByName(name string) ([]*descriptor.OverloadSet, bool) {
	sets, ok := r.functions[r.ExpandNamespaces(name)]
	return sets, ok
}

// FunctionsByType returns every function whose own type id is id.
func (r *Registry) FunctionsByType(id typeid.ID) ([]*descriptor.Function, bool) {
	fs, ok := r.byFuncType[id]
	return fs, ok
}

// NamespaceAliases returns the registered namespace aliases.
func (r *Registry) NamespaceAliases() []*descriptor.NamespaceAlias {
	return r.nsAliases
}

// Usings returns the registered namespace using directives.
func (r *Registry) Usings() []*descriptor.NamespaceUsing {
	return r.usings
}

// TypeAliases returns the registered type aliases.
func (r *Registry) TypeAliases() []*descriptor.TypeAlias {
	return r.typeAliases
}
