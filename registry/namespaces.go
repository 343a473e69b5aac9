package registry

import (
	"strings"

	"go.uber.org/zap"
)

// hasNamespacePrefix reports whether name starts with the namespace prefix
// on a "::" boundary.
func hasNamespacePrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	rest := name[len(prefix):]
	return rest == "" || strings.HasPrefix(rest, "::")
}

// ExpandNamespaces rewrites namespace alias prefixes until none applies.
// Cyclic alias data stops after one rewrite per alias plus one.
func (r *Registry) ExpandNamespaces(name string) string {
	expanded := name
	for round := 0; round <= len(r.nsAliases); round++ {
		rewritten := false
		for _, na := range r.nsAliases {
			if hasNamespacePrefix(expanded, na.Name) {
				expanded = na.Aliased + expanded[len(na.Name):]
				rewritten = true
				break
			}
		}
		if !rewritten {
			return expanded
		}
	}
	r.log.Warn("namespace alias expansion did not converge",
		zap.String("name", name),
		zap.String("last", expanded))
	return expanded
}

// PermuteNamespaces calls fn with name and, while fn returns false, with the
// names reachable through namespace using directives. Only the first using
// whose containing namespace prefixes the name is followed. It returns true
// as soon as fn does.
func (r *Registry) PermuteNamespaces(name string, fn func(string) bool) bool {
	return r.permute(name, fn, len(r.usings)+1)
}

func (r *Registry) permute(name string, fn func(string) bool, depth int) bool {
	if fn(name) {
		return true
	}
	if depth == 0 {
		return false
	}
	for _, u := range r.usings {
		if hasNamespacePrefix(name, u.Containing) && !hasNamespacePrefix(name, u.Used) {
			return r.permute(u.Used+name[len(u.Containing):], fn, depth-1)
		}
	}
	return false
}
