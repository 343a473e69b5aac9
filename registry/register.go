package registry

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
)

// RegisterBatch merges types into the registry. For an id already present:
// two non-nominal types coexist with the existing one kept, an incoming stub
// never replaces anything, an existing stub is always replaced, and every
// other case goes to the collision callback.
func (r *Registry) RegisterBatch(ts []*descriptor.Type) error {
	for _, t := range ts {
		existing, ok := r.types[t.ID]
		if !ok {
			r.types[t.ID] = t
			continue
		}

		switch {
		case !t.Kind.IsNominal() && !existing.Kind.IsNominal():
			// structural duplicates, existing stays canonical
		case t.Kind == descriptor.KindUnknown:
		case existing.Kind == descriptor.KindUnknown:
			r.log.Debug("replacing stub type",
				zap.String("name", t.Name),
				zap.Stringer("id", t.ID))
			r.types[t.ID] = t
		default:
			r.log.Warn("type collision",
				zap.String("existing", existing.Name),
				zap.String("existing_mangled", existing.MangledName),
				zap.String("incoming", t.Name),
				zap.String("incoming_mangled", t.MangledName))
			winner := r.onCollision(existing, t)
			if winner == nil {
				return rtterrors.Collision(existing.Name, t.Name)
			}
			r.types[t.ID] = winner
		}
	}
	return nil
}

// RegisterFunctions appends overload sets by qualified name and indexes
// every function by its own type id. Several functions sharing a type is
// expected.
func (r *Registry) RegisterFunctions(fs map[string]*descriptor.OverloadSet) {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s := fs[name]
		r.functions[name] = append(r.functions[name], s)
		for _, f := range s.Functions {
			r.byFuncType[f.ID] = append(r.byFuncType[f.ID], f)
		}
	}
}
