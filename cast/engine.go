package cast

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

// Func applies a precomputed displacement. It is valid only for pointers of
// the exact static (from, to) pair it was made for.
type Func func(ptr uint32) uint32

// Engine performs casts over descriptors resolved through a Resolver.
type Engine struct {
	res            descriptor.Resolver
	log            *zap.Logger
	checkAmbiguity bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithAmbiguityCheck makes both the upward and the downward search keep
// looking after the first hit and log when another path also reaches the
// target. The first path found is still the result.
func WithAmbiguityCheck() Option {
	return func(e *Engine) { e.checkAmbiguity = true }
}

// New creates an engine. A *registry.Registry is the usual resolver.
func New(res descriptor.Resolver, opts ...Option) *Engine {
	e := &Engine{res: res, log: Logger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diff returns the byte displacement that converts ptr, a pointer to a from
// object, into a pointer to to.
func (e *Engine) Diff(ptr *value.Value, from, to *descriptor.Type) (int64, error) {
	if ptr == nil || !ptr.IsPointer() {
		return 0, rtterrors.New(rtterrors.PhaseCast, rtterrors.KindCouldNotReflect).
			Detail("cast needs an inline pointer value").
			Build()
	}
	return e.diffAddr(ptr.PointerValue(), from, to)
}

// CastAddr adjusts a raw address from from to to.
func (e *Engine) CastAddr(addr uint32, from, to *descriptor.Type) (uint32, error) {
	d, err := e.diffAddr(addr, from, to)
	if err != nil {
		return 0, err
	}
	return apply(addr, d), nil
}

// Cast returns a pointer value to the to object, tagged with the id of a
// pointer to to.
func (e *Engine) Cast(ptr *value.Value, from, to *descriptor.Type) (*value.Value, error) {
	d, err := e.Diff(ptr, from, to)
	if err != nil {
		return nil, err
	}
	return ptr.WithID(to.ID.AddPointer(), apply(ptr.PointerValue(), d)), nil
}

// MakeFunc bakes the displacement computed for ptr into a Func.
func (e *Engine) MakeFunc(ptr *value.Value, from, to *descriptor.Type) (Func, error) {
	d, err := e.Diff(ptr, from, to)
	if err != nil {
		return nil, err
	}
	return func(p uint32) uint32 { return apply(p, d) }, nil
}

func apply(addr uint32, d int64) uint32 {
	return uint32(int64(addr) + d)
}

// delta is the signed displacement between two addresses. Adjusters work in
// 32-bit address arithmetic and may wrap, so the difference is taken modulo
// 2^32 and read back as signed.
func delta(to, from uint32) int64 {
	return int64(int32(to - from))
}

func (e *Engine) diffAddr(ptr uint32, from, to *descriptor.Type) (int64, error) {
	if err := checkRecord(from); err != nil {
		return 0, err
	}
	if err := checkRecord(to); err != nil {
		return 0, err
	}
	d, err := e.diff(ptr, from, to, false)
	if err != nil {
		e.log.Debug("cast failed",
			zap.String("from", from.Name),
			zap.String("to", to.Name),
			zap.Error(err))
		return 0, err
	}
	return d, nil
}

func checkRecord(t *descriptor.Type) error {
	if t == nil || !t.IsRecord() {
		name := "<nil>"
		if t != nil {
			name = t.Name
		}
		return rtterrors.New(rtterrors.PhaseCast, rtterrors.KindCouldNotReflect).
			TypeName(name).
			Detail("not a record type").
			Build()
	}
	return nil
}

func (e *Engine) resolve(id typeid.ID) (*descriptor.Type, error) {
	t, ok := e.res.TypeByID(id)
	if !ok || !t.IsRecord() {
		return nil, rtterrors.CouldNotReflect(rtterrors.PhaseCast, id)
	}
	return t, nil
}

func (e *Engine) diff(ptr uint32, from, to *descriptor.Type, upOnly bool) (int64, error) {
	if from.ID == to.ID {
		return 0, nil
	}

	if vb, ok := from.Record.VBase(to.ID); ok {
		return delta(vb.CastUp(ptr), ptr), nil
	}

	found := false
	var total int64
	for _, b := range from.Record.RegularBases() {
		bt, err := e.resolve(b.ID)
		if err == nil {
			up := b.CastUp(ptr)
			var rest int64
			if rest, err = e.diff(up, bt, to, true); err == nil {
				d := rest + delta(up, ptr)
				if !found {
					found, total = true, d
					if !e.checkAmbiguity {
						break
					}
					continue
				}
				e.log.Debug("ambiguous upcast",
					zap.String("from", from.Name),
					zap.String("to", to.Name),
					zap.String("other_base", bt.Name),
					zap.Int64("first", total),
					zap.Int64("other", d))
				continue
			}
		}
		if stderrors.Is(err, rtterrors.ErrNotFound) {
			continue
		}
		if found {
			e.log.Debug("skipping base after first path",
				zap.String("from", from.Name),
				zap.String("to", to.Name),
				zap.Error(err))
			continue
		}
		return 0, err
	}
	if found {
		return total, nil
	}

	if upOnly {
		return 0, rtterrors.NoPath(from.Name, to.Name)
	}

	path, err := e.searchDown(ptr, from, to)
	if err != nil {
		return 0, err
	}
	if path == nil {
		return 0, rtterrors.NoPath(from.Name, to.Name)
	}
	return delta(castDown(path, ptr), ptr), nil
}

// castDown walks a base chain from its far end back to the derived record.
func castDown(path []*descriptor.Base, ptr uint32) uint32 {
	for i := len(path) - 1; i >= 0; i-- {
		ptr = path[i].CastDown(ptr)
	}
	return ptr
}

// searchDown looks for a chain of base edges starting at one of to's bases
// and ending at from. Nodes are marked only while on the active path. The
// first chain found is returned.
func (e *Engine) searchDown(ptr uint32, from, to *descriptor.Type) ([]*descriptor.Base, error) {
	var (
		path    []*descriptor.Base
		first   []*descriptor.Base
		onPath  = map[typeid.ID]bool{}
		walkErr error
	)

	// dfs reports whether the walk should stop.
	var dfs func(b *descriptor.Base) bool
	dfs = func(b *descriptor.Base) bool {
		bt, err := e.resolve(b.ID)
		if err != nil {
			if first != nil {
				e.log.Debug("skipping base after first path",
					zap.String("from", from.Name),
					zap.String("to", to.Name),
					zap.Error(err))
				return false
			}
			walkErr = err
			return true
		}
		path = append(path, b)
		onPath[b.ID] = true
		defer func() {
			onPath[b.ID] = false
			path = path[:len(path)-1]
		}()

		if b.ID == from.ID {
			if first == nil {
				first = append([]*descriptor.Base(nil), path...)
				return !e.checkAmbiguity
			}
			e.log.Debug("ambiguous downcast",
				zap.String("from", from.Name),
				zap.String("to", to.Name),
				zap.Int64("first", delta(castDown(first, ptr), ptr)),
				zap.Int64("other", delta(castDown(path, ptr), ptr)))
			return false
		}
		for _, next := range bt.Record.RegularBases() {
			if onPath[next.ID] {
				continue
			}
			if dfs(next) {
				return true
			}
		}
		return false
	}

	for _, b := range to.Record.Bases {
		if dfs(b) {
			break
		}
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return first, nil
}
