package registry

import (
	rttiruntime "github.com/wippyai/rtti-runtime"
	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
	"github.com/wippyai/rtti-runtime/value"
)

// MakeForID builds a default-constructed value of the type id in heap h.
//
// Pointer-like kinds yield an inline null pointer. Records are constructed by
// their default constructor and get a VTable wired to their destructor and
// copy operations. Numeric and enum kinds are zero-initialised and copied
// bytewise.
func (r *Registry) MakeForID(h value.Heap, id typeid.ID) (*value.Value, error) {
	t, ok := r.TypeByID(id)
	if !ok {
		return nil, rtterrors.CouldNotReflect(rtterrors.PhaseValue, id)
	}

	switch {
	case t.Kind == descriptor.KindVoid, t.Kind == descriptor.KindUnknown, t.Kind == descriptor.KindFunc:
		return nil, rtterrors.InvalidType(rtterrors.PhaseValue, t.Name, "kind "+t.Kind.String()+" has no value representation")
	case t.Kind.IsPointerLike():
		return value.Pointer(h, id, rttiruntime.NullPtr), nil
	case t.Size == 0:
		return nil, rtterrors.InvalidType(rtterrors.PhaseValue, t.Name, "zero-sized "+t.Kind.String()+" has no storage")
	case t.Kind.IsRecord():
		return r.makeRecord(h, t)
	case t.Kind.IsNumeric(), t.Kind == descriptor.KindEnum:
		vt := r.vtables.GetOrCreate(id, func() *value.VTable { return value.RawCopy(t.Size) })
		return value.Alloc(h, id, t.Size, alignOf(t), vt)
	}
	return value.Alloc(h, id, t.Size, alignOf(t), nil)
}

func alignOf(t *descriptor.Type) uint32 {
	if t.Align != 0 {
		return t.Align
	}
	return 1
}

func (r *Registry) makeRecord(h value.Heap, t *descriptor.Type) (*value.Value, error) {
	if t.Size == 0 || t.Record == nil {
		return nil, rtterrors.InvalidType(rtterrors.PhaseValue, t.Name, "record has no storage")
	}
	ctor, ok := t.DefaultConstructor()
	if !ok || (!ctor.CanInvoke() && !t.Record.TrivialDefaultCtor) {
		return nil, rtterrors.NoDefaultCtor(rtterrors.PhaseValue, t.Name)
	}

	vt := r.vtables.GetOrCreate(t.ID, func() *value.VTable { return r.recordVTable(t, ctor) })
	v, err := value.Alloc(h, t.ID, t.Size, alignOf(t), vt)
	if err != nil {
		return nil, err
	}
	if ctor.CanInvoke() {
		r.mustInvoke(ctor, "default ctor", r.this(h, t, v.Addr()))
	}
	return v, nil
}

// recordVTable wires a record's special members into lifecycle operations.
// Copy prefers the copy constructor and falls back to default construction
// followed by copy assignment.
func (r *Registry) recordVTable(t *descriptor.Type, ctor *descriptor.Function) *value.VTable {
	vt := &value.VTable{}

	if dtor, ok := t.Destructor(); ok && dtor.CanInvoke() {
		vt.Destroy = func(h value.Heap, addr uint32) error {
			if r.closed {
				return nil
			}
			r.mustInvoke(dtor, "dtor", r.this(h, t, addr))
			return nil
		}
	}

	if cc, ok := t.CopyConstructor(r); ok && cc.CanInvoke() {
		vt.Copy = func(h value.Heap, dst, src uint32) error {
			r.mustInvoke(cc, "copy ctor", r.this(h, t, dst), r.param(h, t, cc, src))
			return nil
		}
	} else if ca, ok := t.CopyAssignment(r); ok && ca.CanInvoke() && ctor.CanInvoke() {
		vt.Copy = func(h value.Heap, dst, src uint32) error {
			r.mustInvoke(ctor, "default ctor", r.this(h, t, dst))
			r.mustInvoke(ca, "copy assign", r.this(h, t, dst), r.param(h, t, ca, src))
			return nil
		}
	}

	if mc, ok := t.MoveConstructor(r); ok && mc.CanInvoke() {
		vt.Move = func(h value.Heap, dst, src uint32) error {
			r.mustInvoke(mc, "move ctor", r.this(h, t, dst), r.param(h, t, mc, src))
			return nil
		}
	}
	return vt
}

func (r *Registry) this(h value.Heap, t *descriptor.Type, addr uint32) *value.Value {
	return value.Pointer(h, t.ID.AddPointer(), addr)
}

// param builds the reference argument for a single-parameter special member.
func (r *Registry) param(h value.Heap, t *descriptor.Type, f *descriptor.Function, addr uint32) *value.Value {
	if pt, ok := descriptor.ParameterType(r, f, 0); ok {
		return value.Reference(h, pt.ID, addr)
	}
	return value.Reference(h, t.ID.AddPointer(), addr)
}

// mustInvoke calls a special member whose failure leaves an object half
// built, which is unrecoverable.
func (r *Registry) mustInvoke(f *descriptor.Function, what string, args ...*value.Value) {
	res, err := f.Invoker(args...)
	if err != nil {
		rtterrors.Fail("failed to invoke %s %s: %v", what, f.QualifiedName, err)
	}
	if res != nil {
		res.Release()
	}
}
