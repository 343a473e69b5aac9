package value

import (
	"encoding/binary"

	"go.uber.org/zap"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/typeid"
)

// pointerSize is the width of an address in linear memory.
const pointerSize = 4

// Value is a type-erased value tagged with its dynamic type id.
//
// A Value is either an inline pointer, where the stored address is the
// payload, or the owner of a heap buffer holding an instance of its type.
// Values are handled through *Value; copying the struct directly would
// duplicate ownership.
type Value struct {
	heap  Heap
	vt    *VTable
	id    typeid.ID
	addr  uint32
	size  uint32
	align uint32
	owned bool
	ptr   bool
}

// None returns an empty value with id typeid.None.
func None() *Value {
	return &Value{id: typeid.None}
}

// Pointer returns an inline pointer value. id is the id of the pointer type.
func Pointer(h Heap, id typeid.ID, addr uint32) *Value {
	return &Value{heap: h, id: id, addr: addr, ptr: true}
}

// Reference returns an inline value referring to the object at addr. It is
// stored exactly like a pointer; id names the reference type.
func Reference(h Heap, id typeid.ID, addr uint32) *Value {
	return Pointer(h, id, addr)
}

// Alloc returns an owning value over a fresh zeroed buffer. The buffer holds
// no constructed object yet; callers construct into v.Addr().
func Alloc(h Heap, id typeid.ID, size, align uint32, vt *VTable) (*Value, error) {
	addr, err := h.Alloc(size, align)
	if err != nil {
		return nil, err
	}
	if size > 0 {
		if err := h.Write(addr, make([]byte, size)); err != nil {
			h.Free(addr, size, align)
			return nil, err
		}
	}
	return &Value{
		heap:  h,
		vt:    vt,
		id:    id,
		addr:  addr,
		size:  size,
		align: align,
		owned: true,
	}, nil
}

// Of stores v into a fresh buffer using codec c. When id is typeid.None the
// id of the codec's type name is used.
func Of[T any](h Heap, c Codec[T], v T, id typeid.ID) (*Value, error) {
	if id == typeid.None {
		id = typeid.FromName(c.TypeName())
	}
	vt := vtableOf(c)
	out, err := Alloc(h, id, c.Size(), c.Align(), vt)
	if err != nil {
		return nil, err
	}
	if err := c.Store(h, out.addr, v); err != nil {
		out.discard()
		return nil, err
	}
	return out, nil
}

// Construct builds a new owning value from the object at src. With move set
// the type's Move operation is used when present; otherwise Copy.
func Construct(h Heap, id typeid.ID, size, align uint32, vt *VTable, src uint32, move bool) (*Value, error) {
	op := vt.constructor(move)
	if op == nil {
		return nil, rtterrors.InvalidType(rtterrors.PhaseValue, id.String(), "type is neither copyable nor movable")
	}
	out, err := Alloc(h, id, size, align, vt)
	if err != nil {
		return nil, err
	}
	if err := op(h, out.addr, src); err != nil {
		out.discard()
		return nil, rtterrors.Wrap(rtterrors.PhaseValue, rtterrors.KindInvalidType, err, "construct "+id.String())
	}
	return out, nil
}

func (vt *VTable) constructor(move bool) func(Heap, uint32, uint32) error {
	if vt == nil {
		return nil
	}
	if move && vt.Move != nil {
		return vt.Move
	}
	if vt.Copy != nil {
		return vt.Copy
	}
	return vt.Move
}

// discard frees the buffer without running the destructor.
func (v *Value) discard() {
	v.heap.Free(v.addr, v.size, v.align)
	v.owned = false
	v.addr = 0
}

// ID returns the dynamic type id.
func (v *Value) ID() typeid.ID { return v.id }

// Heap returns the memory the value lives in or points into.
func (v *Value) Heap() Heap { return v.heap }

// VTable returns the lifecycle operations attached to an owned value.
func (v *Value) VTable() *VTable { return v.vt }

// Addr returns the address of the value's object: the buffer for owned
// values, the pointee for inline pointers.
func (v *Value) Addr() uint32 { return v.addr }

// PointerValue returns the stored pointer for inline values and the buffer
// address for owned values.
func (v *Value) PointerValue() uint32 { return v.addr }

// Owned reports whether the value owns a heap buffer.
func (v *Value) Owned() bool { return v.owned }

// IsPointer reports whether the value is an inline pointer.
func (v *Value) IsPointer() bool { return v.ptr }

// IsNone reports whether the value is empty.
func (v *Value) IsNone() bool { return v.id == typeid.None && !v.owned && !v.ptr }

// Size returns the payload size in bytes.
func (v *Value) Size() uint32 {
	if v.ptr {
		return pointerSize
	}
	return v.size
}

// Align returns the buffer alignment of an owned value.
func (v *Value) Align() uint32 {
	if v.ptr {
		return pointerSize
	}
	return v.align
}

// Bytes returns a copy of the payload: the buffer contents for owned values,
// the little-endian address for inline pointers.
func (v *Value) Bytes() ([]byte, error) {
	switch {
	case v.ptr:
		b := make([]byte, pointerSize)
		binary.LittleEndian.PutUint32(b, v.addr)
		return b, nil
	case v.owned:
		b, err := v.heap.Read(v.addr, v.size)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}
	return nil, nil
}

// Ptr returns an inline pointer to this value's buffer. When id is
// typeid.None the pointer type id is derived from the value's id. Only owned
// values have storage to point at.
func (v *Value) Ptr(id typeid.ID) *Value {
	if !v.owned {
		rtterrors.Fail("cannot take the address of a value without storage (type %v)", v.id)
	}
	if id == typeid.None {
		id = v.id.AddPointer()
	}
	return Pointer(v.heap, id, v.addr)
}

// WithID returns an inline pointer to the same address tagged with another
// type id. It is used when a pointer is reinterpreted after adjustment.
func (v *Value) WithID(id typeid.ID, addr uint32) *Value {
	return Pointer(v.heap, id, addr)
}

// Clone copies the value. Owned values get a fresh buffer populated by the
// type's Copy operation; cloning an uncopyable value is fatal.
func (v *Value) Clone() (*Value, error) {
	if !v.owned {
		c := *v
		return &c, nil
	}
	if !v.vt.Copyable() {
		rtterrors.Fail("attempt to copy uncopyable type %v", v.id)
	}
	out, err := Alloc(v.heap, v.id, v.size, v.align, v.vt)
	if err != nil {
		return nil, err
	}
	if err := v.vt.Copy(v.heap, out.addr, v.addr); err != nil {
		out.discard()
		return nil, rtterrors.Wrap(rtterrors.PhaseValue, rtterrors.KindInvalidType, err, "copy "+v.id.String())
	}
	return out, nil
}

// Move transfers ownership to the returned value. The receiver keeps its
// type id but no longer owns anything.
func (v *Value) Move() *Value {
	out := *v
	if v.owned {
		v.owned = false
		v.addr = 0
	}
	return &out
}

// Release destroys and frees an owned buffer. The destructor is skipped once
// the heap is closed. Calling Release again, or on a non-owning value, does
// nothing.
func (v *Value) Release() {
	if !v.owned {
		return
	}
	if !v.heap.Closed() && !v.vt.Trivial() {
		if err := v.vt.Destroy(v.heap, v.addr); err != nil {
			Logger().Debug("destructor failed", zap.Stringer("type", v.id), zap.Error(err))
		}
	}
	v.discard()
}

// CheckTags makes As verify the stored type id of owned values against the
// codec's type name.
var CheckTags = false

// As reads the object at the value's address with codec c. The read is
// unchecked unless CheckTags is set: asking for the wrong shape returns
// garbage rather than an error.
func As[T any](v *Value, c Codec[T]) (T, error) {
	if CheckTags && v.owned {
		return AsChecked(v, c, typeid.FromName(c.TypeName()))
	}
	return load(v, c)
}

// AsChecked reads the value after checking that its type id is want.
func AsChecked[T any](v *Value, c Codec[T], want typeid.ID) (T, error) {
	if v.id != want {
		var zero T
		return zero, rtterrors.WrongType(rtterrors.PhaseValue, nil, want.String(), v.id.String())
	}
	return load(v, c)
}

func load[T any](v *Value, c Codec[T]) (T, error) {
	if v.heap == nil || (!v.owned && !v.ptr) {
		var zero T
		return zero, rtterrors.InvalidType(rtterrors.PhaseValue, v.id.String(), "value holds nothing")
	}
	return c.Load(v.heap, v.addr)
}
