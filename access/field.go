package access

import (
	"strings"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
	"github.com/wippyai/rtti-runtime/value"
)

const maxBitFieldBits = 64

func locate(obj *value.Value) (value.Heap, uint32, error) {
	if obj == nil || obj.Heap() == nil || (!obj.Owned() && !obj.IsPointer()) {
		return nil, 0, rtterrors.New(rtterrors.PhaseAccess, rtterrors.KindInvalidType).
			Detail("value does not locate an instance").
			Build()
	}
	return obj.Heap(), obj.Addr(), nil
}

// FieldPointer returns a pointer value to field f of obj.
func FieldPointer(obj *value.Value, f *descriptor.Field) (*value.Value, error) {
	if f.BitField {
		return nil, rtterrors.BitField([]string{f.Name}, true)
	}
	h, addr, err := locate(obj)
	if err != nil {
		return nil, err
	}
	return value.Pointer(h, f.Type.ID.AddPointer(), addr+f.Offset), nil
}

// ReadField reads a non-bit-field member with codec c. The codec must have
// the field's size.
func ReadField[T any](obj *value.Value, f *descriptor.Field, c value.Codec[T]) (T, error) {
	var zero T
	if err := checkPlain(f, c.Size(), c.TypeName()); err != nil {
		return zero, err
	}
	h, addr, err := locate(obj)
	if err != nil {
		return zero, err
	}
	return c.Load(h, addr+f.Offset)
}

// WriteField stores v into a non-bit-field member with codec c.
func WriteField[T any](obj *value.Value, f *descriptor.Field, c value.Codec[T], v T) error {
	if err := checkPlain(f, c.Size(), c.TypeName()); err != nil {
		return err
	}
	h, addr, err := locate(obj)
	if err != nil {
		return err
	}
	return c.Store(h, addr+f.Offset, v)
}

func checkPlain(f *descriptor.Field, size uint32, name string) error {
	if f.BitField {
		return rtterrors.BitField([]string{f.Name}, true)
	}
	if size != f.Size {
		return rtterrors.New(rtterrors.PhaseAccess, rtterrors.KindWrongType).
			Path(f.Name).
			TypeName(name).
			Detail("codec is %d bytes, field is %d", size, f.Size).
			Build()
	}
	return nil
}

// bitSpan returns the first byte and byte count covering a bit field.
// BitOffset counts bits from the start of the parent record.
func bitSpan(f *descriptor.Field) (start, n, shift uint32, err error) {
	if !f.BitField {
		return 0, 0, 0, rtterrors.BitField([]string{f.Name}, false)
	}
	if f.BitSize == 0 || f.BitSize > maxBitFieldBits {
		return 0, 0, 0, rtterrors.InvalidData(rtterrors.PhaseAccess, []string{f.Name}, "bit size out of range")
	}
	start = f.BitOffset / 8
	shift = f.BitOffset % 8
	n = (shift + f.BitSize + 7) / 8
	return start, n, shift, nil
}

func mask(bits uint32) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<bits - 1
}

// ReadBitField returns the raw bits of a bit-field member, zero-extended.
func ReadBitField(obj *value.Value, f *descriptor.Field) (uint64, error) {
	start, n, shift, err := bitSpan(f)
	if err != nil {
		return 0, err
	}
	h, addr, err := locate(obj)
	if err != nil {
		return 0, err
	}
	buf, err := h.Read(addr+start, n)
	if err != nil {
		return 0, err
	}
	// Up to 64 bits plus a 7 bit shift can span 9 bytes.
	var lo, hi uint64
	for i, b := range buf {
		if i < 8 {
			lo |= uint64(b) << (8 * i)
		} else {
			hi = uint64(b)
		}
	}
	out := lo >> shift
	if shift > 0 {
		out |= hi << (64 - shift)
	}
	return out & mask(f.BitSize), nil
}

// WriteBitField stores the low BitSize bits of v into a bit-field member and
// leaves the neighbouring bits untouched.
func WriteBitField(obj *value.Value, f *descriptor.Field, v uint64) error {
	start, n, shift, err := bitSpan(f)
	if err != nil {
		return err
	}
	h, addr, err := locate(obj)
	if err != nil {
		return err
	}
	buf, err := h.Read(addr+start, n)
	if err != nil {
		return err
	}
	v &= mask(f.BitSize)
	for bit := uint32(0); bit < f.BitSize; bit++ {
		pos := shift + bit
		b := &buf[pos/8]
		if v>>bit&1 == 1 {
			*b |= 1 << (pos % 8)
		} else {
			*b &^= 1 << (pos % 8)
		}
	}
	return h.Write(addr+start, buf)
}

// Resolved is a field reached through a dotted path. Offset is measured from
// the start of the outermost record; for a bit field it is the offset of the
// record that holds it, since bit offsets are relative to that record.
type Resolved struct {
	Field  *descriptor.Field
	Offset uint32
	Path   []string
}

// FieldByPath walks "a.b.c" through nested record members of rec.
func FieldByPath(res descriptor.Resolver, rec *descriptor.Type, path string) (*Resolved, error) {
	if path == "" {
		return nil, rtterrors.NotFound(rtterrors.PhaseAccess, "field", path)
	}
	parts := strings.Split(path, ".")
	cur := rec
	out := &Resolved{}
	for i, name := range parts {
		if cur == nil || !cur.IsRecord() {
			return nil, rtterrors.New(rtterrors.PhaseAccess, rtterrors.KindWrongType).
				Path(parts[:i]...).
				Detail("member %q of a non-record type", name).
				Build()
		}
		f, ok := cur.Record.Field(name)
		if !ok {
			return nil, rtterrors.New(rtterrors.PhaseAccess, rtterrors.KindNotFound).
				Path(parts[:i+1]...).
				TypeName(cur.Name).
				Detail("no field %q", name).
				Build()
		}
		out.Path = append(out.Path, name)
		out.Field = f
		if f.BitField {
			if i != len(parts)-1 {
				return nil, rtterrors.BitField(out.Path, true)
			}
			break
		}
		out.Offset += f.Offset
		if i == len(parts)-1 {
			break
		}
		next, ok := res.TypeByID(f.Type.ID)
		if !ok {
			return nil, rtterrors.CouldNotReflect(rtterrors.PhaseAccess, f.Type.ID)
		}
		cur = next
	}
	return out, nil
}

// PointerByPath returns a pointer value to the member of obj named by path.
func PointerByPath(res descriptor.Resolver, obj *value.Value, rec *descriptor.Type, path string) (*value.Value, error) {
	r, err := FieldByPath(res, rec, path)
	if err != nil {
		return nil, err
	}
	if r.Field.BitField {
		return nil, rtterrors.BitField(r.Path, true)
	}
	h, addr, err := locate(obj)
	if err != nil {
		return nil, err
	}
	return value.Pointer(h, r.Field.Type.ID.AddPointer(), addr+r.Offset), nil
}
