package stream

import (
	"github.com/wippyai/rtti-runtime/descriptor"
	"github.com/wippyai/rtti-runtime/internal/binary"
	"github.com/wippyai/rtti-runtime/typeid"
)

// decoder wraps a Reader and keeps the first error, so field sequences can
// be read without checking after every value.
type decoder struct {
	r       *binary.Reader
	section string
	err     error
}

func newDecoder(data []byte, section string) *decoder {
	return &decoder{r: binary.NewReader(data), section: section}
}

func (d *decoder) fail(err error) {
	if d.err == nil && err != nil {
		d.err = d.r.WrapError(d.section, err)
	}
}

func (d *decoder) u32() uint32 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ReadU32()
	d.fail(err)
	return v
}

func (d *decoder) u64() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ReadU64()
	d.fail(err)
	return v
}

func (d *decoder) s64() int64 {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ReadS64()
	d.fail(err)
	return v
}

func (d *decoder) id() typeid.ID {
	if d.err != nil {
		return typeid.None
	}
	v, err := d.r.ReadU64LE()
	d.fail(err)
	return typeid.ID(v)
}

func (d *decoder) boolean() bool {
	if d.err != nil {
		return false
	}
	v, err := d.r.ReadBool()
	d.fail(err)
	return v
}

func (d *decoder) u8() byte {
	if d.err != nil {
		return 0
	}
	v, err := d.r.ReadByte()
	d.fail(err)
	return v
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	v, err := d.r.ReadString()
	d.fail(err)
	return v
}

func (d *decoder) strs() []string {
	if d.err != nil {
		return nil
	}
	v, err := d.r.ReadStrings()
	d.fail(err)
	return v
}

func (d *decoder) count() int {
	if d.err != nil {
		return 0
	}
	n, err := d.r.ReadCount()
	d.fail(err)
	return n
}

func (d *decoder) qualified() descriptor.QualifiedType {
	return descriptor.QualifiedType{
		ID:       d.id(),
		Const:    d.boolean(),
		Volatile: d.boolean(),
	}
}

// finish reports the sticky error or trailing garbage.
func (d *decoder) finish() error {
	if d.err != nil {
		return d.err
	}
	if d.r.Len() != 0 {
		return d.r.WrapError(d.section, errTrailing)
	}
	return nil
}

type encoder struct {
	w *binary.Writer
}

func newEncoder() *encoder {
	return &encoder{w: binary.NewWriter()}
}

func (e *encoder) id(id typeid.ID) { e.w.WriteU64LE(uint64(id)) }

func (e *encoder) qualified(q descriptor.QualifiedType) {
	e.id(q.ID)
	e.w.WriteBool(q.Const)
	e.w.WriteBool(q.Volatile)
}

func (e *encoder) count(n int) { e.w.WriteU32(uint32(n)) }
