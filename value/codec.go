package value

import (
	"encoding/binary"
	"math"

	rttiruntime "github.com/wippyai/rtti-runtime"
)

// Codec moves Go values of type T in and out of linear memory.
type Codec[T any] interface {
	TypeName() string
	Size() uint32
	Align() uint32
	Store(mem rttiruntime.Memory, addr uint32, v T) error
	Load(mem rttiruntime.Memory, addr uint32) (T, error)
}

// VTabler is implemented by codecs whose type needs more than a raw byte
// copy.
type VTabler interface {
	VTable() *VTable
}

func vtableOf(c any) *VTable {
	if vt, ok := c.(VTabler); ok {
		if t := vt.VTable(); t != nil {
			return t
		}
	}
	if s, ok := c.(interface{ Size() uint32 }); ok {
		return RawCopy(s.Size())
	}
	return nil
}

// Func is a Codec assembled from functions. It is the usual way to describe
// a record type from Go.
type Func[T any] struct {
	Name      string
	ByteSize  uint32
	ByteAlign uint32
	StoreFn   func(mem rttiruntime.Memory, addr uint32, v T) error
	LoadFn    func(mem rttiruntime.Memory, addr uint32) (T, error)
	Table     *VTable
}

func (f Func[T]) TypeName() string { return f.Name }
func (f Func[T]) Size() uint32     { return f.ByteSize }
func (f Func[T]) Align() uint32    { return f.ByteAlign }
func (f Func[T]) VTable() *VTable  { return f.Table }

func (f Func[T]) Store(mem rttiruntime.Memory, addr uint32, v T) error {
	return f.StoreFn(mem, addr, v)
}

func (f Func[T]) Load(mem rttiruntime.Memory, addr uint32) (T, error) {
	return f.LoadFn(mem, addr)
}

type scalar[T any] struct {
	name string
	size uint32
	put  func(b []byte, v T)
	get  func(b []byte) T
}

func (s scalar[T]) TypeName() string { return s.name }
func (s scalar[T]) Size() uint32     { return s.size }
func (s scalar[T]) Align() uint32    { return s.size }

func (s scalar[T]) Store(mem rttiruntime.Memory, addr uint32, v T) error {
	b := make([]byte, s.size)
	s.put(b, v)
	return mem.Write(addr, b)
}

func (s scalar[T]) Load(mem rttiruntime.Memory, addr uint32) (T, error) {
	b, err := mem.Read(addr, s.size)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.get(b), nil
}

var le = binary.LittleEndian

// Built-in codecs for the numeric kinds. Type names follow the native
// spelling so ids match descriptors produced for those types.
var (
	Bool Codec[bool] = scalar[bool]{"bool", 1,
		func(b []byte, v bool) {
			if v {
				b[0] = 1
			}
		},
		func(b []byte) bool { return b[0] != 0 }}

	U8 Codec[uint8] = scalar[uint8]{"unsigned char", 1,
		func(b []byte, v uint8) { b[0] = v },
		func(b []byte) uint8 { return b[0] }}

	U16 Codec[uint16] = scalar[uint16]{"unsigned short", 2, le.PutUint16, le.Uint16}

	U32 Codec[uint32] = scalar[uint32]{"unsigned int", 4, le.PutUint32, le.Uint32}

	U64 Codec[uint64] = scalar[uint64]{"unsigned long", 8, le.PutUint64, le.Uint64}

	I8 Codec[int8] = scalar[int8]{"signed char", 1,
		func(b []byte, v int8) { b[0] = byte(v) },
		func(b []byte) int8 { return int8(b[0]) }}

	I16 Codec[int16] = scalar[int16]{"short", 2,
		func(b []byte, v int16) { le.PutUint16(b, uint16(v)) },
		func(b []byte) int16 { return int16(le.Uint16(b)) }}

	I32 Codec[int32] = scalar[int32]{"int", 4,
		func(b []byte, v int32) { le.PutUint32(b, uint32(v)) },
		func(b []byte) int32 { return int32(le.Uint32(b)) }}

	I64 Codec[int64] = scalar[int64]{"long", 8,
		func(b []byte, v int64) { le.PutUint64(b, uint64(v)) },
		func(b []byte) int64 { return int64(le.Uint64(b)) }}

	F32 Codec[float32] = scalar[float32]{"float", 4,
		func(b []byte, v float32) { le.PutUint32(b, math.Float32bits(v)) },
		func(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) }}

	F64 Codec[float64] = scalar[float64]{"double", 8,
		func(b []byte, v float64) { le.PutUint64(b, math.Float64bits(v)) },
		func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) }}

	// Addr stores a linear-memory address.
	Addr Codec[uint32] = scalar[uint32]{"void *", 4, le.PutUint32, le.Uint32}
)
