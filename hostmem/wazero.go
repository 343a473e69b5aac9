package hostmem

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	rttiruntime "github.com/wippyai/rtti-runtime"
)

// pageSize is the WebAssembly page size.
const pageSize = 65536

// memoryModule returns a WASM module exporting one memory named "memory"
// with the given minimum number of pages.
func memoryModule(pages uint32) []byte {
	limits := appendU32(nil, pages)
	memSection := append([]byte{0x01, 0x00}, limits...) // 1 memory, no max
	mod := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
		0x05, // memory section
	}
	mod = appendU32(mod, uint32(len(memSection)))
	mod = append(mod, memSection...)
	mod = append(mod,
		0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
		0x06, 'm', 'e', 'm', 'o', 'r', 'y',
		0x02, 0x00, // kind: memory, index 0
	)
	return mod
}

func appendU32(b []byte, v uint32) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

// WazeroMemory adapts a wazero api.Memory to rttiruntime.Memory.
type WazeroMemory struct {
	Mem api.Memory
}

var _ rttiruntime.Memory = (*WazeroMemory)(nil)

// Size returns the memory size in bytes.
func (m *WazeroMemory) Size() uint32 {
	return m.Mem.Size()
}

// Read reads bytes from memory.
func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *WazeroMemory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *WazeroMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", offset)
	}
	return v, nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *WazeroMemory) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *WazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", offset)
	}
	return nil
}

// NewWazero creates a heap over the exported memory of a minimal wazero
// module instance. The heap owns the wazero runtime; Close releases it.
func NewWazero(ctx context.Context, pages uint32) (*Heap, error) {
	if pages == 0 {
		pages = 1
	}

	rt := wazero.NewRuntime(ctx)
	compiled, err := rt.CompileModule(ctx, memoryModule(pages))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile memory module: %w", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate memory module: %w", err)
	}

	mem := &WazeroMemory{Mem: mod.ExportedMemory("memory")}
	h := New(mem, NewFreeList(mem.Size()))
	h.onClose = func() error {
		return rt.Close(ctx)
	}
	return h, nil
}
