package hostmem

import (
	"encoding/binary"
	"fmt"
)

// Local is a linear memory backed by a Go byte slice.
type Local struct {
	data []byte
}

// NewLocalMemory creates a zeroed memory of the given size.
func NewLocalMemory(size uint32) *Local {
	return &Local{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Local) Size() uint32 {
	return uint32(len(m.data))
}

func (m *Local) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return fmt.Errorf("memory access out of bounds: offset=%d, length=%d", offset, length)
	}
	return nil
}

// Read returns a view of length bytes at offset.
func (m *Local) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

// Write copies data to offset.
func (m *Local) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Local) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

// ReadU16 reads an unsigned 16-bit little-endian value.
func (m *Local) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Local) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Local) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Local) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

// WriteU16 writes an unsigned 16-bit little-endian value.
func (m *Local) WriteU16(offset uint32, value uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], value)
	return nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Local) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], value)
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Local) WriteU64(offset uint32, value uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], value)
	return nil
}
