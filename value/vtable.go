package value

import (
	"github.com/wippyai/rtti-runtime/typeid"
)

// VTable holds the lifecycle operations for one type. Copy and Move
// construct into dst from src; Destroy tears down an instance in place.
//
// Copy nil means the type is uncopyable. Move nil falls back to Copy.
// Destroy nil means the type is trivially destructible.
type VTable struct {
	Copy    func(h Heap, dst, src uint32) error
	Move    func(h Heap, dst, src uint32) error
	Destroy func(h Heap, addr uint32) error
}

// Copyable reports whether values of the type can be copied.
func (vt *VTable) Copyable() bool {
	return vt != nil && vt.Copy != nil
}

// Movable reports whether values of the type can be moved or copied into a
// new buffer.
func (vt *VTable) Movable() bool {
	return vt != nil && (vt.Move != nil || vt.Copy != nil)
}

// Trivial reports whether destruction is a no-op.
func (vt *VTable) Trivial() bool {
	return vt == nil || vt.Destroy == nil
}

// RawCopy returns a table that copies size bytes and needs no destructor.
func RawCopy(size uint32) *VTable {
	return &VTable{
		Copy: func(h Heap, dst, src uint32) error {
			b, err := h.Read(src, size)
			if err != nil {
				return err
			}
			// Read may return a view into the same memory.
			buf := make([]byte, len(b))
			copy(buf, b)
			return h.Write(dst, buf)
		},
	}
}

// VTables caches one table per type id so that every value of a type
// shares the same lifecycle operations.
type VTables struct {
	m map[typeid.ID]*VTable
}

// NewVTables creates an empty cache.
func NewVTables() *VTables {
	return &VTables{m: make(map[typeid.ID]*VTable)}
}

// Get returns the table registered for id.
func (c *VTables) Get(id typeid.ID) (*VTable, bool) {
	vt, ok := c.m[id]
	return vt, ok
}

// Put registers vt for id, replacing any previous table.
func (c *VTables) Put(id typeid.ID, vt *VTable) {
	c.m[id] = vt
}

// GetOrCreate returns the table for id, building it with mk on first use.
func (c *VTables) GetOrCreate(id typeid.ID, mk func() *VTable) *VTable {
	if vt, ok := c.m[id]; ok {
		return vt
	}
	vt := mk()
	c.m[id] = vt
	return vt
}

// Len returns the number of cached tables.
func (c *VTables) Len() int {
	return len(c.m)
}
