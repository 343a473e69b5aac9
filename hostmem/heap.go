package hostmem

import (
	rttiruntime "github.com/wippyai/rtti-runtime"
)

// Heap is a linear memory with an allocator and a torn-down flag.
type Heap struct {
	rttiruntime.Memory
	rttiruntime.Allocator
	onClose func() error
	closed  bool
}

// New pairs a memory with an allocator.
func New(mem rttiruntime.Memory, alloc rttiruntime.Allocator) *Heap {
	return &Heap{Memory: mem, Allocator: alloc}
}

// NewLocal creates a heap over a Go byte slice of the given size.
func NewLocal(size uint32) *Heap {
	return New(NewLocalMemory(size), NewFreeList(size))
}

// Closed reports whether Close has been called.
func (h *Heap) Closed() bool {
	return h.closed
}

// Close marks the heap torn down and releases any backing runtime.
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.onClose != nil {
		return h.onClose()
	}
	return nil
}

// Live returns the number of outstanding allocations, or -1 if the allocator
// does not track them.
func (h *Heap) Live() int {
	if fl, ok := h.Allocator.(*FreeList); ok {
		return fl.Live()
	}
	return -1
}
