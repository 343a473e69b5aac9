package hostmem

import (
	"sort"

	rtterrors "github.com/wippyai/rtti-runtime/errors"
)

// minAddr keeps address 0 free so it can serve as the null pointer.
const minAddr = 8

type block struct {
	start, end uint32
}

// FreeList is a first-fit allocator over a fixed address range. It records
// every live allocation so that leaks and double frees are observable.
type FreeList struct {
	free []block
	live map[uint32]uint32
}

// NewFreeList creates an allocator managing [8, size).
func NewFreeList(size uint32) *FreeList {
	fl := &FreeList{live: make(map[uint32]uint32)}
	if size > minAddr {
		fl.free = []block{{start: minAddr, end: size}}
	}
	return fl
}

func alignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Alloc returns the address of a new buffer of at least size bytes.
func (fl *FreeList) Alloc(size, align uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}

	for i, b := range fl.free {
		ptr := alignTo(b.start, align)
		if ptr < b.start || uint64(ptr)+uint64(size) > uint64(b.end) {
			continue
		}

		var rest []block
		if ptr > b.start {
			rest = append(rest, block{start: b.start, end: ptr})
		}
		if ptr+size < b.end {
			rest = append(rest, block{start: ptr + size, end: b.end})
		}
		fl.free = append(fl.free[:i], append(rest, fl.free[i+1:]...)...)
		fl.live[ptr] = size
		return ptr, nil
	}

	return 0, rtterrors.AllocationFailed(rtterrors.PhaseValue, size, align)
}

// Free returns a buffer to the free list. Freeing an address that is not
// live is fatal.
func (fl *FreeList) Free(ptr, size, align uint32) {
	n, ok := fl.live[ptr]
	if !ok {
		rtterrors.Fail("free of address %d which is not allocated", ptr)
	}
	delete(fl.live, ptr)

	idx := sort.Search(len(fl.free), func(i int) bool {
		return fl.free[i].start > ptr
	})
	fl.free = append(fl.free, block{})
	copy(fl.free[idx+1:], fl.free[idx:])
	fl.free[idx] = block{start: ptr, end: ptr + n}

	fl.coalesce(idx)
}

func (fl *FreeList) coalesce(idx int) {
	if idx+1 < len(fl.free) && fl.free[idx].end == fl.free[idx+1].start {
		fl.free[idx].end = fl.free[idx+1].end
		fl.free = append(fl.free[:idx+1], fl.free[idx+2:]...)
	}
	if idx > 0 && fl.free[idx-1].end == fl.free[idx].start {
		fl.free[idx-1].end = fl.free[idx].end
		fl.free = append(fl.free[:idx], fl.free[idx+1:]...)
	}
}

// Live returns the number of outstanding allocations.
func (fl *FreeList) Live() int {
	return len(fl.live)
}

// LiveBytes returns the number of bytes in outstanding allocations.
func (fl *FreeList) LiveBytes() uint32 {
	var total uint32
	for _, n := range fl.live {
		total += n
	}
	return total
}
