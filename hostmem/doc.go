// Package hostmem provides linear-memory heaps for values.
//
// A Heap pairs a Memory with an Allocator. Two memories are available:
//
//	heap := hostmem.NewLocal(64 * 1024)          // Go byte slice
//	heap, err := hostmem.NewWazero(ctx, 1)       // wazero linear memory, 1 page
//	defer heap.Close()
//
// Both are managed by a first-fit FreeList allocator that tracks live
// allocations. Address 0 is never returned.
//
// Closing a heap marks it torn down: values released afterwards skip their
// destructors and only return their buffers.
package hostmem
