package value

import (
	rttiruntime "github.com/wippyai/rtti-runtime"
)

// Heap is the linear memory values live in. Closed reports that the heap has
// been torn down, after which destructors are no longer run.
type Heap interface {
	rttiruntime.Memory
	rttiruntime.Allocator
	Closed() bool
}
