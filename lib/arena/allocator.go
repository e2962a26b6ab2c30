package arena

import "unsafe"

// Allocator is the common interface implemented by all allocators of this library.
//
// It can be used to pass allocators through layers of your application,
// for example, bound to context.Context with arena.WithAllocator.
type Allocator interface {
	Alloc(size, alignment uintptr) (Ptr, error)
	ToRef(p Ptr) unsafe.Pointer
	CurrentOffset() Offset
	Metrics() Metrics
	Clear()
}

var (
	_ Allocator = &RawAllocator{}
	_ Allocator = &DynamicAllocator{}
	_ Allocator = &GenericAllocator{}
)
