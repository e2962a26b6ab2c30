package arena

import (
	"fmt"
	"unsafe"
)

// RawAllocator is the simplest bump pointer allocator on top of one fixed-size byte buffer.
//
// It never grows, so once the buffer is exhausted every allocation returns arena.AllocationLimitError.
// RawAllocator doesn't protect from "use after Clear", please refer to arena.DynamicAllocator
// or arena.GenericAllocator for such checks.
type RawAllocator struct {
	buffer []byte
	offset uint32
}

// NewRawAllocator creates an instance of arena.RawAllocator with a buffer of the specified size.
func NewRawAllocator(size uint32) *RawAllocator {
	return &RawAllocator{
		buffer: make([]byte, int(size)),
	}
}

// Alloc performs allocation within an underlying buffer.
//
// alignment - should be a power of 2 number and can't be 0
// In case of any violations, panic will be thrown.
func (a *RawAllocator) Alloc(size, alignment uintptr) (Ptr, error) {
	targetAlignment := uint32(alignment)
	if !isPowerOfTwo(targetAlignment) {
		panic(fmt.Errorf("alignment should be power of 2. actual value: %d", alignment))
	}

	padding := calculatePadding(a.offset, targetAlignment)
	availableSize := uint64(len(a.buffer)) - uint64(a.offset)
	if uint64(size)+uint64(padding) > availableSize {
		return Ptr{}, AllocationLimitError
	}
	a.offset += padding

	allocationOffset := a.offset
	a.offset += uint32(size)
	return Ptr{offset: allocationOffset}, nil
}

// ToRef converts arena.Ptr to unsafe.Pointer.
//
// It panics if the arena.Ptr offset lies outside of the underlying buffer.
func (a *RawAllocator) ToRef(p Ptr) unsafe.Pointer {
	if int(p.offset) > len(a.buffer) {
		panic(fmt.Errorf("pointer offset %d is out of arena bounds %d", p.offset, len(a.buffer)))
	}
	if a.buffer == nil {
		return nil
	}
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(a.buffer)), p.offset)
}

// Clear fills the underlying buffer with zeros and moves the offset to zero.
func (a *RawAllocator) Clear() {
	clearBytes(a.buffer)
	a.offset = 0
}

// CurrentOffset returns the current allocation offset.
func (a *RawAllocator) CurrentOffset() Offset {
	return Offset{p: Ptr{offset: a.offset}}
}

// String provides a string snapshot of the current allocation offset.
func (a *RawAllocator) String() string {
	return fmt.Sprintf("rawarena{%v}", a.CurrentOffset())
}

// Metrics provides a snapshot of current allocation statistics.
func (a *RawAllocator) Metrics() Metrics {
	onHeapAllocations := 0
	if a.buffer != nil {
		onHeapAllocations = 1
	}
	return Metrics{
		Stats: Stats{
			UsedBytes:                int(a.offset),
			AllocatedBytes:           len(a.buffer),
			CountOfOnHeapAllocations: onHeapAllocations,
		},
		AvailableBytes: len(a.buffer) - int(a.offset),
		MaxCapacity:    len(a.buffer),
	}
}
