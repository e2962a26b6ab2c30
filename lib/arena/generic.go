package arena

import (
	"fmt"
	"math/rand"
	"unsafe"
)

type allocator interface {
	Alloc(size uintptr, alignment uintptr) (Ptr, error)
	CurrentOffset() Offset
	ToRef(p Ptr) unsafe.Pointer
	Metrics() Metrics
}

// EnhancedMetrics extends arena.Metrics with statistics collected by arena.GenericAllocator itself.
type EnhancedMetrics struct {
	Metrics
	CountOfAllocations int
	PaddingOverhead    int
	DataBytes          int
}

// String provides a string snapshot of the EnhancedMetrics state.
func (p EnhancedMetrics) String() string {
	return fmt.Sprintf(
		"{UsedBytes: %v AvailableBytes: %v AllocatedBytes %v MaxCapacity %v CountOfOnHeapAllocations %v CountOfAllocations: %v PaddingOverhead: %v DataBytes: %v}",
		p.UsedBytes, p.AvailableBytes, p.AllocatedBytes, p.MaxCapacity, p.CountOfOnHeapAllocations, p.CountOfAllocations, p.PaddingOverhead, p.DataBytes,
	)
}

// Options configures arena.GenericAllocator.
// Zero value means no initial capacity and no allocation limit.
type Options struct {
	InitialCapacity        uint
	AllocationLimitInBytes uint
}

// GenericAllocator is the general purpose allocator of this library.
//
// It delegates allocations to the target allocator (arena.DynamicAllocator by default),
// can enforce an allocation limit and collects enhanced metrics.
// Zero value is ready to use.
type GenericAllocator struct {
	target     allocator
	ownsTarget bool
	arenaMask  uint16

	allocationLimitInBytes int

	countOfAllocations int
	paddingOverhead    int
	dataBytes          int
	usedBytes          int
	allocatedBytes     int
	onHeapAllocations  int
}

// NewGenericAllocator creates an instance of arena.GenericAllocator on top of a new arena.DynamicAllocator.
func NewGenericAllocator(opts Options) *GenericAllocator {
	result := &GenericAllocator{}
	if opts.InitialCapacity > 0 {
		result.target = NewDynamicAllocatorWithInitialCapacity(opts.InitialCapacity)
		result.ownsTarget = true
		result.allocatedBytes += result.target.Metrics().AllocatedBytes
		result.onHeapAllocations += result.target.Metrics().CountOfOnHeapAllocations
	}
	if opts.AllocationLimitInBytes > 0 {
		result.allocationLimitInBytes = int(opts.AllocationLimitInBytes)
	}
	result.init()
	return result
}

// NewSubAllocator creates an instance of arena.GenericAllocator that allocates inside the target allocator.
// Sub-allocator has its own arena mask, limit and metrics.
// The target stays owned by the caller: clearing the sub-allocator never clears the target.
func NewSubAllocator(target allocator, opts Options) *GenericAllocator {
	owned := false
	if target == nil {
		target = NewGenericAllocator(opts)
		owned = true
	}
	result := &GenericAllocator{target: target, ownsTarget: owned}
	if opts.AllocationLimitInBytes > 0 {
		result.allocationLimitInBytes = int(opts.AllocationLimitInBytes)
	}
	result.init()
	return result
}

// ToRef converts arena.Ptr to unsafe.Pointer.
// It panics if arena.Ptr wasn't allocated by this allocator or was allocated before the last Clear call.
func (a *GenericAllocator) ToRef(p Ptr) unsafe.Pointer {
	if p.arenaMask != a.arenaMask {
		panic("pointer isn't part of this arena")
	}

	if a.target == nil {
		return nil
	}
	p.arenaMask = a.target.CurrentOffset().p.arenaMask
	return a.target.ToRef(p)
}

// Alloc performs allocation within the target allocator.
// Returns arena.AllocationLimitError if the allocation doesn't fit into the configured limit.
func (a *GenericAllocator) Alloc(size, alignment uintptr) (Ptr, error) {
	a.init()
	targetAlignment := max(int(alignment), 1)
	targetSize := int(size)
	targetPadding := calculateRequiredPadding(a.target.CurrentOffset(), targetAlignment)

	if a.allocationLimitInBytes > 0 && a.usedBytes+targetSize+targetPadding > a.allocationLimitInBytes {
		return Ptr{}, AllocationLimitError
	}

	beforeCallMetrics := a.target.Metrics()
	result, allocErr := a.target.Alloc(size, alignment)
	if allocErr != nil {
		return Ptr{}, allocErr
	}
	afterCallMetrics := a.target.Metrics()

	a.countOfAllocations += 1
	a.usedBytes += afterCallMetrics.UsedBytes - beforeCallMetrics.UsedBytes
	a.dataBytes += targetSize
	a.paddingOverhead = a.usedBytes - a.dataBytes
	a.allocatedBytes += afterCallMetrics.AllocatedBytes - beforeCallMetrics.AllocatedBytes
	a.onHeapAllocations += afterCallMetrics.CountOfOnHeapAllocations - beforeCallMetrics.CountOfOnHeapAllocations

	result.arenaMask = a.arenaMask
	return result, nil
}

// Clear changes the arena mask, so every arena.Ptr allocated before this call becomes invalid.
//
// If the target allocator was created by this allocator, it is cleared too
// and its memory is reused by future allocations.
// A sub-allocator keeps its target untouched: memory stays reserved inside the target
// until the owner of the target clears it.
func (a *GenericAllocator) Clear() {
	if c, ok := a.target.(interface{ Clear() }); ok && a.ownsTarget {
		c.Clear()
	}

	a.arenaMask = (a.arenaMask + 1) | 1
	a.paddingOverhead = 0
	a.dataBytes = 0
	a.usedBytes = 0
}

// CurrentOffset returns the current allocation offset.
func (a *GenericAllocator) CurrentOffset() Offset {
	a.init()
	result := a.target.CurrentOffset()
	result.p.arenaMask = a.arenaMask
	return result
}

// String provides a string snapshot of the allocator state.
func (a *GenericAllocator) String() string {
	a.init()
	return fmt.Sprintf("arena{mask: %v target: %v}", a.arenaMask, a.target)
}

// Metrics provides a snapshot of current allocation statistics.
func (a *GenericAllocator) Metrics() Metrics {
	result := Metrics{
		Stats: Stats{
			UsedBytes:                a.usedBytes,
			AllocatedBytes:           a.allocatedBytes,
			CountOfOnHeapAllocations: a.onHeapAllocations,
		},
	}
	if a.target != nil {
		targetArenaMetrics := a.target.Metrics()
		result.AvailableBytes = targetArenaMetrics.AvailableBytes
		result.MaxCapacity = targetArenaMetrics.MaxCapacity
	}
	if a.allocationLimitInBytes > 0 {
		result.MaxCapacity = a.allocationLimitInBytes
		result.AvailableBytes = min(result.AvailableBytes, a.allocationLimitInBytes-result.UsedBytes)
	}
	return result
}

// EnhancedMetrics provides a snapshot of current allocation statistics
// extended with allocation count, padding overhead and data bytes.
func (a *GenericAllocator) EnhancedMetrics() EnhancedMetrics {
	return EnhancedMetrics{
		Metrics:            a.Metrics(),
		CountOfAllocations: a.countOfAllocations,
		PaddingOverhead:    a.paddingOverhead,
		DataBytes:          a.dataBytes,
	}
}

func (a *GenericAllocator) init() {
	if a.target == nil {
		a.target = &DynamicAllocator{}
		a.ownsTarget = true
	}
	if a.arenaMask == 0 {
		// here we can give guarantees that sub-arena mask will differ from parent arena
		modifier := uint16(rand.Uint32()) | 1
		a.arenaMask = (a.target.CurrentOffset().p.arenaMask + modifier) | 1
	}
}
