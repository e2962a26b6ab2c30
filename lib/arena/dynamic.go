package arena

import (
	"fmt"
	"math"
	"math/rand"
	"unsafe"
)

const defaultFirstBucketSize = 1024

// maxBucketSize is the biggest buffer that can be addressed by uint32 offsets of arena.Ptr.
const maxBucketSize = math.MaxUint32

// DynamicAllocator is the dynamically growable bump pointer allocator.
//
// It can grow it's capacity if needed and can prevent some types of unsafe behaviour by throwing panics.
// Preventable unsafe behaviors are:
//   - ToRef call with arena.Ptr that wasn't allocated by this arena.
//   - ToRef call with arena.Ptr that was allocated before arena DynamicAllocator.Clear call.
//   - Alloc call with unsupported alignment value.
//
// DynamicAllocator has no limits functionality, so for such features, please refer to arena.GenericAllocator.
type DynamicAllocator struct {
	freeListOfClearArenas minHeapOfClearArenas

	arenas          []RawAllocator
	currentArena    RawAllocator
	currentArenaIdx int

	usedBytes         int
	allocatedBytes    int
	onHeapAllocations int

	arenaMask uint16

	zeroPointerTarget [1]byte
}

// NewDynamicAllocator creates an instance of arena.DynamicAllocator.
func NewDynamicAllocator() *DynamicAllocator {
	return &DynamicAllocator{}
}

// NewDynamicAllocatorWithInitialCapacity creates an instance of arena.DynamicAllocator
// with the first bucket big enough to serve size bytes.
func NewDynamicAllocatorWithInitialCapacity(size uint) *DynamicAllocator {
	result := &DynamicAllocator{}
	result.init()
	result.grow(int(size))
	return result
}

// Alloc performs allocation within underlying arenas.
//
// It returns arena.Ptr value, which is basically
// an offset and index of arena used for this allocation.
//
// alignment - should be a power of 2 number and can't be 0
// In case of any violations, panic will be thrown.
// Returns arena.AllocationLimitError if size doesn't fit into a single bucket.
func (a *DynamicAllocator) Alloc(size, alignment uintptr) (Ptr, error) {
	a.init()
	targetAlignment := uint32(alignment)

	if !isPowerOfTwo(targetAlignment) {
		panic(fmt.Errorf("alignment should be power of 2. actual value: %d", alignment))
	}
	if uint64(size)+uint64(targetAlignment) > maxBucketSize {
		return Ptr{}, AllocationLimitError
	}
	targetSize := int(size)

	padding := int(calculatePadding(a.currentArena.offset, targetAlignment))
	if targetSize+padding > len(a.currentArena.buffer)-int(a.currentArena.offset) {
		a.grow(targetSize + int(targetAlignment))
	}
	offsetBefore := a.currentArena.offset
	result, allocErr := a.currentArena.Alloc(size, alignment)
	if allocErr != nil {
		return Ptr{}, allocErr
	}
	a.usedBytes += int(a.currentArena.offset - offsetBefore)
	result.bucketIdx = uint8(a.currentArenaIdx)
	result.arenaMask = a.arenaMask
	return result, nil
}

// ToRef converts arena.Ptr to unsafe.Pointer.
//
// DynamicAllocator.ToRef panics if you try to convert arena.Ptr
// that was allocated by other arena or before the last Clear call,
// this is done by comparison of arena.Ptr.arenaMask fields.
//
// We'd suggest calling this method right before using the result pointer to eliminate its visibility scope
// and potentially prevent it's escaping to the heap.
func (a *DynamicAllocator) ToRef(p Ptr) unsafe.Pointer {
	if p.arenaMask != a.arenaMask {
		panic("pointer isn't part of this arena")
	}
	targetArena := &a.currentArena
	if int(p.bucketIdx) != a.currentArenaIdx {
		targetArena = &a.arenas[p.bucketIdx]
	}
	if targetArena.buffer == nil && p.offset == 0 {
		return unsafe.Pointer(&a.zeroPointerTarget[0])
	}
	return targetArena.ToRef(p)
}

// CurrentOffset returns the current allocation offset.
// This method can be primarily used to build other allocators on top of arena.DynamicAllocator.
func (a *DynamicAllocator) CurrentOffset() Offset {
	a.init()
	offset := a.currentArena.CurrentOffset()
	offset.p.bucketIdx = uint8(a.currentArenaIdx)
	offset.p.arenaMask = a.arenaMask
	return offset
}

// Clear fills all underlying buffers with zeros and moves offsets to zero.
// Moves all used buckets to the free-list, so they can be reused by future allocations.
//
// Clear invocation also changes the arena mask
// so it can prevent some "use after free" ToRef calls with arena.Ptr allocated before Clear,
// but it can't catch usages of already converted values.
func (a *DynamicAllocator) Clear() {
	a.init()
	if len(a.currentArena.buffer) > 0 {
		a.currentArena.Clear()
		a.freeListOfClearArenas.Push(a.currentArena)
	}
	a.currentArena = RawAllocator{}

	for _, ar := range a.arenas {
		if len(ar.buffer) > 0 {
			ar.Clear()
			a.freeListOfClearArenas.Push(ar)
		}
	}
	a.arenas = a.arenas[:0]

	a.currentArenaIdx = 0
	a.usedBytes = 0
	a.arenaMask = (a.arenaMask + 1) | 1
}

// Stats provides a snapshot of essential allocation statistics.
func (a *DynamicAllocator) Stats() Stats {
	return Stats{
		UsedBytes:                a.usedBytes,
		AllocatedBytes:           a.allocatedBytes,
		CountOfOnHeapAllocations: a.onHeapAllocations,
	}
}

// Metrics provides a snapshot of current allocation statistics.
func (a *DynamicAllocator) Metrics() Metrics {
	return Metrics{
		Stats: a.Stats(),
		// we inline AvailableBytes calculation by hand to avoid full call to a.currentArena.Metrics
		AvailableBytes: len(a.currentArena.buffer) - int(a.currentArena.offset),
		MaxCapacity:    math.MaxInt32,
	}
}

// String provides a string snapshot of the current allocation offset.
func (a *DynamicAllocator) String() string {
	a.init()
	return fmt.Sprintf("dynarena{mask: %v offset: %v}", a.arenaMask, a.CurrentOffset())
}

func (a *DynamicAllocator) grow(requiredAvailableSize int) {
	if a.currentArena.buffer != nil && a.currentArenaIdx == math.MaxUint8 {
		panic("dynamic arena can't have more than 256 buckets")
	}
	newSize := uint64(max(len(a.currentArena.buffer)*2, max(requiredAvailableSize*2, defaultFirstBucketSize)))
	if newSize > maxBucketSize {
		newSize = maxBucketSize
	}
	newArena := a.getNewArena(uint32(newSize))
	if a.currentArena.buffer != nil {
		a.arenas = append(a.arenas, a.currentArena)
		a.currentArenaIdx++
	}
	a.currentArena = newArena
}

func (a *DynamicAllocator) getNewArena(size uint32) RawAllocator {
	newArenaFromFreeList, ok := a.tryToPickClearArenaFromFreeList(size)
	if ok {
		return newArenaFromFreeList
	}
	newRawArena := NewRawAllocator(size)
	a.allocatedBytes += len(newRawArena.buffer)
	a.onHeapAllocations++
	return *newRawArena
}

func (a *DynamicAllocator) tryToPickClearArenaFromFreeList(size uint32) (RawAllocator, bool) {
	for {
		candidate, ok := a.freeListOfClearArenas.Pop()
		if !ok {
			return RawAllocator{}, false
		}
		if uint64(len(candidate.buffer)) < uint64(size) {
			continue
		}
		return candidate, true
	}
}

func (a *DynamicAllocator) init() {
	if a.arenaMask == 0 {
		a.arenaMask = uint16(rand.Uint32()) | 1
	}
}

type minHeapOfClearArenas struct {
	heap []RawAllocator
}

func (h *minHeapOfClearArenas) Push(arena RawAllocator) {
	h.heap = append(h.heap, arena)
	currentIdx := len(h.heap) - 1
	for currentIdx > 0 {
		parentIdx := (currentIdx - 1) / 2
		if len(h.heap[currentIdx].buffer) >= len(h.heap[parentIdx].buffer) {
			break
		}
		h.heap[currentIdx], h.heap[parentIdx] = h.heap[parentIdx], h.heap[currentIdx]
		currentIdx = parentIdx
	}
}

func (h *minHeapOfClearArenas) Pop() (RawAllocator, bool) {
	if len(h.heap) == 0 {
		return RawAllocator{}, false
	}
	result := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	currentIdx := 0

	for {
		leftIdx := 2*currentIdx + 1
		if leftIdx >= len(h.heap) {
			break
		}
		smallestBetweenChildrenIdx := leftIdx
		rightIdx := leftIdx + 1
		if rightIdx < len(h.heap) && len(h.heap[rightIdx].buffer) < len(h.heap[leftIdx].buffer) {
			smallestBetweenChildrenIdx = rightIdx
		}
		if len(h.heap[smallestBetweenChildrenIdx].buffer) >= len(h.heap[currentIdx].buffer) {
			break
		}
		h.heap[currentIdx], h.heap[smallestBetweenChildrenIdx] = h.heap[smallestBetweenChildrenIdx], h.heap[currentIdx]
		currentIdx = smallestBetweenChildrenIdx
	}
	return result, true
}
