package points2d

import (
	"math"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/storozhukBM/points2d/lib/arena"
)

// Sequence is a resizable sequence of 2D points.
//
// Storage holds exactly Len() points and is allocated inside the sequence allocator
// only when Len() > 0. The storage is owned exclusively: no two sequences share it.
//
// Zero value is an empty sequence ready to use, it creates its own arena.GenericAllocator
// on the first allocation.
//
// Sequence is not safe for concurrent use.
type Sequence[T Number] struct {
	alloc  arena.Allocator
	data   arena.Ptr
	length int
}

// New creates an empty sequence that will allocate its storage inside alloc.
// If alloc is nil, the sequence creates its own allocator when it needs one.
func New[T Number](alloc arena.Allocator) *Sequence[T] {
	return &Sequence[T]{alloc: alloc}
}

// FromPoint creates a sequence that holds exactly one point.
func FromPoint[T Number](alloc arena.Allocator, p Point[T]) *Sequence[T] {
	result := New[T](alloc)
	result.data = result.allocate(1)
	result.length = 1
	result.view()[0] = p
	return result
}

// Clone returns a deep copy of s allocated in the same allocator.
// The copy is independent of s.
func (s *Sequence[T]) Clone() *Sequence[T] {
	return s.cloneInto(s.alloc)
}

// Move creates a sequence that takes ownership of src storage.
// No allocation or copy is performed. src becomes empty and stays usable.
func Move[T Number](src *Sequence[T]) *Sequence[T] {
	result := &Sequence[T]{alloc: src.alloc, data: src.data, length: src.length}
	src.data = arena.Ptr{}
	src.length = 0
	return result
}

// CopyFrom replaces the content of s with a deep copy of rhs.
// The copy is allocated inside the allocator of s. Copying s into itself is a no-op.
func (s *Sequence[T]) CopyFrom(rhs *Sequence[T]) {
	if s == rhs {
		return
	}
	tmp := rhs.cloneInto(s.allocator())
	s.swap(tmp)
	tmp.Release()
}

// MoveFrom exchanges the content of s and rhs without copying.
// The previous content of s is left in rhs, so it is released together with rhs.
// Moving s into itself is a no-op.
func (s *Sequence[T]) MoveFrom(rhs *Sequence[T]) {
	if s == rhs {
		return
	}
	s.swap(rhs)
}

// Release gives up the storage and makes s empty.
// Arena memory is reclaimed when the allocator is cleared.
// Calling Release on an empty sequence is a no-op.
func (s *Sequence[T]) Release() {
	s.data = arena.Ptr{}
	s.length = 0
}

// Len returns the number of points in the sequence.
func (s *Sequence[T]) Len() int {
	return s.length
}

// At returns the point at index i.
//
// Index has to satisfy 0 <= i < Len(), otherwise the process is terminated
// via the package logger Fatalf. There is no way to recover from it,
// so callers should check the index themselves.
func (s *Sequence[T]) At(i int) Point[T] {
	if i < 0 || i >= s.length {
		logger.WithFields(logrus.Fields{"index": i, "len": s.length}).
			Fatalf("points2d: index %d out of range [0, %d)", i, s.length)
	}
	return s.view()[i]
}

// Points returns a copy of the sequence content allocated in the general heap,
// or nil for an empty sequence.
func (s *Sequence[T]) Points() []Point[T] {
	if s.length == 0 {
		return nil
	}
	result := make([]Point[T], s.length)
	copy(result, s.view())
	return result
}

// Equal reports whether both sequences hold the same points in the same order.
func (s *Sequence[T]) Equal(other *Sequence[T]) bool {
	if s.length != other.length {
		return false
	}
	otherPoints := other.view()
	for i, p := range s.view() {
		if p != otherPoints[i] {
			return false
		}
	}
	return true
}

// Add returns a new sequence with the elementwise sum of a and b.
//
// The result has max(a.Len(), b.Len()) points, the shorter sequence is treated
// as if it was padded with (0, 0) points. The result is allocated inside
// the allocator of a, or of b if a has none.
func Add[T Number](a, b *Sequence[T]) *Sequence[T] {
	alloc := a.alloc
	if alloc == nil {
		alloc = b.alloc
	}
	result := New[T](alloc)
	length := max(a.length, b.length)
	if length == 0 {
		return result
	}
	result.data = result.allocate(length)
	result.length = length

	aPoints, bPoints := a.view(), b.view()
	dst := result.view()
	for i := range dst {
		var sum Point[T]
		if i < len(aPoints) {
			sum = sum.Add(aPoints[i])
		}
		if i < len(bPoints) {
			sum = sum.Add(bPoints[i])
		}
		dst[i] = sum
	}
	return result
}

// Add is a method form of Add(s, other).
func (s *Sequence[T]) Add(other *Sequence[T]) *Sequence[T] {
	return Add(s, other)
}

func (s *Sequence[T]) cloneInto(alloc arena.Allocator) *Sequence[T] {
	result := New[T](alloc)
	if s.length == 0 {
		return result
	}
	result.data = result.allocate(s.length)
	result.length = s.length
	copy(result.view(), s.view())
	return result
}

func (s *Sequence[T]) swap(other *Sequence[T]) {
	s.alloc, other.alloc = other.alloc, s.alloc
	s.data, other.data = other.data, s.data
	s.length, other.length = other.length, s.length
}

func (s *Sequence[T]) allocator() arena.Allocator {
	if s.alloc == nil {
		s.alloc = arena.NewGenericAllocator(arena.Options{})
	}
	return s.alloc
}

// allocate reserves storage for n points; allocation failure is fatal.
func (s *Sequence[T]) allocate(n int) arena.Ptr {
	var p Point[T]
	if n > maxPoints[T]() {
		logger.WithFields(logrus.Fields{"points": n, "limit": maxPoints[T]()}).
			Fatalf("points2d: can't allocate storage: %d points don't fit into address space", n)
	}
	size := uintptr(n) * unsafe.Sizeof(p)
	ptr, allocErr := s.allocator().Alloc(size, unsafe.Alignof(p))
	if allocErr != nil {
		logger.WithFields(logrus.Fields{"points": n, "bytes": size}).
			Fatalf("points2d: can't allocate storage: %v", allocErr)
	}
	return ptr
}

// maxPoints is the biggest count of points whose size in bytes is representable by int.
func maxPoints[T Number]() int {
	var p Point[T]
	return math.MaxInt / int(unsafe.Sizeof(p))
}

// view returns storage as a slice that aliases arena memory.
func (s *Sequence[T]) view() []Point[T] {
	if s.length == 0 {
		return nil
	}
	return unsafe.Slice((*Point[T])(s.alloc.ToRef(s.data)), s.length)
}
