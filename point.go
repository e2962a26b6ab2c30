// Package points2d provides Sequence, an owning, value-semantic sequence of
// 2D points whose storage lives inside an arena allocator.
//
// A Sequence behaves like a value: Clone and CopyFrom perform deep copies,
// Move and MoveFrom transfer the storage and leave the source empty.
// Two sequences of different length can be added, the shorter one is padded
// with (0, 0) points.
package points2d

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is the set of element types a Point can hold.
// None of them contains pointers, so points can be stored inside arena memory.
type Number interface {
	constraints.Integer | constraints.Float
}

// Point represents a point in <X,Y> 2-space.
type Point[T Number] struct{ X, Y T }

// Pt is a convenience constructor for Point.
func Pt[T Number](x, y T) Point[T] { return Point[T]{X: x, Y: y} }

// Add adds another point's values to a copy of this point, returning the copy.
func (p Point[T]) Add(other Point[T]) Point[T] {
	p.X += other.X
	p.Y += other.Y
	return p
}

// String renders the point as "(X, Y)".
func (p Point[T]) String() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}
