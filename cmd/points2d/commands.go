package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/storozhukBM/points2d"
	"github.com/storozhukBM/points2d/lib/arena"
)

type runFunc func(cmd *cobra.Command, args []string) error

// byElementType picks the runner instantiated for the element type selected by --type.
func byElementType(s *session, runInt, runFloat runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		if s.elementType == floatElementType {
			return runFloat(cmd, args)
		}
		return runInt(cmd, args)
	}
}

func newSumCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "sum",
		Short: "Read two sequences and print them followed by their sum",
		Args:  cobra.NoArgs,
		RunE:  byElementType(s, runSum[int64], runSum[float64]),
	}
}

func newPrintCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print every input line as a sequence",
		Args:  cobra.NoArgs,
		RunE:  byElementType(s, runPrint[int64](s), runPrint[float64](s)),
	}
}

type shiftOptions struct {
	x string
	y string
}

func newShiftCommand(s *session) *cobra.Command {
	shift := &shiftOptions{}
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Add the point (x, y) to the first point of every input sequence",
		Args:  cobra.NoArgs,
		RunE:  byElementType(s, runShift[int64](s, shift), runShift[float64](s, shift)),
	}
	cmd.Flags().StringVar(&shift.x, "x", "0", "x coordinate of the shift")
	cmd.Flags().StringVar(&shift.y, "y", "0", "y coordinate of the shift")
	return cmd
}

func runSum[T points2d.Number](cmd *cobra.Command, _ []string) error {
	r := newSequenceReader[T](cmd, allocatorOf(cmd))
	a, aErr := r.next()
	if aErr != nil {
		return expectLine(aErr, "first")
	}
	b, bErr := r.next()
	if bErr != nil {
		return expectLine(bErr, "second")
	}

	out := cmd.OutOrStdout()
	for _, seq := range []*points2d.Sequence[T]{a, b, points2d.Add(a, b)} {
		if _, writeErr := seq.WriteTo(out); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func runPrint[T points2d.Number](s *session) runFunc {
	return func(cmd *cobra.Command, _ []string) error {
		return forEachSequence[T](cmd, s.lineAlloc, func(seq *points2d.Sequence[T]) *points2d.Sequence[T] {
			return seq
		})
	}
}

func runShift[T points2d.Number](s *session, shift *shiftOptions) runFunc {
	return func(cmd *cobra.Command, _ []string) error {
		x, xErr := points2d.ParseValue[T](shift.x)
		if xErr != nil {
			return fmt.Errorf("flag --x: %w", xErr)
		}
		y, yErr := points2d.ParseValue[T](shift.y)
		if yErr != nil {
			return fmt.Errorf("flag --y: %w", yErr)
		}
		unit := points2d.FromPoint(allocatorOf(cmd), points2d.Pt(x, y))
		return forEachSequence[T](cmd, s.lineAlloc, func(seq *points2d.Sequence[T]) *points2d.Sequence[T] {
			return points2d.Add(seq, unit)
		})
	}
}

// forEachSequence parses every input line inside lineAlloc, writes the transformed sequence
// and clears lineAlloc, so memory used by a line is reused by the next one.
// transform has to allocate its result in the allocator of its argument.
func forEachSequence[T points2d.Number](
	cmd *cobra.Command, lineAlloc arena.Allocator, transform func(*points2d.Sequence[T]) *points2d.Sequence[T],
) error {
	r := newSequenceReader[T](cmd, lineAlloc)
	out := cmd.OutOrStdout()
	for {
		seq, readErr := r.next()
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return readErr
		}
		result := transform(seq)
		_, writeErr := result.WriteTo(out)
		result.Release()
		seq.Release()
		lineAlloc.Clear()
		if writeErr != nil {
			return writeErr
		}
	}
}

type sequenceReader[T points2d.Number] struct {
	in    *bufio.Reader
	alloc arena.Allocator
	line  int
}

func newSequenceReader[T points2d.Number](cmd *cobra.Command, alloc arena.Allocator) *sequenceReader[T] {
	return &sequenceReader[T]{
		in:    bufio.NewReader(cmd.InOrStdin()),
		alloc: alloc,
	}
}

// next returns io.EOF when the input is exhausted.
func (r *sequenceReader[T]) next() (*points2d.Sequence[T], error) {
	r.line++
	s := points2d.New[T](r.alloc)
	if readErr := s.ReadLine(r.in); readErr != nil {
		if errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		return nil, fmt.Errorf("line %d: %w", r.line, readErr)
	}
	return s, nil
}

func allocatorOf(cmd *cobra.Command) arena.Allocator {
	return arena.GetAllocatorOrDefault(cmd.Context(), nil)
}

func expectLine(err error, which string) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s sequence is missing: %w", which, io.ErrUnexpectedEOF)
	}
	return err
}
