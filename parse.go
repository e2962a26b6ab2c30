package points2d

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Parse replaces the content of s with points read from one line of text.
//
// The line format is "n x0 y0 x1 y1 ...", where n is the declared count of points.
// Exactly n points are allocated: missing coordinates are zero and
// coordinates beyond 2*n are ignored. An empty line makes s empty.
//
// If the line can't be parsed, the returned error wraps ErrInvalidCount or ErrInvalidValue
// and s keeps its previous content.
func (s *Sequence[T]) Parse(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		s.Release()
		return nil
	}

	count, parseErr := strconv.Atoi(tokens[0])
	if parseErr != nil || count < 0 {
		return fmt.Errorf("%w: %q", ErrInvalidCount, tokens[0])
	}
	values := tokens[1:]
	if len(values)%2 != 0 || len(values)/2 != count {
		logger.WithFields(logrus.Fields{"declared": count, "coordinates": len(values)}).
			Debug("points2d: count of coordinates doesn't match declared count of points")
	}
	if len(values)/2 >= count {
		values = values[:2*count]
	}

	tmp := New[T](s.allocator())
	if count > 0 {
		tmp.data = tmp.allocate(count)
		tmp.length = count
	}
	points := tmp.view()
	for i := range points {
		points[i] = Point[T]{}
	}
	for i, token := range values {
		v, valueErr := ParseValue[T](token)
		if valueErr != nil {
			tmp.Release()
			return fmt.Errorf("coordinate %d: %w", i, valueErr)
		}
		if i%2 == 0 {
			points[i/2].X = v
		} else {
			points[i/2].Y = v
		}
	}

	s.MoveFrom(tmp)
	tmp.Release()
	return nil
}

// ReadLine reads one line from r and parses it with Parse.
//
// A last line without a trailing newline is parsed as usual.
// io.EOF is returned only if there is nothing left to read.
func (s *Sequence[T]) ReadLine(r *bufio.Reader) error {
	line, readErr := r.ReadString('\n')
	if readErr != nil && !(errors.Is(readErr, io.EOF) && line != "") {
		return readErr
	}
	return s.Parse(strings.TrimRight(line, "\r\n"))
}

// ParseValue parses token as a value of the element type T.
// Integers are parsed in base 10, floats in the strconv.ParseFloat format.
// The returned error wraps ErrInvalidValue.
func ParseValue[T Number](token string) (T, error) {
	var result T
	v := reflect.ValueOf(&result).Elem()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, parseErr := strconv.ParseInt(token, 10, v.Type().Bits())
		if parseErr != nil {
			return result, fmt.Errorf("%w: %q: %v", ErrInvalidValue, token, parseErr)
		}
		v.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parsed, parseErr := strconv.ParseUint(token, 10, v.Type().Bits())
		if parseErr != nil {
			return result, fmt.Errorf("%w: %q: %v", ErrInvalidValue, token, parseErr)
		}
		v.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, parseErr := strconv.ParseFloat(token, v.Type().Bits())
		if parseErr != nil {
			return result, fmt.Errorf("%w: %q: %v", ErrInvalidValue, token, parseErr)
		}
		v.SetFloat(parsed)
	}
	return result, nil
}
