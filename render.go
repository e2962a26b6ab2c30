package points2d

import (
	"io"
	"strings"
)

// String renders the sequence as "(x0, y0) (x1, y1) " followed by a newline.
// An empty sequence is rendered as "()" followed by a newline.
func (s *Sequence[T]) String() string {
	var b strings.Builder
	for _, p := range s.view() {
		b.WriteString(p.String())
		b.WriteByte(' ')
	}
	if s.length == 0 {
		b.WriteString("()")
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteTo writes the String representation of the sequence to w.
func (s *Sequence[T]) WriteTo(w io.Writer) (int64, error) {
	n, writeErr := io.WriteString(w, s.String())
	return int64(n), writeErr
}
