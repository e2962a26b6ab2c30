package points2d

import (
	"github.com/sirupsen/logrus"
)

// Error type used by the package to declare error constants.
type Error string

// Error method that implements error interface.
func (e Error) Error() string {
	return string(e)
}

// ErrInvalidCount is returned by Parse if the declared count of points
// isn't a non-negative integer.
const ErrInvalidCount = Error("invalid count of points")

// ErrInvalidValue is returned by Parse if one of the coordinates
// can't be parsed as the element type of the sequence.
const ErrInvalidValue = Error("invalid coordinate value")

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used by the package.
// Contract violations are reported with its Fatalf method, which is expected to terminate the process.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}
