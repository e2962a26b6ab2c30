package arena

import (
	"fmt"
	"testing"
)

func assert(condition bool, msg string, args ...interface{}) {
	if !condition {
		fmt.Printf(msg, args...)
		fmt.Printf("\n")
		panic("assertion failed")
	}
}

func failOnError(t *testing.T, e error) {
	if e != nil {
		t.Error(e)
		t.FailNow()
	}
}

func expectPanic(t *testing.T, msg string, f func()) {
	panicHappened := false
	func() {
		defer func() {
			if recover() != nil {
				panicHappened = true
			}
		}()
		f()
	}()
	assert(panicHappened, msg)
}
