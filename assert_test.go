// assert_test.go -- shared test assertion helper
//
// Grounded on opencoff-go-bbhash/bitvector_test.go's newAsserter: a
// closure over *testing.T that fails with caller file:line on a false
// condition, used throughout this package's hand-rolled tests the way
// the corpus uses it instead of a third-party assertion library for its
// own core-algorithm tests.
package ftstable

import (
	"fmt"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}

		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}

		s := fmt.Sprintf(msg, args...)
		t.Fatalf("%s: %d: Assertion failed: %s\n", file, line, s)
	}
}
