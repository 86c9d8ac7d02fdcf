package dicom

import "fmt"

// assertf panics with a formatted message. It exists for the handful of
// invariant violations that are program-logic faults rather than
// recoverable errors — header/value disagreement, an unreachable tokenizer
// transition.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
