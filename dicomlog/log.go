package dicomlog

import (
	"github.com/sirupsen/logrus"
	"sync/atomic"
)

// level sets log verbosity. The larger the value, the more verbose.  Setting it
// to -1 disables all Vprintf output; Infof, Warnf and Errorf are not gated.
var level = int32(0)

// SetLevel sets log verbosity. The larger the value, the more verbose. Setting
// it to -1 disables all Vprintf output. Thread safe.
func SetLevel(l int) {
	atomic.StoreInt32(&level, int32(l))
}

// Level returns the current log level. The larger the value, the more verbose.
// Thread safe.
func Level() int {
	return int(atomic.LoadInt32(&level))
}

// Vprintf is shorthand for "if Level() >= l { logrus.Printf(...) }".
func Vprintf(l int, format string, args ...interface{}) {
	if Level() >= l {
		logrus.Printf(format, args...)
	}
}

// Infof logs a user-visible progress message (e.g. the ingestor CLI's
// "Downloading…"/"Writing…" messages), independent of the verbosity gate
// above.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Warnf logs a recoverable-but-notable condition, such as an unknown
// SpecificCharacterSet name the token reader falls back from.
func Warnf(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

// Errorf logs a fatal CLI-facing error before exit.
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}
