// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import (
	"log"
	"sync/atomic"
)

type logFunc func(format string, v ...interface{})

var logger atomic.Pointer[logFunc]

func init() {
	SetLogger(log.Printf)
}

// Logf writes a diagnostic line through the current logger. The sensor
// goroutine and the display loop both log, so the logger is swapped
// atomically.
func Logf(format string, v ...interface{}) {
	(*logger.Load())(format, v...)
}

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		f = func(string, ...interface{}) {}
	}
	lf := logFunc(f)
	logger.Store(&lf)
}

// Component returns a logger that prefixes every line with "[name] ".
func Component(name string) func(format string, v ...interface{}) {
	prefix := "[" + name + "] "
	return func(format string, v ...interface{}) {
		Logf(prefix+format, v...)
	}
}
