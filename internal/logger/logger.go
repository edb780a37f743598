// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("starting engine")
//	logger.Debugf("vix=%f strike=%f", vix, strike)
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// log is the shared logrus instance backing the package-level helpers.
var log = newLogger()

// current holds the active verbosity level.
// Only messages with level <= current are logged.
var current Level = Info

func newLogger() *logrus.Logger {
	l := logrus.New()
	// Log output goes to stderr so it stays separated from report output,
	// which matters for CLI use in pipelines.
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	// Filtering happens in logf; logrus itself passes everything through.
	l.SetLevel(logrus.TraceLevel)
	return l
}

// SetVerbosity sets the global logging verbosity.
// Typically called once during application startup
// (e.g. after parsing CLI flags).
func SetVerbosity(v int) {
	current = Level(v)
}

// logf checks verbosity and delegates formatting/output to logrus.
func logf(l Level, fn func(format string, args ...any), format string, args ...any) {
	if current >= l {
		fn(format, args...)
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	logf(Error, log.Errorf, format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	logf(Info, log.Infof, format, args...)
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	logf(Debug, log.Debugf, format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	logf(Trace, log.Tracef, format, args...)
}
