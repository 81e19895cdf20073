package insulator

import (
	"log/slog"
	"sync/atomic"
)

// logger is the process-wide diagnostic sink. The package only emits
// through it; configuring handlers, levels, and output belongs entirely to
// the caller. nil (the default) disables emission.
var logger atomic.Pointer[slog.Logger]

// SetLogger installs a diagnostic logger for the package. Events are
// emitted at Debug level only (storage transitions, raw-block validation
// failures). Passing nil removes the logger.
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(l)
}

// debugf emits a Debug event if a logger is installed.
func debugf(msg string, args ...any) {
	if l := logger.Load(); l != nil {
		l.Debug(msg, args...)
	}
}
