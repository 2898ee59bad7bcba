// Package log provides structured logging for statlearn estimators and the
// experiment driver.
//
// Logger is a minimal slog-compatible interface. Two implementations ship with
// the package: the zerolog-backed logger returned by NewZerologLogger, and the
// in-memory TestLogger for assertions in tests. SetupLogger configures the
// process-wide log/slog default used by the command-line driver.
//
// Example usage:
//
//	logger := log.GetLogger().With(log.ModelNameKey, "QDA")
//	logger.Info("model fitted",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 150,
//	    log.FeaturesKey, 2,
//	)
package log

import (
	"context"
	"sync"
)

// Logger is a structured logger with alternating key/value fields.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	// Error logs at error level. An error passed as the first field is
	// recorded under the "error" key.
	Error(msg string, fields ...any)
	// With returns a logger that adds fields to every record.
	With(fields ...any) Logger
	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with slog-compatible values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewNopLogger()
)

// GetLogger returns the package-wide logger. It discards everything until
// SetLogger is called.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLogger replaces the package-wide logger. A nil logger restores the
// no-op logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if l == nil {
		l = NewNopLogger()
	}
	globalLogger = l
}

type nopLogger struct{}

// NewNopLogger returns a Logger that drops every record.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (n nopLogger) With(...any) Logger { return n }

func (nopLogger) Enabled(context.Context, Level) bool { return false }
