package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs a JSON slog handler on stdout as the slog default.
// Records carrying an ErrAttr get a "stacktrace" attribute extracted from
// cockroachdb/errors.
func SetupLogger(loglevel string) {
	SetupLoggerTo(os.Stdout, ToLogLevel(loglevel))
}

// SetupLoggerTo is SetupLogger with an explicit writer and level.
func SetupLoggerTo(w io.Writer, level slog.Level) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// ToLogLevel is ParseLevel that panics on unknown names.
func ToLogLevel(level string) slog.Level {
	l, err := ParseLevel(level)
	if err != nil {
		panic(err.Error())
	}
	return l
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
