package log

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger writes JSON records at or above level to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(msg string, fields ...any) { emit(z.zl.Debug(), msg, fields) }
func (z *ZerologLogger) Info(msg string, fields ...any)  { emit(z.zl.Info(), msg, fields) }
func (z *ZerologLogger) Warn(msg string, fields ...any)  { emit(z.zl.Warn(), msg, fields) }

func (z *ZerologLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if code := ErrorCode(err); code != "" {
				ev = ev.Str(ErrorCodeKey, code)
			}
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceKey, st)
			}
			fields = fields[1:]
		}
	}
	emit(ev, msg, fields)
}

// With returns a child logger carrying fields.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprint(fields[i]), fieldValue(fields[i+1]))
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

// Zerolog exposes the underlying zerolog.Logger.
func (z *ZerologLogger) Zerolog() zerolog.Logger { return z.zl }

func emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func fieldValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

// InstallWarningHandler routes errors.Warn through z. Warnings implementing
// zerolog.LogObjectMarshaler are embedded as structured fields.
func InstallWarningHandler(z *ZerologLogger) {
	if z == nil {
		errors.SetZerologWarnFunc(nil)
		return
	}
	errors.SetZerologWarnFunc(func(w error) {
		ev := z.zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}
