package log

import (
	"context"
	"fmt"
	"log/slog"

	crerrors "github.com/cockroachdb/errors"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

// ErrFmtHandler is a slog handler that expands the error of an ErrAttr into
// a stack trace and an error code.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with error expansion.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		err, _ = attr.Value.Any().(error)
		return false
	})
	if err != nil {
		if code := ErrorCode(err); code != "" {
			r.AddAttrs(slog.String(ErrorCodeKey, code))
		}
		if st := extractStacktrace(err); st != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, st))
		}
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// ErrorCode maps err onto one of the Error* codes, or "" when it matches
// none of the package sentinels.
func ErrorCode(err error) string {
	var conv *errors.ConvergenceWarning
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.ErrSingularMatrix):
		return ErrorSingularMatrix
	case errors.Is(err, errors.ErrDimensionMismatch):
		return ErrorDimensionMismatch
	case errors.Is(err, errors.ErrNotFitted):
		return ErrorNotFitted
	case errors.Is(err, errors.ErrEmptyData):
		return ErrorEmptyData
	case errors.Is(err, errors.ErrInvalidHyperparameter):
		return ErrorInvalidInput
	case errors.As(err, &conv):
		return ErrorConvergence
	}
	return ""
}

// extractStacktrace returns the verbose rendering of err when it carries a
// stack trace, and "" otherwise.
func extractStacktrace(err error) string {
	if _, _, _, ok := crerrors.GetOneLineSource(err); !ok {
		return ""
	}
	return fmt.Sprintf("%+v", err)
}
