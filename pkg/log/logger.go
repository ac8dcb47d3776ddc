package log

import (
	"context"
	"fmt"
	"strings"
)

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

// NewLogger builds the logger named by format ("console" or "logrus").
func NewLogger(format, level string) (Logger, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return NewCslLogger(level)
	case "logrus":
		return NewLogrusLogger(level)
	default:
		return nil, fmt.Errorf("[ERROR][LOG] unsupported log format: %s", format)
	}
}

type runIDKey struct{}

// WithRunID tags ctx so every line logged for one harvest carries the same id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
