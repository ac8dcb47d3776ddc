package log

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
)

const (
	levelDebug = iota
	levelInfo
	levelNotice
	levelWarn
	levelError
)

type CslLogger struct {
	out   *log.Logger
	level int
}

func NewCslLogger(level string) (*CslLogger, error) {
	return NewCslLoggerWithWriter(os.Stderr, level), nil
}

func NewCslLoggerWithWriter(w io.Writer, level string) *CslLogger {
	return &CslLogger{
		out:   log.New(w, "", log.LstdFlags),
		level: parseLevel(level),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return levelDebug
	case "notice":
		return levelNotice
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *CslLogger) printf(ctx context.Context, level int, tag string, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	newFormat := "[" + tag + "] "
	if id := RunID(ctx); id != "" {
		newFormat += "[" + id + "] "
	}
	l.out.Printf(newFormat+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelInfo, "INFO", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelError, "ALERT", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelError, "ERROR", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelWarn, "WARN", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelDebug, "DEBUG", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelError, "CRITICAL", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelError, "EMERGENCY", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, levelNotice, "NOTICE", format, args...)
}
