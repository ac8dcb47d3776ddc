package log

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// LogrusLogger writes structured entries. Output is JSON unless stderr is a terminal.
type LogrusLogger struct {
	entry *logrus.Logger
}

func NewLogrusLogger(level string) (*LogrusLogger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &LogrusLogger{entry: l}, nil
}

// NewLogrusLoggerWithWriter always emits JSON, which keeps test output parseable.
func NewLogrusLoggerWithWriter(w io.Writer, level logrus.Level) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(level)
	return &LogrusLogger{entry: l}
}

func (l *LogrusLogger) with(ctx context.Context, severity string) *logrus.Entry {
	e := logrus.NewEntry(l.entry)
	if id := RunID(ctx); id != "" {
		e = e.WithField("run_id", id)
	}
	if severity != "" {
		e = e.WithField("severity", severity)
	}
	return e
}

func (l *LogrusLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "").Infof(format, args...)
}

func (l *LogrusLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "alert").Errorf(format, args...)
}

func (l *LogrusLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "").Errorf(format, args...)
}

func (l *LogrusLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "").Warnf(format, args...)
}

func (l *LogrusLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "").Debugf(format, args...)
}

func (l *LogrusLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "notice").Infof(format, args...)
}

// Critical and Emergency are logged at error level; neither exits the process.
func (l *LogrusLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "critical").Errorf(format, args...)
}

func (l *LogrusLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "emergency").Errorf(format, args...)
}
