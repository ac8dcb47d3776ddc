package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCslLogger(t *testing.T) {
	t.Run("prefixes level and run id", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewCslLoggerWithWriter(&buf, "debug")
		ctx := WithRunID(context.Background(), "run-1")

		l.Warn(ctx, "skipped %s", "acme/widgets")

		assert.Contains(t, buf.String(), "[WARN] [run-1] skipped acme/widgets")
	})

	t.Run("drops lines below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewCslLoggerWithWriter(&buf, "warn")

		l.Info(context.Background(), "hidden")
		l.Debug(context.Background(), "hidden")
		l.Error(context.Background(), "shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "[ERROR] shown")
	})
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogrusLoggerWithWriter(&buf, logrus.DebugLevel)
	ctx := WithRunID(context.Background(), "run-2")

	l.Critical(ctx, "upload failed: %d", 500)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "upload failed: 500", entry["msg"])
	assert.Equal(t, "run-2", entry["run_id"])
	assert.Equal(t, "critical", entry["severity"])
	assert.Equal(t, "error", entry["level"])
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("console", "info")
	require.NoError(t, err)
	assert.IsType(t, &CslLogger{}, l)

	l, err = NewLogger("logrus", "debug")
	require.NoError(t, err)
	assert.IsType(t, &LogrusLogger{}, l)

	_, err = NewLogger("syslog", "info")
	assert.Error(t, err)
}

func TestRunID(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))
	assert.Equal(t, "abc", RunID(WithRunID(context.Background(), "abc")))
}
