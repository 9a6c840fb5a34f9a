package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "warn"}, &buf)
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Info("hidden")
	log.Warn("shown", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "value", entry["key"])

	assert.Same(t, log, slog.Default())
}

func TestSetupWithWriter_InvalidLevel(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "loud"}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "invalid log level configured")
	assert.Contains(t, buf.String(), `"configured_level":"loud"`)

	buf.Reset()
	log.Debug("not at info")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	customLogger, _ := logger.GetTestLogger(t)

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Same(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger, _ := logger.GetTestLogger(t)
		ctx := logger.WithLogger(context.Background(), customLogger)
		assert.Same(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, logger.TraceIDFromContext(context.Background()))

	ctx := logger.WithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", logger.TraceIDFromContext(ctx))
}

func TestCaptureLogs(t *testing.T) {
	out := logger.CaptureLogs(t, func(l *slog.Logger) {
		l.Debug("captured", "n", 1)
	})
	assert.Contains(t, out, `"msg":"captured"`)
}
