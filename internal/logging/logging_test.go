package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"TRACE", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"fatal", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetLevel(tt.input))
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("multiple schemas", slog.String("path", "/items"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "multiple schemas", record["msg"])
	assert.Equal(t, "/items", record["path"])
}

func TestNewHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "text")
	require.NoError(t, err)

	logger.Debug("ready to go")

	assert.Contains(t, buf.String(), "ready to go")
}

func TestNewHandler_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "error", "")
	require.NoError(t, err)

	logger.Warn("quiet")

	assert.Empty(t, buf.String())
}

func TestNewHandler_UnknownFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, "info", "xml")
	assert.ErrorIs(t, err, ErrUnknownLogFormat)
}
