package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.name), "level %q", tt.name)
	}
}

func TestInitRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, slog.LevelInfo)

	slog.Info("hello", "url", "https://example.com")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.Equal(t, "https://example.com", entry["url"])
}

func TestInitRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, slog.LevelWarn)

	slog.Info("dropped")
	assert.Zero(t, buf.Len())

	slog.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
