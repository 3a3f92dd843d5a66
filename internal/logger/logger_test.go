package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range tests {
		require.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "warn", Format: "json", Output: &buf})

	log.Info("dropped")
	WithRequest(WithService(log, "msgsvc"), "GET", "/api/v1/messages", "req-1").Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "msgsvc", entry["service"])
	require.Equal(t, map[string]any{
		"method": "GET",
		"path":   "/api/v1/messages",
		"id":     "req-1",
	}, entry["request"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "debug", Format: "text", Output: &buf})
	WithExecutable(log, "msgsvc").Debug("hello")

	require.Contains(t, buf.String(), "msg=hello")
	require.Contains(t, buf.String(), "executable=msgsvc")
}
