package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, false, "info", "auto")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("cycle found", "column", "eui")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warn")
	assert.Contains(t, out, "column=eui")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, true, "debug", "json")
	require.NoError(t, err)

	logger.Debug("validated", "errors", 0)
	assert.Contains(t, buf.String(), `"msg":"validated"`)
}

func TestNewLogger_Terminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, true, "info", "auto")
	require.NoError(t, err)

	logger.Info("saved derived column")
	assert.Contains(t, buf.String(), "saved derived column")
}

func TestNewLogger_UnknownFormat(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, false, "info", "xml")
	assert.Error(t, err)
}
