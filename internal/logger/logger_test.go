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
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", "json")

	log.Debug("hidden")
	log.Info("video uploaded", slog.String("category", "happy"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "video uploaded", line["msg"])
	assert.Equal(t, "happy", line["category"])
}
