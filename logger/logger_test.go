package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("not-a-level", false, &buf)

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Info().Msg("visible")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "visible", entry["message"])
}

func TestLogEventFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", false, &buf)

	log.Info().
		Str("component", "authenticator").
		Int("attempt", 1).
		Int64("elapsed_ns", 42).
		Bool("refreshed", true).
		Dur("elapsed", 5*time.Millisecond).
		Err(errors.New("boom")).
		Msg("event")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "authenticator", entry["component"])
	assert.Equal(t, float64(1), entry["attempt"])
	assert.Equal(t, float64(42), entry["elapsed_ns"])
	assert.Equal(t, true, entry["refreshed"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "event", entry["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", false, &buf).WithFields(map[string]any{"scope": "httpclient"})

	log.Warn().Msg("scoped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "httpclient", entry["scope"])
	assert.Equal(t, "warn", entry["level"])
}
