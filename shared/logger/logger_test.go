package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(Config{Level: "warn"}, "portal-service", &buf)

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Str("email", "a@x.com").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "portal-service", entry["service"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "a@x.com", entry["email"])
}

func TestNewWithWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(Config{Level: "loud"}, "portal-service", &buf)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
