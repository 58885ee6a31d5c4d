package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterProductionJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "production", "")
	logger.Debug().Msg("hidden")
	logger.Info().Str("workflow", "ideas").Msg("run started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run started", entry["message"])
	assert.Equal(t, "ideas", entry["workflow"])
	assert.Equal(t, "decorstudio", entry["service"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWithWriterLevels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewWithWriter(&bytes.Buffer{}, "development", "").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewWithWriter(&bytes.Buffer{}, "production", "WARN").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(&bytes.Buffer{}, "production", "bogus").GetLevel())
}
