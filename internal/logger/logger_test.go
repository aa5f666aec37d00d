package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/personapi/internal/config"
	"github.com/bjaus/personapi/internal/logger"
)

func newConfig(env, level, format string) *config.Config {
	cfg := config.Default()
	cfg.Env = env
	cfg.Log = config.LogConfig{Level: level, Format: format}
	return &cfg
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(newConfig(config.Development, "warn", "json"), &buf)

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "personapi", entry["service"])
	assert.Contains(t, entry, "time")
}

func TestNew_Format(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		env      string
		format   string
		wantJSON bool
	}{
		"development default": {env: config.Development},
		"production default":  {env: config.Production, wantJSON: true},
		"console override":    {env: config.Production, format: "console"},
		"json override":       {env: config.Development, format: "json", wantJSON: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(newConfig(tc.env, "debug", tc.format), &buf)

			log.Debug().Msg("hello")
			assert.Contains(t, buf.String(), "hello")
			assert.Equal(t, tc.wantJSON, json.Valid(buf.Bytes()))
		})
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(newConfig(config.Development, "nope", "json"), &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
