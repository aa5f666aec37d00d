// Package logger builds the service's zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bjaus/personapi/internal/config"
)

// New returns a logger writing to w, or to stderr when w is nil. The console
// format is for humans; json is one object per line. An unset format means
// json in production and console everywhere else.
func New(cfg *config.Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	format := cfg.Log.Format
	if format == "" {
		format = "console"
		if cfg.IsProduction() {
			format = "json"
		}
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "personapi").Logger()
}
