// Package config loads the service configuration from the environment.
//
// Variables are prefixed PERSONAPI_ and a double underscore separates
// nesting levels, so PERSONAPI_SERVER__ADDR sets server.addr. A .env file in
// the working directory is loaded first when present. Anything unset keeps
// its default.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Loads .env into the process environment before Load reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Prefix is the environment variable prefix.
const Prefix = "PERSONAPI_"

// Environments.
const (
	Development = "development"
	Production  = "production"
)

// Config is the root configuration object.
type Config struct {
	Env       string          `koanf:"env" validate:"required,oneof=development production"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
	Docs      DocsConfig      `koanf:"docs"`
}

// ServerConfig groups settings for the HTTP server.
type ServerConfig struct {
	Addr               string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout  time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout     time.Duration `koanf:"request_timeout" validate:"gte=0"` // 0 disables
	BodyLimit          int64         `koanf:"body_limit" validate:"gte=0"`      // bytes, 0 disables
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
}

// RateLimitConfig is the per-client token bucket. An RPS of 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

// LogConfig selects the log level and output format. An empty format
// follows the environment.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=console json"`
}

// DocsConfig controls the documentation routes.
type DocsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the configuration used for anything the environment
// leaves unset.
func Default() Config {
	return Config{
		Env: Development,
		Server: ServerConfig{
			Addr:               ":8080",
			ReadHeaderTimeout:  10 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			RequestTimeout:     30 * time.Second,
			BodyLimit:          16 << 20,
			CORSAllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{RPS: 20, Burst: 40},
		Log:       LogConfig{Level: "info"},
		Docs:      DocsConfig{Enabled: true},
	}
}

// Load reads the configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(Prefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// envKey maps PERSONAPI_RATE_LIMIT__BURST to rate_limit.burst.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, Prefix))
	return strings.ReplaceAll(s, "__", ".")
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == Production
}
