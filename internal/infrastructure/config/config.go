package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// Local store
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Remote store (optional - leave empty to run guest-only)
	RedisURL        string        `env:"REDIS_URL"         envDefault:""`
	RemoteOpTimeout time.Duration `env:"REMOTE_OP_TIMEOUT" envDefault:"5s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Authentication
	JWTSecret     string        `env:"AUTH_JWT_SECRET" envDefault:""`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION"  envDefault:"720h"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// RemoteConfigured reports whether a remote document store is available.
func (c *Config) RemoteConfigured() bool {
	return c.RedisURL != ""
}
