// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the serve-mode configuration, bound from VLRSYNC_* environment
// variables.
type Config struct {
	Addr     string `default:"0.0.0.0"`
	Port     int    `default:"8080"`
	LogLevel string `split_words:"true" default:"info"`

	// EsportsAPIKey is injected on relay requests to the esports schedule
	// API; the upstream requires it but it is not a secret tied to us.
	EsportsAPIKey string `split_words:"true" default:"0TvQnueqKa5mxJntVWt0w4LpLfEkrV1Ta8rQBb9Z"`

	// PollInterval controls the live-state poller; zero disables it.
	PollInterval time.Duration `split_words:"true" default:"0"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("vlrsync", cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}
