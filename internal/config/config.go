package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/stridehq/stride/internal/constants"
)

// Config holds sync-related settings sourced from the environment. The
// bearer token normally lives in the OS keyring; STRIDE_SYNC_TOKEN exists
// for headless machines without one.
type Config struct {
	SyncURL        string `env:"STRIDE_SYNC_URL" envDefault:""`
	SyncToken      string `env:"STRIDE_SYNC_TOKEN" envDefault:""`
	SyncTimeoutSec int    `env:"STRIDE_SYNC_TIMEOUT" envDefault:"30"`
	Debug          bool   `env:"STRIDE_DEBUG" envDefault:"false"`
}

// SyncTimeout returns the configured sync timeout as a duration.
func (c Config) SyncTimeout() time.Duration {
	if c.SyncTimeoutSec <= 0 {
		return constants.DefaultSyncTimeoutSec * time.Second
	}
	return time.Duration(c.SyncTimeoutSec) * time.Second
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (Config, error) {
	// Missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
