// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// DefaultCommunity is the community served on the bare /api/v1/package/
	// route when the request is not scoped by a /c/{community}/ prefix.
	DefaultCommunity string `env:"DEFAULT_COMMUNITY" envDefault:"riskofrain2"`

	// RegenInterval controls how often the worker rebuilds the package
	// index caches for all communities.
	RegenInterval time.Duration `env:"INDEX_REGEN_INTERVAL" envDefault:"5m"`

	// CacheDir enables the file-backed index cache store when set.
	// Empty means the cache lives in Postgres.
	CacheDir string `env:"INDEX_CACHE_DIR"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is usable for serving requests
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DefaultCommunity == "" {
		return fmt.Errorf("DEFAULT_COMMUNITY must not be empty")
	}
	if c.RegenInterval < time.Second {
		return fmt.Errorf("INDEX_REGEN_INTERVAL too short: %s", c.RegenInterval)
	}
	return nil
}
