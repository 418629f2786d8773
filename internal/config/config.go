// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration.
type Config struct {
	Addr   string `env:"SPLITORDER_ADDR" envDefault:":8080"`
	DBPath string `env:"SPLITORDER_DB_PATH" envDefault:"./data/splitorder.db"`

	// RedisAddr selects Redis-backed checkout sessions. Empty keeps sessions in memory.
	RedisAddr  string        `env:"SPLITORDER_REDIS_ADDR"`
	SessionTTL time.Duration `env:"SPLITORDER_SESSION_TTL" envDefault:"24h"`

	// RabbitURL enables split-order events. Empty disables publishing.
	RabbitURL      string `env:"SPLITORDER_RABBIT_URL"`
	RabbitExchange string `env:"SPLITORDER_RABBIT_EXCHANGE" envDefault:"checkout_events"`

	// JWTSecret enables customer tokens on the RPC surface.
	JWTSecret string `env:"SPLITORDER_JWT_SECRET"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
