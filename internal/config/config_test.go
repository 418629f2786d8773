package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.RabbitExchange != "checkout_events" {
		t.Errorf("RabbitExchange = %q, want checkout_events", cfg.RabbitExchange)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SPLITORDER_ADDR", ":9090")
	t.Setenv("SPLITORDER_REDIS_ADDR", "redis:6379")
	t.Setenv("SPLITORDER_SESSION_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.RedisAddr != "redis:6379" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SPLITORDER_SESSION_TTL", "soon")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid duration")
	}
}
