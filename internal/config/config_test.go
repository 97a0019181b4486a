package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("REDIS_ADDR", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected default redis addr, got %s", cfg.RedisAddr)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.MaxMessages != 100 {
		t.Fatalf("expected default max messages, got %d", cfg.MaxMessages)
	}
	if cfg.HistoryLimit != 20 {
		t.Fatalf("expected default history limit, got %d", cfg.HistoryLimit)
	}
	if cfg.DefaultLang != "ar" {
		t.Fatalf("expected default language ar, got %s", cfg.DefaultLang)
	}
	if cfg.MaxMessageLen != 2000 {
		t.Fatalf("expected default max message length, got %d", cfg.MaxMessageLen)
	}
	if cfg.CrisisConfidence != 0.95 {
		t.Fatalf("expected default crisis confidence, got %f", cfg.CrisisConfidence)
	}
	if cfg.DangerThreshold != 3 {
		t.Fatalf("expected default danger threshold, got %d", cfg.DangerThreshold)
	}
	if cfg.WarningThreshold != 1 {
		t.Fatalf("expected default warning threshold, got %d", cfg.WarningThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("SESSION_MAX_MESSAGES", "50")
	t.Setenv("SESSION_HISTORY_LIMIT", "10")
	t.Setenv("DEFAULT_LANGUAGE", "en")
	t.Setenv("SAFETY_DANGER_THRESHOLD", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Fatalf("expected redis addr override, got %s", cfg.RedisAddr)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.MaxMessages != 50 {
		t.Fatalf("expected max messages override, got %d", cfg.MaxMessages)
	}
	if cfg.HistoryLimit != 10 {
		t.Fatalf("expected history limit override, got %d", cfg.HistoryLimit)
	}
	if cfg.DefaultLang != "en" {
		t.Fatalf("expected language override, got %s", cfg.DefaultLang)
	}
	if cfg.DangerThreshold != 5 {
		t.Fatalf("expected danger threshold override, got %d", cfg.DangerThreshold)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Fatalf("expected cors origins override, got %v", cfg.CORSAllowedOrigins)
	}
}
