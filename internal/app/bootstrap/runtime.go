package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/therabot-ai/therabot-platform/internal/config"
	"github.com/therabot-ai/therabot-platform/internal/session"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSessionStore wires session storage. With Redis available the store is
// Redis-backed with an in-memory failover; otherwise it is purely in-memory.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if logger == nil {
		logger = logging.Default()
	}

	memory := session.NewMemoryStore(
		session.WithMemoryRetention(cfg.SessionTTL, cfg.MaxMessages),
		session.WithMemoryLanguage(cfg.DefaultLang),
	)

	client := BuildRedisClient(ctx, cfg, logger, true)
	if client == nil {
		logger.Info("session storage: in-memory")
		return memory
	}

	primary := session.NewRedisStore(client,
		session.WithRetention(cfg.SessionTTL, cfg.MaxMessages),
		session.WithLanguage(cfg.DefaultLang),
	)
	logger.Info("session storage: redis with in-memory failover", "addr", cfg.RedisAddr)
	return session.NewFailoverStore(primary, memory, logger)
}
