package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	sessionKeyPrefix  = "session:"
	messagesKeyPrefix = "messages:"
)

// RedisStore keeps sessions and message logs in Redis. The session document
// lives under session:<id> with a sliding TTL; the log under messages:<id> is
// an LPUSH list trimmed to the retention bound, so both collections expire
// together after the inactivity window.
type RedisStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	ttl         time.Duration
	maxMessages int64
	language    string
	locks       keyedMutex
	now         func() time.Time
}

// RedisStoreOption customizes a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRetention overrides the session TTL and message log bound.
func WithRetention(ttl time.Duration, maxMessages int64) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
		if maxMessages > 0 {
			s.maxMessages = maxMessages
		}
	}
}

// WithLanguage sets the default language applied to new session settings.
func WithLanguage(language string) RedisStoreOption {
	return func(s *RedisStore) {
		if language != "" {
			s.language = language
		}
	}
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(redisClient *redis.Client, opts ...RedisStoreOption) *RedisStore {
	if redisClient == nil {
		panic("session: redis client cannot be nil")
	}
	s := &RedisStore{
		redis:       redisClient,
		tracer:      otel.Tracer("therabot.internal.session.redis"),
		ttl:         DefaultTTL,
		maxMessages: DefaultMaxMessages,
		language:    "ar",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) GetOrCreate(ctx context.Context, sessionID, userID string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get_or_create")
	defer span.End()

	existing, err := s.Get(ctx, sessionID)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		span.RecordError(err)
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:           sessionID,
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
		Settings:     DefaultSettings(s.language),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("session: marshal session: %w", err)
	}

	// SETNX keeps concurrent first access from creating two sessions: the
	// loser reads back whatever the winner stored.
	created, err := s.redis.SetNX(ctx, sessionKey(sessionID), data, s.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: create session: %w", err)
	}
	if !created {
		return s.Get(ctx, sessionID)
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, role Role, content string, metadata map[string]any) (*ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "session.append")
	defer span.End()

	mu := s.locks.lock(sessionID)
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil && err != ErrNotFound {
		span.RecordError(err)
		return nil, err
	}

	ts := s.now().UTC()
	if sess != nil && ts.Before(sess.LastActiveAt) {
		// Timestamps stay non-decreasing within a session even if the wall
		// clock steps backwards.
		ts = sess.LastActiveAt
	}

	msg := &ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: ts,
		Metadata:  metadata,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("session: marshal message: %w", err)
	}

	key := messagesKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, s.maxMessages-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: append message: %w", err)
	}

	if sess != nil {
		sess.MessageCount++
		sess.LastActiveAt = ts
		if err := s.saveSession(ctx, sess); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	return msg, nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string, limit int) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "session.history")
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	raw, err := s.redis.LRange(ctx, messagesKey(sessionID), 0, int64(limit)-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []ChatMessage{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: load history: %w", err)
	}

	// The list stores newest first; reverse into ascending chronological
	// order for the caller.
	out := make([]ChatMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(raw[i]), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (s *RedisStore) Touch(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "session.touch")
	defer span.End()

	mu := s.locks.lock(sessionID)
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err == ErrNotFound {
		return nil
	}
	if err != nil {
		span.RecordError(err)
		return err
	}
	sess.LastActiveAt = s.now().UTC()
	return s.saveSession(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "session.delete")
	defer span.End()

	pipe := s.redis.TxPipeline()
	sessDel := pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, messagesKey(sessionID))
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("session: delete session: %w", err)
	}
	return sessDel.Val() > 0, nil
}

func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	keys, err := s.redis.DBSize(ctx).Result()
	if err != nil {
		return Stats{StorageType: "redis"}, fmt.Errorf("session: stats: %w", err)
	}
	return Stats{StorageType: "redis", TotalKeys: keys}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// saveSession persists the session document and resets its inactivity TTL.
func (s *RedisStore) saveSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: persist session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func messagesKey(id string) string {
	return messagesKeyPrefix + id
}
