package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

// FailoverStore serves from a durable primary until the backend fails, then
// degrades permanently to the process-local fallback. The contract seen by
// callers never changes and the degradation is logged once per store lifetime.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *logging.Logger
	degraded  atomic.Bool
	logOnce   sync.Once
	onDegrade func()
}

// NewFailoverStore wraps primary with a local fallback.
func NewFailoverStore(primary, fallback Store, logger *logging.Logger) *FailoverStore {
	if logger == nil {
		logger = logging.Default()
	}
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	return &FailoverStore{primary: primary, fallback: fallback, logger: logger}
}

// SetOnDegrade registers a hook invoked once when degradation happens.
func (s *FailoverStore) SetOnDegrade(fn func()) {
	s.onDegrade = fn
}

// Degraded reports whether the store has fallen back to local storage.
func (s *FailoverStore) Degraded() bool {
	return s.degraded.Load()
}

func (s *FailoverStore) degrade(err error) {
	s.degraded.Store(true)
	s.logOnce.Do(func() {
		s.logger.Error("session backend unavailable, degrading to in-memory store", "error", err)
		if s.onDegrade != nil {
			s.onDegrade()
		}
	})
}

func (s *FailoverStore) active() Store {
	if s.degraded.Load() {
		return s.fallback
	}
	return s.primary
}

func (s *FailoverStore) GetOrCreate(ctx context.Context, sessionID, userID string) (*Session, error) {
	if !s.degraded.Load() {
		sess, err := s.primary.GetOrCreate(ctx, sessionID, userID)
		if err == nil {
			return sess, nil
		}
		s.degrade(err)
	}
	return s.fallback.GetOrCreate(ctx, sessionID, userID)
}

func (s *FailoverStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	if !s.degraded.Load() {
		sess, err := s.primary.Get(ctx, sessionID)
		if err == nil || err == ErrNotFound {
			return sess, err
		}
		s.degrade(err)
	}
	return s.fallback.Get(ctx, sessionID)
}

func (s *FailoverStore) Append(ctx context.Context, sessionID string, role Role, content string, metadata map[string]any) (*ChatMessage, error) {
	if !s.degraded.Load() {
		msg, err := s.primary.Append(ctx, sessionID, role, content, metadata)
		if err == nil {
			return msg, nil
		}
		s.degrade(err)
	}
	return s.fallback.Append(ctx, sessionID, role, content, metadata)
}

func (s *FailoverStore) History(ctx context.Context, sessionID string, limit int) ([]ChatMessage, error) {
	if !s.degraded.Load() {
		history, err := s.primary.History(ctx, sessionID, limit)
		if err == nil {
			return history, nil
		}
		s.degrade(err)
	}
	return s.fallback.History(ctx, sessionID, limit)
}

func (s *FailoverStore) Touch(ctx context.Context, sessionID string) error {
	if !s.degraded.Load() {
		err := s.primary.Touch(ctx, sessionID)
		if err == nil {
			return nil
		}
		s.degrade(err)
	}
	return s.fallback.Touch(ctx, sessionID)
}

func (s *FailoverStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	if !s.degraded.Load() {
		existed, err := s.primary.Delete(ctx, sessionID)
		if err == nil {
			return existed, nil
		}
		s.degrade(err)
	}
	return s.fallback.Delete(ctx, sessionID)
}

func (s *FailoverStore) Stats(ctx context.Context) (Stats, error) {
	return s.active().Stats(ctx)
}

func (s *FailoverStore) Ping(ctx context.Context) error {
	return s.active().Ping(ctx)
}
