package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the process-local, non-durable session store. It carries the
// same retention, ordering and expiry contract as the Redis store and is used
// both as the degradation target and for single-process deployments.
type MemoryStore struct {
	mu          sync.RWMutex
	records     map[string]*memoryRecord
	ttl         time.Duration
	maxMessages int64
	language    string
	now         func() time.Time
}

type memoryRecord struct {
	mu      sync.Mutex
	session Session
	// messages are kept newest first, mirroring the Redis list layout.
	messages []ChatMessage
}

// MemoryStoreOption customizes a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryRetention overrides the session TTL and message log bound.
func WithMemoryRetention(ttl time.Duration, maxMessages int64) MemoryStoreOption {
	return func(s *MemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
		if maxMessages > 0 {
			s.maxMessages = maxMessages
		}
	}
}

// WithMemoryLanguage sets the default language for new session settings.
func WithMemoryLanguage(language string) MemoryStoreOption {
	return func(s *MemoryStore) {
		if language != "" {
			s.language = language
		}
	}
}

// WithClock injects the time source, used by expiry tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		records:     make(map[string]*memoryRecord),
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

// record returns the live record for a session id, discarding it first when
// the inactivity window has elapsed. Expired sessions behave as never created.
func (s *MemoryStore) record(sessionID string) *memoryRecord {
	s.mu.RLock()
	rec, ok := s.records[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	rec.mu.Lock()
	expired := s.now().Sub(rec.session.LastActiveAt) > s.ttl
	rec.mu.Unlock()
	if !expired {
		return rec
	}
	s.mu.Lock()
	if s.records[sessionID] == rec {
		delete(s.records, sessionID)
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetOrCreate(_ context.Context, sessionID, userID string) (*Session, error) {
	if rec := s.record(sessionID); rec != nil {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		sess := rec.session
		return &sess, nil
	}

	now := s.now().UTC()
	fresh := &memoryRecord{
		session: Session{
			ID:           sessionID,
			UserID:       userID,
			CreatedAt:    now,
			LastActiveAt: now,
			Settings:     DefaultSettings(s.language),
		},
	}

	s.mu.Lock()
	if existing, ok := s.records[sessionID]; ok {
		// Lost a concurrent creation race; the winner's session stands.
		s.mu.Unlock()
		existing.mu.Lock()
		defer existing.mu.Unlock()
		sess := existing.session
		return &sess, nil
	}
	s.records[sessionID] = fresh
	s.mu.Unlock()

	sess := fresh.session
	return &sess, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	rec := s.record(sessionID)
	if rec == nil {
		return nil, ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	sess := rec.session
	return &sess, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, role Role, content string, metadata map[string]any) (*ChatMessage, error) {
	rec := s.record(sessionID)
	if rec == nil {
		// Mirrors the Redis store: the log accepts appends even before the
		// session document exists; the caller creates sessions explicitly.
		s.mu.Lock()
		if existing, ok := s.records[sessionID]; ok {
			rec = existing
		} else {
			rec = &memoryRecord{session: Session{
				ID:           sessionID,
				CreatedAt:    s.now().UTC(),
				LastActiveAt: s.now().UTC(),
				Settings:     DefaultSettings(s.language),
			}}
			s.records[sessionID] = rec
		}
		s.mu.Unlock()
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	ts := s.now().UTC()
	if ts.Before(rec.session.LastActiveAt) {
		ts = rec.session.LastActiveAt
	}

	msg := ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: ts,
		Metadata:  metadata,
	}

	rec.messages = append([]ChatMessage{msg}, rec.messages...)
	if int64(len(rec.messages)) > s.maxMessages {
		rec.messages = rec.messages[:s.maxMessages]
	}
	rec.session.MessageCount++
	rec.session.LastActiveAt = ts

	out := msg
	return &out, nil
}

func (s *MemoryStore) History(_ context.Context, sessionID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rec := s.record(sessionID)
	if rec == nil {
		return []ChatMessage{}, nil
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	n := len(rec.messages)
	if n > limit {
		n = limit
	}
	out := make([]ChatMessage, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, rec.messages[i])
	}
	return out, nil
}

func (s *MemoryStore) Touch(_ context.Context, sessionID string) error {
	rec := s.record(sessionID)
	if rec == nil {
		return nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.session.LastActiveAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) (bool, error) {
	// Expired sessions count as absent.
	if rec := s.record(sessionID); rec == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[sessionID]; !ok {
		return false, nil
	}
	delete(s.records, sessionID)
	return true, nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := Stats{StorageType: "in_memory", SessionCount: int64(len(s.records))}
	for _, rec := range s.records {
		rec.mu.Lock()
		stats.TotalMessages += int64(len(rec.messages))
		rec.mu.Unlock()
	}
	return stats, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
