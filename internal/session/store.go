package session

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const (
	// DefaultTTL is the inactivity window after which a session expires.
	DefaultTTL = 24 * time.Hour
	// DefaultMaxMessages bounds the per-session message log; older entries
	// are discarded permanently.
	DefaultMaxMessages int64 = 100
	// DefaultHistoryLimit is the history window handed to the composer.
	DefaultHistoryLimit = 20
)

// Store owns per-session identity, activity metadata and the capped message
// log. All operations are keyed by session id; concurrent operations on the
// same id are serialized while distinct ids proceed independently.
type Store interface {
	// GetOrCreate returns the existing non-expired session or atomically
	// creates one with default settings. Concurrent first access for the
	// same id observes a single created session.
	GetOrCreate(ctx context.Context, sessionID, userID string) (*Session, error)
	// Get returns the session without creating it; ErrNotFound when absent
	// or expired.
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Append inserts a message as the most recent log entry, trims the log
	// to the retention bound, increments the session's message count and
	// advances its activity timestamp.
	Append(ctx context.Context, sessionID string, role Role, content string, metadata map[string]any) (*ChatMessage, error)
	// History returns up to limit most-recent messages in ascending
	// chronological order.
	History(ctx context.Context, sessionID string, limit int) ([]ChatMessage, error)
	// Touch advances the activity timestamp without appending; no-op when
	// the session is absent.
	Touch(ctx context.Context, sessionID string) error
	// Delete removes the session and its full message log atomically and
	// reports whether a session existed.
	Delete(ctx context.Context, sessionID string) (bool, error)
	// Stats reports storage details for health checks.
	Stats(ctx context.Context) (Stats, error)
	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

// keyedMutex serializes work per session id with a fixed set of lock stripes,
// so unrelated sessions never contend on one global lock.
type keyedMutex struct {
	stripes [64]sync.Mutex
}

func (k *keyedMutex) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &k.stripes[h.Sum32()%uint32(len(k.stripes))]
	mu.Lock()
	return mu
}
