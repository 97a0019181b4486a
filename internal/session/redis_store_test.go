package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, opts ...RedisStoreOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, opts...), mr
}

func TestRedisStore_GetOrCreate(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, 0, sess.MessageCount)
	assert.Equal(t, "ar", sess.Settings["language"])
	assert.Equal(t, "supportive", sess.Settings["therapy_style"])
	assert.False(t, sess.LastActiveAt.Before(sess.CreatedAt))

	// Second call returns the same session, not a new one.
	again, err := store.GetOrCreate(ctx, "sess-1", "")
	require.NoError(t, err)
	assert.Equal(t, sess.CreatedAt, again.CreatedAt)
	assert.Equal(t, "user-1", again.UserID)
}

func TestRedisStore_AppendTrimsLog(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "sess-1", "")
	require.NoError(t, err)

	for i := 0; i < 150; i++ {
		_, err := store.Append(ctx, "sess-1", RoleUser, fmt.Sprintf("message %d", i), nil)
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "sess-1", 100)
	require.NoError(t, err)
	require.Len(t, history, 100)

	// The earliest 50 messages are permanently gone; the window starts at 50.
	assert.Equal(t, "message 50", history[0].Content)
	assert.Equal(t, "message 149", history[99].Content)

	sess, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 150, sess.MessageCount)
}

func TestRedisStore_HistoryAscendingOrder(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := store.Append(ctx, "sess-1", RoleUser, fmt.Sprintf("message %d", i), nil)
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "sess-1", 20)
	require.NoError(t, err)
	require.Len(t, history, 20)

	assert.Equal(t, "message 10", history[0].Content)
	assert.Equal(t, "message 29", history[19].Content)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp),
			"timestamps must be non-decreasing")
	}
}

func TestRedisStore_HistoryDefaultsAndEmpty(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	history, err := store.History(ctx, "unseen", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRedisStore_AppendMetadata(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, "sess-1", RoleAssistant, "hello", map[string]any{"therapy_response": true})
	require.NoError(t, err)

	history, err := store.History(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, RoleAssistant, history[0].Role)
	assert.Equal(t, true, history[0].Metadata["therapy_response"])
	assert.NotEmpty(t, history[0].ID)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	created, err := store.GetOrCreate(ctx, "sess-1", "user-1")
	require.NoError(t, err)
	_, err = store.Append(ctx, "sess-1", RoleUser, "hello", nil)
	require.NoError(t, err)

	// Past the 24h inactivity window both collections are gone and the id
	// behaves as never seen.
	mr.FastForward(24*time.Hour + time.Minute)

	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := store.History(ctx, "sess-1", 20)
	require.NoError(t, err)
	assert.Empty(t, history)

	fresh, err := store.GetOrCreate(ctx, "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.MessageCount)
	assert.True(t, fresh.CreatedAt.After(created.CreatedAt) || fresh.CreatedAt.Equal(created.CreatedAt))
}

func TestRedisStore_TouchRefreshesActivity(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "sess-1", "")
	require.NoError(t, err)

	mr.FastForward(12 * time.Hour)
	require.NoError(t, store.Touch(ctx, "sess-1"))

	touched, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, touched.LastActiveAt.Before(sess.LastActiveAt))

	// Touching an unknown session is a no-op, not an error.
	require.NoError(t, store.Touch(ctx, "unseen"))
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "sess-1", "")
	require.NoError(t, err)
	_, err = store.Append(ctx, "sess-1", RoleUser, "hello", nil)
	require.NoError(t, err)

	existed, err := store.Delete(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
	history, err := store.History(ctx, "sess-1", 20)
	require.NoError(t, err)
	assert.Empty(t, history)

	existed, err = store.Delete(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRedisStore_CustomRetention(t *testing.T) {
	store, _ := newTestRedisStore(t, WithRetention(time.Hour, 5))
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := store.Append(ctx, "sess-1", RoleUser, fmt.Sprintf("message %d", i), nil)
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "sess-1", 10)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "message 3", history[0].Content)
}

func TestRedisStore_Stats(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.GetOrCreate(ctx, "sess-1", "")
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "redis", stats.StorageType)
	assert.Equal(t, int64(1), stats.TotalKeys)
}
