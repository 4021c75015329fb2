package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/reelist/internal/reelist"
)

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := New(16, time.Minute, "reelist")

	key := reelist.OffsetPageKey("reelist", "usr-1", 1, 10)
	require.NoError(t, c.Set(ctx, key, []byte(`{"items":[]}`)))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), got)
}

func TestCache_Miss(t *testing.T) {
	ctx := context.Background()
	c := New(16, time.Minute, "reelist")

	_, err := c.Get(ctx, "reelist:usr-1:offset:page:1:limit:10")
	assert.ErrorIs(t, err, reelist.ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(16, 10*time.Millisecond, "reelist")

	key := reelist.OffsetPageKey("reelist", "usr-1", 1, 10)
	require.NoError(t, c.Set(ctx, key, []byte("page")))

	time.Sleep(50 * time.Millisecond)

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, reelist.ErrCacheMiss)
}

func TestCache_InvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := New(16, time.Minute, "reelist")

	keys := []string{
		reelist.OffsetPageKey("reelist", "usr-1", 1, 10),
		reelist.OffsetPageKey("reelist", "usr-1", 2, 10),
		reelist.CursorPageKey("reelist", "usr-1", "tok", 10),
	}
	for _, k := range keys {
		require.NoError(t, c.Set(ctx, k, []byte("page")))
	}
	otherKey := reelist.OffsetPageKey("reelist", "usr-2", 1, 10)
	require.NoError(t, c.Set(ctx, otherKey, []byte("other")))

	require.NoError(t, c.InvalidateUser(ctx, "usr-1"))

	for _, k := range keys {
		_, err := c.Get(ctx, k)
		assert.ErrorIs(t, err, reelist.ErrCacheMiss, "key %q should be gone", k)
	}

	// The other user's page survives the sweep.
	got, err := c.Get(ctx, otherKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), got)

	// Sweeping a user with no cached pages is a no-op.
	require.NoError(t, c.InvalidateUser(ctx, "usr-3"))
}

func TestCache_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(16, time.Minute, "reelist")
	_, err := c.Get(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, reelist.ErrCacheMiss)
}
