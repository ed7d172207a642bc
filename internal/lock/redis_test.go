package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLock(t *testing.T, ttl time.Duration) *RedisLock {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	key := "test:lock:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })
	return NewRedisLock(client, key, ttl, nil)
}

func TestRedisLock_Exclusive(t *testing.T) {
	first := setupLock(t, time.Minute)
	second := NewRedisLock(first.client, first.key, time.Minute, nil)
	ctx := context.Background()

	release, ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	release2, ok, err := second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, release2(ctx))
}

func TestRedisLock_ReleaseAfterExpiry(t *testing.T) {
	l := setupLock(t, 50*time.Millisecond)
	ctx := context.Background()

	release, ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(100 * time.Millisecond)

	// Someone else takes the expired lease; our release must not drop it.
	other := NewRedisLock(l.client, l.key, time.Minute, nil)
	_, ok, err = other.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, release(ctx), ErrNotHeld)
	_, ok, err = l.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
