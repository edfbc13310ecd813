package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestAcquireIsExclusivePerEvent(t *testing.T) {
	client, _ := setupTestRedis(t)
	lock := NewLock(client, 5*time.Second)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "event-1", "purchase-a")
	require.NoError(t, err)
	assert.True(t, ok)

	// Same event is held.
	ok, err = lock.Acquire(ctx, "event-1", "purchase-b")
	require.NoError(t, err)
	assert.False(t, ok)

	// Different event is independent.
	ok, err = lock.Acquire(ctx, "event-2", "purchase-b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseOnlyByOwner(t *testing.T) {
	client, _ := setupTestRedis(t)
	lock := NewLock(client, 5*time.Second)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "event-1", "purchase-a")
	require.NoError(t, err)
	require.True(t, ok)

	// A non-owner release is a no-op.
	require.NoError(t, lock.Release(ctx, "event-1", "purchase-b"))
	ok, err = lock.Acquire(ctx, "event-1", "purchase-c")
	require.NoError(t, err)
	assert.False(t, ok, "lock should still be held by purchase-a")

	// Owner release frees it.
	require.NoError(t, lock.Release(ctx, "event-1", "purchase-a"))
	ok, err = lock.Acquire(ctx, "event-1", "purchase-c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseExpiredLockIsNoop(t *testing.T) {
	client, _ := setupTestRedis(t)
	lock := NewLock(client, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, lock.Release(ctx, "event-1", "purchase-a"))
}

func TestLockExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	lock := NewLock(client, 2*time.Second)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "event-1", "crashed-purchase")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(3 * time.Second)

	ok, err = lock.Acquire(ctx, "event-1", "next-purchase")
	require.NoError(t, err)
	assert.True(t, ok, "expired lock should be acquirable")
}

func TestNewLockDefaultsTTL(t *testing.T) {
	client, _ := setupTestRedis(t)
	lock := NewLock(client, 0)
	assert.Equal(t, 10*time.Second, lock.TTL)
}
