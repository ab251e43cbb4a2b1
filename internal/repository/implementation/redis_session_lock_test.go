package implementation

import (
	"context"
	"testing"
	"time"

	"podbot-be/internal/entity"
	"podbot-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionLock(t *testing.T) {
	mr, rdb := newTestRedis(t)
	lock := NewRedisSessionLock(rdb)

	ctx := context.Background()
	key := SessionLockKey(entity.NewSessionKey("podbot", "alice", "s1"))
	assert.Equal(t, "podbot:alice:s1:lock", key)

	unlock, err := lock.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, contract.ErrLockNotAcquired)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(key))

	// Releasing twice is harmless.
	require.NoError(t, unlock(ctx))
}

func TestRedisSessionLockExpiredHolderCannotRelease(t *testing.T) {
	mr, rdb := newTestRedis(t)
	lock := NewRedisSessionLock(rdb)
	ctx := context.Background()

	stale, err := lock.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := lock.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("k"))

	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists("k"))
}
