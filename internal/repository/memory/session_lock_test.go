package memory

import (
	"context"
	"testing"
	"time"

	"podbot-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLockExclusive(t *testing.T) {
	ctx := context.Background()
	lock := NewSessionLock()

	unlock, err := lock.Acquire(ctx, "podbot:alice:s1:lock", time.Minute)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "podbot:alice:s1:lock", time.Minute)
	assert.ErrorIs(t, err, contract.ErrLockNotAcquired)

	// Other sessions are independent.
	other, err := lock.Acquire(ctx, "podbot:alice:s2:lock", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	again, err := lock.Acquire(ctx, "podbot:alice:s1:lock", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestSessionLockExpiry(t *testing.T) {
	ctx := context.Background()
	lock := NewSessionLock()

	stale, err := lock.Acquire(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	fresh, err := lock.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	// The stale holder must not release the new holder's lock.
	require.NoError(t, stale(ctx))
	_, err = lock.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, contract.ErrLockNotAcquired)

	require.NoError(t, fresh(ctx))
}
