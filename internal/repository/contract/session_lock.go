package contract

import (
	"context"
	"errors"
	"time"
)

var ErrLockNotAcquired = errors.New("lock already held")

// Unlock releases a lock. Releasing a lock that already expired is not an error.
type Unlock func(ctx context.Context) error

// SessionLocker hands out short-lived advisory locks keyed by session.
type SessionLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}
