package memory

import (
	"context"
	"sync"
	"time"

	"podbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionLock is a process-local lock table. Only suitable when a single
// instance serves a given session.
type SessionLock struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionLock() *SessionLock {
	// Expired locks are purged every minute; Add already ignores expired items.
	return &SessionLock{
		cache: cache.New(cache.NoExpiration, time.Minute),
	}
}

var _ contract.SessionLocker = (*SessionLock)(nil)

func (l *SessionLock) Acquire(_ context.Context, key string, ttl time.Duration) (contract.Unlock, error) {
	token := uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.cache.Add(key, token, ttl); err != nil {
		return nil, contract.ErrLockNotAcquired
	}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if held, found := l.cache.Get(key); found && held.(string) == token {
			l.cache.Delete(key)
		}
		return nil
	}, nil
}
