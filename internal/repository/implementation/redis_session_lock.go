package implementation

import (
	"context"
	"fmt"
	"time"

	"podbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Deletes the key only while it still holds our token, so an expired lock
// re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisSessionLock is a SET NX PX lock shared by every instance using the same Redis.
type RedisSessionLock struct {
	rdb *redis.Client
}

func NewRedisSessionLock(rdb *redis.Client) *RedisSessionLock {
	return &RedisSessionLock{rdb: rdb}
}

var _ contract.SessionLocker = (*RedisSessionLock)(nil)

func (l *RedisSessionLock) Acquire(ctx context.Context, key string, ttl time.Duration) (contract.Unlock, error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, contract.ErrLockNotAcquired
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
