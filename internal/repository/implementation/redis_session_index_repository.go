package implementation

import (
	"context"
	"fmt"
	"time"

	"podbot-be/internal/entity"
	"podbot-be/internal/repository/contract"
	"podbot-be/pkg/idgen"

	"github.com/redis/go-redis/v9"
)

// RedisSessionIndexRepository stores one sorted set per user: member = session id,
// score = last-active epoch microseconds (exact in a float64 score).
type RedisSessionIndexRepository struct {
	rdb   *redis.Client
	ids   *idgen.ULIDGenerator
	clock func() time.Time
}

func NewRedisSessionIndexRepository(rdb *redis.Client, ids *idgen.ULIDGenerator) *RedisSessionIndexRepository {
	return &RedisSessionIndexRepository{
		rdb:   rdb,
		ids:   ids,
		clock: time.Now,
	}
}

var _ contract.SessionIndexRepository = (*RedisSessionIndexRepository)(nil)

func (r *RedisSessionIndexRepository) List(ctx context.Context, key entity.UserKey) ([]*entity.Session, error) {
	members, err := r.rdb.ZRevRangeWithScores(ctx, sessionsKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*entity.Session, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		sessions = append(sessions, &entity.Session{
			Id:         id,
			LastActive: time.UnixMicro(int64(m.Score)),
		})
	}
	return sessions, nil
}

func (r *RedisSessionIndexRepository) Create(ctx context.Context, key entity.UserKey) (*entity.Session, error) {
	now := lastActiveAt(r.clock())
	id, err := r.ids.New(now)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	score := float64(now.UnixMicro())
	if err := r.rdb.ZAdd(ctx, sessionsKey(key), redis.Z{Score: score, Member: id}).Err(); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &entity.Session{Id: id, LastActive: now}, nil
}

// Touch upserts the entry so a session written to without a prior create still
// shows up in the listing.
func (r *RedisSessionIndexRepository) Touch(ctx context.Context, key entity.UserKey, sessionId string) error {
	score := float64(lastActiveAt(r.clock()).UnixMicro())
	if err := r.rdb.ZAdd(ctx, sessionsKey(key), redis.Z{Score: score, Member: sessionId}).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}
