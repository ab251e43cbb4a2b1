package implementation

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"podbot-be/internal/entity"
	"podbot-be/internal/pkg/logger"
	"podbot-be/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamIDLess orders Redis stream ids ("<ms>-<seq>") numerically.
func streamIDLess(t *testing.T, a, b string) bool {
	t.Helper()
	parse := func(id string) (int64, int64) {
		parts := strings.SplitN(id, "-", 2)
		require.Len(t, parts, 2)
		ms, err := strconv.ParseInt(parts[0], 10, 64)
		require.NoError(t, err)
		seq, err := strconv.ParseInt(parts[1], 10, 64)
		require.NoError(t, err)
		return ms, seq
	}
	ams, aseq := parse(a)
	bms, bseq := parse(b)
	return ams < bms || (ams == bms && aseq < bseq)
}

func TestRedisChatLogAppendAndReadAll(t *testing.T) {
	mr, rdb := newTestRedis(t)
	index := NewRedisSessionIndexRepository(rdb, idgen.NewULIDGenerator())
	repo := NewRedisChatLogRepository(rdb, index, logger.NewNopLogger())

	ctx := context.Background()
	key := entity.NewSessionKey("podbot", "alice", "01HSESSION")

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := repo.Append(ctx, key, entity.RoleUser, "question "+strconv.Itoa(i))
		require.NoError(t, err)
		ids = append(ids, id)
		id, err = repo.Append(ctx, key, entity.RoleAssistant, "answer "+strconv.Itoa(i))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	assert.True(t, mr.Exists("podbot:alice:01HSESSION:chat"))

	messages, err := repo.ReadAll(ctx, key)
	require.NoError(t, err)
	require.Len(t, messages, 10)

	for i, msg := range messages {
		assert.Equal(t, ids[i], msg.SequenceId)
		if i > 0 {
			assert.True(t, streamIDLess(t, messages[i-1].SequenceId, msg.SequenceId))
		}
		if i%2 == 0 {
			assert.Equal(t, entity.RoleUser, msg.Role)
			assert.Equal(t, "question "+strconv.Itoa(i/2), msg.Content)
		} else {
			assert.Equal(t, entity.RoleAssistant, msg.Role)
			assert.Equal(t, "answer "+strconv.Itoa(i/2), msg.Content)
		}
	}

	// Appends keep the index entry alive even without an explicit create.
	sessions, err := index.List(ctx, key.UserKey)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "01HSESSION", sessions[0].Id)
}

func TestRedisChatLogReadAllUnknownSession(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewRedisChatLogRepository(rdb, NewRedisSessionIndexRepository(rdb, idgen.NewULIDGenerator()), logger.NewNopLogger())

	messages, err := repo.ReadAll(context.Background(), entity.NewSessionKey("podbot", "alice", "nope"))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

type failingIndex struct {
	RedisSessionIndexRepository
}

func (f *failingIndex) Touch(context.Context, entity.UserKey, string) error {
	return errors.New("index unavailable")
}

func TestRedisChatLogAppendSurvivesTouchFailure(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewRedisChatLogRepository(rdb, &failingIndex{}, logger.NewNopLogger())

	ctx := context.Background()
	key := entity.NewSessionKey("podbot", "alice", "s1")

	id, err := repo.Append(ctx, key, entity.RoleUser, "hi")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	messages, err := repo.ReadAll(ctx, key)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
