package implementation

import (
	"context"
	"testing"
	"time"

	"podbot-be/internal/entity"
	"podbot-be/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionIndexListEmpty(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewRedisSessionIndexRepository(rdb, idgen.NewULIDGenerator())

	sessions, err := repo.List(context.Background(), entity.UserKey{Namespace: "podbot", UserId: "alice"})
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestRedisSessionIndexCreateAndList(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewRedisSessionIndexRepository(rdb, idgen.NewULIDGenerator())

	base := time.UnixMilli(1_700_000_000_000)
	now := base
	repo.clock = func() time.Time { return now }

	ctx := context.Background()
	alice := entity.UserKey{Namespace: "podbot", UserId: "alice"}

	first, err := repo.Create(ctx, alice)
	require.NoError(t, err)
	assert.True(t, base.Equal(first.LastActive))

	now = base.Add(time.Minute)
	second, err := repo.Create(ctx, alice)
	require.NoError(t, err)
	assert.Greater(t, second.Id, first.Id)

	assert.True(t, mr.Exists("podbot:alice:sessions"))

	sessions, err := repo.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.Id, sessions[0].Id)
	assert.Equal(t, first.Id, sessions[1].Id)

	// Touching the older session moves it to the front.
	now = base.Add(2 * time.Minute)
	require.NoError(t, repo.Touch(ctx, alice, first.Id))
	require.NoError(t, repo.Touch(ctx, alice, first.Id))

	sessions, err = repo.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.Id, sessions[0].Id)
	assert.True(t, now.Equal(sessions[0].LastActive))

	// Other users do not see alice's sessions.
	bob, err := repo.List(ctx, entity.UserKey{Namespace: "podbot", UserId: "bob"})
	require.NoError(t, err)
	assert.Empty(t, bob)
}

func TestRedisSessionIndexLastActiveNotBeforeWrite(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewRedisSessionIndexRepository(rdb, idgen.NewULIDGenerator())

	at := time.Unix(1_700_000_000, 123_456_789)
	repo.clock = func() time.Time { return at }
	rounded := time.Unix(1_700_000_000, 123_457_000)

	ctx := context.Background()
	alice := entity.UserKey{Namespace: "podbot", UserId: "alice"}

	session, err := repo.Create(ctx, alice)
	require.NoError(t, err)
	assert.False(t, session.LastActive.Before(at))
	assert.True(t, rounded.Equal(session.LastActive))

	require.NoError(t, repo.Touch(ctx, alice, session.Id))

	sessions, err := repo.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, rounded.Equal(sessions[0].LastActive))
}

func TestLastActiveAt(t *testing.T) {
	exact := time.Unix(1_700_000_000, 5_000)
	assert.True(t, exact.Equal(lastActiveAt(exact)))

	assert.True(t, time.Unix(1_700_000_000, 6_000).Equal(lastActiveAt(time.Unix(1_700_000_000, 5_001))))
}
