package implementation

import (
	"context"
	"os"
	"testing"

	"podbot-be/internal/entity"
	"podbot-be/internal/model"
	"podbot-be/internal/pkg/logger"
	"podbot-be/pkg/database"
	"podbot-be/pkg/idgen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepositories(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, model.AllModels()...))

	ctx := context.Background()
	user := entity.UserKey{Namespace: "podbot-test", UserId: "it-" + uuid.NewString()}

	index := NewPostgresSessionIndexRepository(db, idgen.NewULIDGenerator())
	chatLog := NewPostgresChatLogRepository(db, index, logger.NewNopLogger())

	t.Cleanup(func() {
		db.Where("namespace = ? AND user_id = ?", user.Namespace, user.UserId).Delete(&model.ChatLogEntry{})
		db.Where("namespace = ? AND user_id = ?", user.Namespace, user.UserId).Delete(&model.SessionIndexEntry{})
	})

	empty, err := index.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, empty)

	session, err := index.Create(ctx, user)
	require.NoError(t, err)

	key := entity.SessionKey{UserKey: user, SessionId: session.Id}
	_, err = chatLog.Append(ctx, key, entity.RoleUser, "tell me about jazz podcasts")
	require.NoError(t, err)
	_, err = chatLog.Append(ctx, key, entity.RoleAssistant, "Try Jazz Night in America")
	require.NoError(t, err)

	messages, err := chatLog.ReadAll(ctx, key)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.RoleUser, messages[0].Role)
	assert.Equal(t, entity.RoleAssistant, messages[1].Role)

	sessions, err := index.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].LastActive.Before(session.LastActive))
}
