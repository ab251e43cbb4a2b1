package implementation

import (
	"context"
	"fmt"

	"podbot-be/internal/entity"
	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// RedisChatLogRepository keeps each session's history in a Redis stream.
// Stream entry ids ("<ms>-<seq>") are the sequence ids.
type RedisChatLogRepository struct {
	rdb    *redis.Client
	index  contract.SessionIndexRepository
	logger logger.ILogger
}

func NewRedisChatLogRepository(rdb *redis.Client, index contract.SessionIndexRepository, log logger.ILogger) *RedisChatLogRepository {
	return &RedisChatLogRepository{
		rdb:    rdb,
		index:  index,
		logger: log,
	}
}

var _ contract.ChatLogRepository = (*RedisChatLogRepository)(nil)

func (r *RedisChatLogRepository) Append(ctx context.Context, key entity.SessionKey, role entity.Role, content string) (string, error) {
	streamKey := chatStreamKey(key)

	id, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		ID:     "*",
		Values: map[string]interface{}{
			"role":    string(role),
			"content": content,
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("append to chat stream %s: %w", streamKey, err)
	}

	r.logger.Debug("ChatLog", "Appended message", map[string]interface{}{"stream": streamKey, "id": id, "role": role})

	// Secondary write; the index is advisory and is corrected by the next append.
	if err := r.index.Touch(ctx, key.UserKey, key.SessionId); err != nil {
		r.logger.Warn("ChatLog", "Failed to touch session index", map[string]interface{}{
			"session_id": key.SessionId,
			"error":      err.Error(),
		})
	}

	return id, nil
}

func (r *RedisChatLogRepository) ReadAll(ctx context.Context, key entity.SessionKey) ([]*entity.ChatMessage, error) {
	streamKey := chatStreamKey(key)

	entries, err := r.rdb.XRange(ctx, streamKey, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("read chat stream %s: %w", streamKey, err)
	}

	messages := make([]*entity.ChatMessage, 0, len(entries))
	for _, e := range entries {
		messages = append(messages, &entity.ChatMessage{
			SequenceId: e.ID,
			Role:       entity.Role(stringValue(e.Values["role"])),
			Content:    stringValue(e.Values["content"]),
		})
	}
	return messages, nil
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
