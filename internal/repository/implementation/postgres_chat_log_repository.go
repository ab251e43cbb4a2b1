package implementation

import (
	"context"
	"fmt"
	"strconv"

	"podbot-be/internal/entity"
	"podbot-be/internal/mapper"
	"podbot-be/internal/model"
	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/repository/contract"
	"podbot-be/internal/repository/scope"

	"gorm.io/gorm"
)

type PostgresChatLogRepository struct {
	db     *gorm.DB
	index  contract.SessionIndexRepository
	mapper *mapper.ChatLogMapper
	logger logger.ILogger
}

func NewPostgresChatLogRepository(db *gorm.DB, index contract.SessionIndexRepository, log logger.ILogger) *PostgresChatLogRepository {
	return &PostgresChatLogRepository{
		db:     db,
		index:  index,
		mapper: mapper.NewChatLogMapper(),
		logger: log,
	}
}

var _ contract.ChatLogRepository = (*PostgresChatLogRepository)(nil)

func (r *PostgresChatLogRepository) Append(ctx context.Context, key entity.SessionKey, role entity.Role, content string) (string, error) {
	row := &model.ChatLogEntry{
		Namespace: key.Namespace,
		UserId:    key.UserId,
		SessionId: key.SessionId,
		Role:      string(role),
		Content:   content,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("append chat log entry: %w", err)
	}

	if err := r.index.Touch(ctx, key.UserKey, key.SessionId); err != nil {
		r.logger.Warn("ChatLog", "Failed to touch session index", map[string]interface{}{
			"session_id": key.SessionId,
			"error":      err.Error(),
		})
	}

	return strconv.FormatInt(row.Id, 10), nil
}

func (r *PostgresChatLogRepository) ReadAll(ctx context.Context, key entity.SessionKey) ([]*entity.ChatMessage, error) {
	var rows []*model.ChatLogEntry
	err := r.db.WithContext(ctx).
		Scopes(scope.ForSession(key), scope.InSequence).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read chat log: %w", err)
	}
	return r.mapper.ChatLogEntriesToEntities(rows), nil
}
