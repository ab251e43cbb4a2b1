package implementation

import (
	"context"
	"fmt"
	"time"

	"podbot-be/internal/entity"
	"podbot-be/internal/mapper"
	"podbot-be/internal/model"
	"podbot-be/internal/repository/contract"
	"podbot-be/internal/repository/scope"
	"podbot-be/pkg/idgen"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresSessionIndexRepository struct {
	db     *gorm.DB
	ids    *idgen.ULIDGenerator
	mapper *mapper.ChatLogMapper
	clock  func() time.Time
}

func NewPostgresSessionIndexRepository(db *gorm.DB, ids *idgen.ULIDGenerator) *PostgresSessionIndexRepository {
	return &PostgresSessionIndexRepository{
		db:     db,
		ids:    ids,
		mapper: mapper.NewChatLogMapper(),
		clock:  time.Now,
	}
}

var _ contract.SessionIndexRepository = (*PostgresSessionIndexRepository)(nil)

func (r *PostgresSessionIndexRepository) List(ctx context.Context, key entity.UserKey) ([]*entity.Session, error) {
	var rows []*model.SessionIndexEntry
	err := r.db.WithContext(ctx).
		Scopes(scope.ForUser(key), scope.MostRecentlyActive).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]*entity.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, r.mapper.SessionIndexEntryToEntity(row))
	}
	return sessions, nil
}

func (r *PostgresSessionIndexRepository) Create(ctx context.Context, key entity.UserKey) (*entity.Session, error) {
	now := lastActiveAt(r.clock()).UTC()
	id, err := r.ids.New(now)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	row := &model.SessionIndexEntry{
		Namespace:  key.Namespace,
		UserId:     key.UserId,
		SessionId:  id,
		LastActive: now,
		CreatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return r.mapper.SessionIndexEntryToEntity(row), nil
}

func (r *PostgresSessionIndexRepository) Touch(ctx context.Context, key entity.UserKey, sessionId string) error {
	now := lastActiveAt(r.clock()).UTC()
	row := &model.SessionIndexEntry{
		Namespace:  key.Namespace,
		UserId:     key.UserId,
		SessionId:  sessionId,
		LastActive: now,
		CreatedAt:  now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "user_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_active"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}
