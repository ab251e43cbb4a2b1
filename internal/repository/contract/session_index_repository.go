package contract

import (
	"context"

	"podbot-be/internal/entity"
)

// SessionIndexRepository keeps each user's sessions ordered by last activity.
// Entries are advisory; the chat log is authoritative.
type SessionIndexRepository interface {
	// List returns sessions most recently active first. No sessions is an empty slice.
	List(ctx context.Context, key entity.UserKey) ([]*entity.Session, error)
	Create(ctx context.Context, key entity.UserKey) (*entity.Session, error)
	// Touch moves a session's last-active time to now. Idempotent.
	Touch(ctx context.Context, key entity.UserKey, sessionId string) error
}
