package contract

import (
	"context"

	"podbot-be/internal/entity"
)

// ChatLogRepository is the durable, append-only message history of a session.
type ChatLogRepository interface {
	// Append stores one message and returns its store-assigned sequence id.
	// Ids increase monotonically within a session. Every append also touches
	// the session index on a best-effort basis.
	Append(ctx context.Context, key entity.SessionKey, role entity.Role, content string) (string, error)

	// ReadAll returns the whole log oldest first. An unknown session yields an empty slice.
	ReadAll(ctx context.Context, key entity.SessionKey) ([]*entity.ChatMessage, error)
}
