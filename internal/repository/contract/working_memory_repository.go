package contract

import (
	"context"

	"podbot-be/pkg/memoryserver"
)

// WorkingMemoryRepository is satisfied by *memoryserver.Client.
type WorkingMemoryRepository interface {
	Read(ctx context.Context, namespace, userID, sessionID string) (*memoryserver.WorkingMemory, error)
	Replace(ctx context.Context, sessionID string, contextWindowMax int, wm *memoryserver.WorkingMemory) (*memoryserver.WorkingMemory, error)
	Delete(ctx context.Context, namespace, userID, sessionID string) error
	SearchLongTermMemory(ctx context.Context, namespace, userID string, limit int) ([]memoryserver.LongTermMemory, error)
}

var _ WorkingMemoryRepository = (*memoryserver.Client)(nil)
