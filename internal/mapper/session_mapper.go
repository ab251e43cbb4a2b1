package mapper

import (
	"podbot-be/internal/dto"
	"podbot-be/internal/entity"
	"podbot-be/pkg/memoryserver"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) SessionsToResponse(sessions []*entity.Session) []dto.SessionResponse {
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, m.SessionToResponse(s))
	}
	return out
}

func (m *SessionMapper) SessionToResponse(s *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Id:         s.Id,
		LastActive: s.LastActive.UTC(),
	}
}

func (m *SessionMapper) ChatHistoryToResponse(messages []*entity.ChatMessage) []dto.ChatMessageResponse {
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, dto.ChatMessageResponse{
			SequenceId: msg.SequenceId,
			Role:       string(msg.Role),
			Content:    msg.Content,
		})
	}
	return out
}

func (m *SessionMapper) ContextToResponse(c *entity.Context) dto.ContextResponse {
	res := dto.ContextResponse{RecentMessages: []dto.ContextMessageResponse{}}
	if c == nil {
		return res
	}
	res.Summary = c.Summary
	for _, msg := range c.RecentMessages {
		res.RecentMessages = append(res.RecentMessages, dto.ContextMessageResponse{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return res
}

func (m *SessionMapper) ChatWithContextToResponse(c *entity.ChatWithContext) *dto.ChatWithContextResponse {
	return &dto.ChatWithContextResponse{
		ChatHistory: m.ChatHistoryToResponse(c.ChatHistory),
		Context:     m.ContextToResponse(c.Context),
	}
}

func (m *SessionMapper) MemoriesToResponse(memories []*entity.Memory) []dto.MemoryResponse {
	out := make([]dto.MemoryResponse, 0, len(memories))
	for _, mem := range memories {
		topics := mem.Topics
		if topics == nil {
			topics = []string{}
		}
		out = append(out, dto.MemoryResponse{
			Id:        mem.Id,
			Content:   mem.Content,
			CreatedAt: mem.CreatedAt,
			Topics:    topics,
		})
	}
	return out
}

// WorkingMemoryToContext projects the memory server document onto the display context.
func (m *SessionMapper) WorkingMemoryToContext(wm *memoryserver.WorkingMemory) *entity.Context {
	c := &entity.Context{RecentMessages: []entity.ContextMessage{}}
	if wm == nil {
		return c
	}
	c.Summary = wm.Context
	for _, msg := range wm.Messages {
		c.RecentMessages = append(c.RecentMessages, entity.ContextMessage{
			Role:    entity.Role(msg.Role),
			Content: msg.Content,
		})
	}
	return c
}

func (m *SessionMapper) LongTermMemoriesToEntities(records []memoryserver.LongTermMemory) []*entity.Memory {
	out := make([]*entity.Memory, 0, len(records))
	for _, r := range records {
		out = append(out, &entity.Memory{
			Id:        r.ID,
			Content:   r.Text,
			CreatedAt: r.CreatedAt,
			Topics:    r.Topics,
		})
	}
	return out
}
