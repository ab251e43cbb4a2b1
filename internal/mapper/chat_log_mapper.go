package mapper

import (
	"strconv"

	"podbot-be/internal/entity"
	"podbot-be/internal/model"
)

type ChatLogMapper struct{}

func NewChatLogMapper() *ChatLogMapper {
	return &ChatLogMapper{}
}

func (m *ChatLogMapper) ChatLogEntryToEntity(e *model.ChatLogEntry) *entity.ChatMessage {
	if e == nil {
		return nil
	}
	return &entity.ChatMessage{
		SequenceId: strconv.FormatInt(e.Id, 10),
		Role:       entity.Role(e.Role),
		Content:    e.Content,
	}
}

func (m *ChatLogMapper) ChatLogEntriesToEntities(entries []*model.ChatLogEntry) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, m.ChatLogEntryToEntity(e))
	}
	return out
}

func (m *ChatLogMapper) SessionIndexEntryToEntity(e *model.SessionIndexEntry) *entity.Session {
	if e == nil {
		return nil
	}
	return &entity.Session{
		Id:         e.SessionId,
		LastActive: e.LastActive,
	}
}
