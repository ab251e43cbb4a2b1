package dto

import "time"

type SessionResponse struct {
	Id         string    `json:"id"`
	LastActive time.Time `json:"lastActive"`
}

type ChatMessageResponse struct {
	SequenceId string `json:"sequenceId,omitempty"`
	Role       string `json:"role"`
	Content    string `json:"content"`
}

type ContextMessageResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ContextResponse struct {
	Summary        string                   `json:"summary"`
	RecentMessages []ContextMessageResponse `json:"recentMessages"`
}

type ChatWithContextResponse struct {
	ChatHistory []ChatMessageResponse `json:"chatHistory"`
	Context     ContextResponse       `json:"context"`
}

type MemoryResponse struct {
	Id        string   `json:"id"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	Topics    []string `json:"topics"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type RebuildWorkingMemoryResponse struct {
	SessionId        string `json:"sessionId"`
	ReplayedMessages int    `json:"replayedMessages"`
}
