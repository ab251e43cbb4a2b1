package entity

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one immutable chat log entry. SequenceId is assigned by the store
// and orders messages within a session.
type ChatMessage struct {
	SequenceId string
	Role       Role
	Content    string
}

type ContextMessage struct {
	Role    Role
	Content string
}

// Context is the display projection of a session's working memory.
type Context struct {
	Summary        string
	RecentMessages []ContextMessage
}

type ChatWithContext struct {
	ChatHistory []*ChatMessage
	Context     *Context
}

// Memory is one long-term memory record held by the memory server.
type Memory struct {
	Id        string
	Content   string
	CreatedAt string
	Topics    []string
}
