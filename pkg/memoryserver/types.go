package memoryserver

import (
	"encoding/json"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one entry of the working-memory window. Fields the server adds
// (ids, timestamps, persistence flags) are kept in Extra and sent back untouched.
type Message struct {
	Role    string                     `json:"role"`
	Content string                     `json:"content"`
	Extra   map[string]json.RawMessage `json:"-"`
}

// WorkingMemory is the server-side conversation window of one session.
// Context holds the rolling summary of messages evicted from the window.
type WorkingMemory struct {
	Namespace string                     `json:"namespace"`
	UserID    string                     `json:"user_id"`
	SessionID string                     `json:"session_id"`
	Context   string                     `json:"context"`
	Messages  []Message                  `json:"messages"`
	Extra     map[string]json.RawMessage `json:"-"`
}

// LongTermMemory is a record returned by the long-term memory search.
type LongTermMemory struct {
	ID        string                     `json:"id"`
	Text      string                     `json:"text"`
	Topics    []string                   `json:"topics"`
	CreatedAt string                     `json:"created_at"`
	Extra     map[string]json.RawMessage `json:"-"`
}

// NewWorkingMemory returns the empty document used for sessions the server has never seen.
func NewWorkingMemory(namespace, userID, sessionID string) *WorkingMemory {
	return &WorkingMemory{
		Namespace: namespace,
		UserID:    userID,
		SessionID: sessionID,
		Context:   "",
		Messages:  []Message{},
	}
}

func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return marshalWithExtra(plain(m), m.Extra)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extractExtra(data, "role", "content")
	if err != nil {
		return err
	}
	*m = Message(p)
	m.Extra = extra
	return nil
}

func (w WorkingMemory) MarshalJSON() ([]byte, error) {
	type plain WorkingMemory
	p := plain(w)
	if p.Messages == nil {
		p.Messages = []Message{}
	}
	return marshalWithExtra(p, w.Extra)
}

func (w *WorkingMemory) UnmarshalJSON(data []byte) error {
	type plain WorkingMemory
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extractExtra(data, "namespace", "user_id", "session_id", "context", "messages")
	if err != nil {
		return err
	}
	*w = WorkingMemory(p)
	if w.Messages == nil {
		w.Messages = []Message{}
	}
	w.Extra = extra
	return nil
}

func (l LongTermMemory) MarshalJSON() ([]byte, error) {
	type plain LongTermMemory
	return marshalWithExtra(plain(l), l.Extra)
}

func (l *LongTermMemory) UnmarshalJSON(data []byte) error {
	type plain LongTermMemory
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extractExtra(data, "id", "text", "topics", "created_at")
	if err != nil {
		return err
	}
	*l = LongTermMemory(p)
	l.Extra = extra
	return nil
}

// extractExtra returns every top-level field of data except the known ones.
func extractExtra(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// marshalWithExtra encodes v and merges extra fields in. Typed fields win on conflict.
func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, exists := merged[k]; !exists {
			merged[k] = raw
		}
	}
	return json.Marshal(merged)
}
