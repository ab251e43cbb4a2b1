package implementation

import (
	"strings"

	"podbot-be/internal/entity"
)

// KeySeparator joins key segments. Callers reject it inside user and session ids,
// otherwise "a:b"/"c" and "a"/"b:c" would share a key.
const KeySeparator = ":"

func joinKey(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

func sessionsKey(key entity.UserKey) string {
	return joinKey(key.Namespace, key.UserId, "sessions")
}

func chatStreamKey(key entity.SessionKey) string {
	return joinKey(key.Namespace, key.UserId, key.SessionId, "chat")
}

// SessionLockKey names the advisory lock guarding one session's send sequence.
func SessionLockKey(key entity.SessionKey) string {
	return joinKey(key.Namespace, key.UserId, key.SessionId, "lock")
}
