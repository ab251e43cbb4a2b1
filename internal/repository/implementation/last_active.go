package implementation

import "time"

// lastActiveAt rounds t up to the microsecond both stores can hold, so a stored
// lastActive is never earlier than the moment of the write.
func lastActiveAt(t time.Time) time.Time {
	at := t.Truncate(time.Microsecond)
	if at.Before(t) {
		at = at.Add(time.Microsecond)
	}
	return at
}
