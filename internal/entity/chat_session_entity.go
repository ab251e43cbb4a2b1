package entity

import "time"

type Session struct {
	Id         string
	LastActive time.Time
}

// UserKey scopes the session index of one user.
type UserKey struct {
	Namespace string
	UserId    string
}

// SessionKey scopes the chat log and working memory of one session.
type SessionKey struct {
	UserKey
	SessionId string
}

func NewSessionKey(namespace, userId, sessionId string) SessionKey {
	return SessionKey{
		UserKey:   UserKey{Namespace: namespace, UserId: userId},
		SessionId: sessionId,
	}
}
