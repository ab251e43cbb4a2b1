package model

import "time"

// ChatLogEntry is one row of the Postgres chat log. The bigserial id is the sequence id.
type ChatLogEntry struct {
	Id        int64  `gorm:"primaryKey;autoIncrement"`
	Namespace string `gorm:"size:64;not null;index:idx_chat_log_session,priority:1"`
	UserId    string `gorm:"size:128;not null;index:idx_chat_log_session,priority:2"`
	SessionId string `gorm:"size:64;not null;index:idx_chat_log_session,priority:3"`
	Role      string `gorm:"size:16;not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (ChatLogEntry) TableName() string {
	return "chat_log_entries"
}
