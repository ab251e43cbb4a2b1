package model

import "time"

type SessionIndexEntry struct {
	Namespace  string    `gorm:"primaryKey;size:64"`
	UserId     string    `gorm:"primaryKey;size:128"`
	SessionId  string    `gorm:"primaryKey;size:64"`
	LastActive time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (SessionIndexEntry) TableName() string {
	return "session_index_entries"
}

// AllModels lists every table managed by AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&ChatLogEntry{},
		&SessionIndexEntry{},
	}
}
