package scope

import (
	"podbot-be/internal/entity"

	"gorm.io/gorm"
)

// ForUser limits a query to one user's rows within a namespace.
func ForUser(key entity.UserKey) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("namespace = ? AND user_id = ?", key.Namespace, key.UserId)
	}
}

// ForSession limits a query to a single session's rows.
func ForSession(key entity.SessionKey) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return ForUser(key.UserKey)(db).Where("session_id = ?", key.SessionId)
	}
}

func InSequence(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// MostRecentlyActive orders sessions newest first; ties break on the id so the
// listing is stable.
func MostRecentlyActive(db *gorm.DB) *gorm.DB {
	return db.Order("last_active DESC").Order("session_id DESC")
}
