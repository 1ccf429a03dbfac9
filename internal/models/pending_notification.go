package models

import "time"

// PendingNotification is a message that could not be delivered to a user
// directly (usually because they never started a private chat with the bot).
// It is replayed, in insertion order, on their next /start.
type PendingNotification struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	UserID  int64  `gorm:"index"`
	Message string `gorm:"type:text"`
}
