package models

import "time"

// User is a Telegram user the bot has seen at least once. The primary key is
// the Telegram user ID, not an auto-increment.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName string `gorm:"size:255" json:"first_name"`
	Username  string `gorm:"size:255" json:"username"`
	IsBot     bool   `json:"is_bot"`
	// FirstSeen is set on insert and never updated afterwards.
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `gorm:"index" json:"last_seen"`
}
