package models

import "time"

// chat kinds as shown in listings and exports
const (
	ChatKindGroup   = "Group"
	ChatKindChannel = "Channel"
)

// Chat is a group or channel the bot was added to. The primary key is the
// Telegram chat ID.
type Chat struct {
	ID    int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title string `gorm:"size:255" json:"title"`
	Kind  string `gorm:"size:32" json:"kind"`
	// AdderID is the user who added the bot to the chat.
	AdderID int64 `json:"adder_id"`
	// AddedAt is set on insert and never updated afterwards.
	AddedAt    time.Time `json:"added_at"`
	LastActive time.Time `gorm:"index" json:"last_active"`
}
