package storage

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tg-gatekeeper/internal/models"
)

// ChatRepository handles database operations for Chat records
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// MigrateTable ensures the chats table exists with the right schema
func (r *ChatRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Chat{})
}

// Upsert inserts the chat or updates the mutable columns of an existing
// record. AddedAt is excluded from the update set and keeps its insert value.
func (r *ChatRepository) Upsert(chat *models.Chat) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "kind", "adder_id", "last_active"}),
	}).Create(chat).Error
}

// Touch updates the chat's last-active timestamp if the chat is tracked
func (r *ChatRepository) Touch(chatID int64, at time.Time) error {
	return r.db.Model(&models.Chat{}).Where("id = ?", chatID).Update("last_active", at).Error
}

// Count returns the total number of tracked chats
func (r *ChatRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.Chat{}).Count(&count)
	return count, result.Error
}

// ListRecent returns up to limit chats ordered by most recent activity
func (r *ChatRepository) ListRecent(limit int) ([]models.Chat, error) {
	var chats []models.Chat
	result := r.db.Order("last_active DESC").Limit(limit).Find(&chats)
	return chats, result.Error
}

// All returns every tracked chat
func (r *ChatRepository) All() ([]models.Chat, error) {
	var chats []models.Chat
	result := r.db.Find(&chats)
	return chats, result.Error
}
