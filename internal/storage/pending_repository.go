package storage

import (
	"gorm.io/gorm"

	"tg-gatekeeper/internal/models"
)

// PendingRepository handles database operations for PendingNotification
type PendingRepository struct {
	db *gorm.DB
}

// NewPendingRepository creates a new PendingRepository
func NewPendingRepository(db *gorm.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

// MigrateTable ensures the pending_notifications table exists
func (r *PendingRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.PendingNotification{})
}

// Append queues a message for later delivery to the user
func (r *PendingRepository) Append(userID int64, message string) error {
	return r.db.Create(&models.PendingNotification{
		UserID:  userID,
		Message: message,
	}).Error
}

// TakeAll returns the user's queued messages in insertion order and deletes
// them in the same transaction. A second call right after the first returns
// an empty slice.
func (r *PendingRepository) TakeAll(userID int64) ([]string, error) {
	var messages []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var pending []models.PendingNotification
		if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(pending))
		for _, p := range pending {
			ids = append(ids, p.ID)
			messages = append(messages, p.Message)
		}
		// Delete only the rows just read. A row committed by a concurrent
		// append between the select and the delete must survive for the
		// next fetch instead of being cleared unreturned.
		return tx.Where("id IN ?", ids).Delete(&models.PendingNotification{}).Error
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
