package storage

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tg-gatekeeper/internal/models"
)

// UserRepository handles database operations for User records
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// MigrateTable ensures the users table exists with the right schema
func (r *UserRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.User{})
}

// Upsert inserts the user or updates the mutable columns of an existing
// record. FirstSeen is excluded from the update set, so the value written on
// insert is never touched again.
func (r *UserRepository) Upsert(user *models.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "username", "is_bot", "last_seen"}),
	}).Create(user).Error
}

// Count returns the total number of tracked users
func (r *UserRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).Count(&count)
	return count, result.Error
}

// ListRecent returns up to limit users ordered by most recent activity
func (r *UserRepository) ListRecent(limit int) ([]models.User, error) {
	var users []models.User
	result := r.db.Order("last_seen DESC").Limit(limit).Find(&users)
	return users, result.Error
}

// All returns every tracked user
func (r *UserRepository) All() ([]models.User, error) {
	var users []models.User
	result := r.db.Find(&users)
	return users, result.Error
}

// AllIDs returns the IDs of every tracked user
func (r *UserRepository) AllIDs() ([]int64, error) {
	var ids []int64
	result := r.db.Model(&models.User{}).Pluck("id", &ids)
	return ids, result.Error
}
