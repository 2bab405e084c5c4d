// Package sessions provides database operations for import session records.
package sessions

import (
	"time"

	"gorm.io/gorm"

	"github.com/darolishes/bondbridge/internal/entities"
)

// Repository handles import session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record creates or updates a session record.
func (r *Repository) Record(session *entities.ImportSession) error {
	return r.db.Save(session).Error
}

// List returns paginated sessions, newest first.
func (r *Repository) List(limit, offset int) ([]entities.ImportSession, int64, error) {
	var total int64
	if err := r.db.Model(&entities.ImportSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []entities.ImportSession
	err := r.db.Order("started_at DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, total, err
}

// DeleteOldSessions removes sessions that started before the cutoff and
// returns how many were deleted.
func (r *Repository) DeleteOldSessions(cutoff time.Time) (int64, error) {
	result := r.db.Where("started_at < ?", cutoff).Delete(&entities.ImportSession{})
	return result.RowsAffected, result.Error
}
