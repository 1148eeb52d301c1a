package store

import (
	"context"
	"time"

	"github.com/diewo77/seeker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationStore persists paid applications.
type ApplicationStore struct {
	db *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// Insert records that userID paid for jobID at the given time. A second
// insert for the same pair is absorbed by the unique constraint; created
// reports whether this call wrote the row.
func (s *ApplicationStore) Insert(ctx context.Context, userID, jobID uint, at time.Time) (created bool, err error) {
	app := models.Application{UserID: userID, JobID: jobID, PaidAt: &at, CreatedAt: at}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
		DoNothing: true,
	}).Create(&app)
	if res.Error != nil {
		return false, translate("insert application", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListingsFor returns the user's applications joined with job details,
// newest first.
func (s *ApplicationStore) ListingsFor(ctx context.Context, userID uint) ([]models.ApplicationListing, error) {
	var rows []models.ApplicationListing
	err := s.db.WithContext(ctx).Table("applications AS a").
		Select("a.id, a.job_id, j.title, j.company, j.location, a.paid_at, a.created_at").
		Joins("JOIN jobs AS j ON j.id = a.job_id").
		Where("a.user_id = ?", userID).
		Order("a.created_at DESC").Order("a.id DESC").
		Scan(&rows).Error
	return rows, translate("list applications", err)
}

// Count returns how many rows exist for the pair. Used by tests and the
// payment page to show an "already applied" state.
func (s *ApplicationStore) Count(ctx context.Context, userID, jobID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).Count(&n).Error
	return n, translate("count applications", err)
}
