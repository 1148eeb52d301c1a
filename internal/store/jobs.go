package store

import (
	"context"

	"github.com/diewo77/seeker/internal/models"
	"gorm.io/gorm"
)

// JobStore persists job listings.
type JobStore struct {
	db *gorm.DB
}

func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// List returns every job, most recently posted first.
func (s *JobStore) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).Order("posted_at DESC").Order("id DESC").Find(&jobs).Error
	return jobs, translate("list jobs", err)
}

// ByPoster returns the jobs a company account created, newest first.
func (s *JobStore) ByPoster(ctx context.Context, userID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.WithContext(ctx).Where("poster_user_id = ?", userID).
		Order("posted_at DESC").Order("id DESC").Find(&jobs).Error
	return jobs, translate("jobs by poster", err)
}

func (s *JobStore) ByID(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := s.db.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, translate("job by id", err)
	}
	return &j, nil
}

func (s *JobStore) Create(ctx context.Context, j *models.Job) error {
	return translate("create job", s.db.WithContext(ctx).Create(j).Error)
}
