package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/diewo77/seeker/gate"
	"github.com/diewo77/seeker/internal/logging"
	"github.com/diewo77/seeker/internal/models"
	"github.com/diewo77/seeker/internal/store"
	"github.com/diewo77/seeker/validation"
)

type JobInput struct {
	Title       string
	Location    string
	Description string
}

// CatalogService lists jobs and records applications.
type CatalogService struct {
	jobs *store.JobStore
	apps *store.ApplicationStore
	gate *gate.Gate[*models.User]
	log  logging.Logger
	now  func() time.Time
}

func NewCatalogService(jobs *store.JobStore, apps *store.ApplicationStore, g *gate.Gate[*models.User], log logging.Logger) *CatalogService {
	return &CatalogService{
		jobs: jobs,
		apps: apps,
		gate: g,
		log:  log.With("component", "catalog"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// ListJobs returns every job, newest first.
func (s *CatalogService) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.jobs.List(ctx)
}

func (s *CatalogService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	j, err := s.jobs.ByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return j, err
}

// JobsByPoster returns a company's own listings, newest first.
func (s *CatalogService) JobsByPoster(ctx context.Context, posterID uint) ([]models.Job, error) {
	return s.jobs.ByPoster(ctx, posterID)
}

// CreateJob publishes a listing under the poster's display name.
func (s *CatalogService) CreateJob(ctx context.Context, poster *models.User, in JobInput) (*models.Job, error) {
	if err := s.gate.Authorize(ctx, poster, gate.ActionCreate, ResourceJob, nil); err != nil {
		return nil, ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	validation.Required("location", in.Location, v)
	validation.Required("description", in.Description, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	posterID := poster.ID
	j := &models.Job{
		Title:        in.Title,
		Company:      poster.Name,
		Location:     in.Location,
		Description:  in.Description,
		PostedAt:     s.now(),
		PosterUserID: &posterID,
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "job posted", "job_id", j.ID, "poster_id", posterID)
	return j, nil
}

// Apply records a paid application. Repeating it for the same job is a
// successful no-op; created reports whether a row was written.
func (s *CatalogService) Apply(ctx context.Context, u *models.User, jobID uint) (created bool, err error) {
	if err := s.gate.Authorize(ctx, u, gate.ActionApply, ResourceApplication, nil); err != nil {
		return false, ErrForbidden
	}
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return false, err
	}
	created, err = s.apps.Insert(ctx, u.ID, jobID, s.now())
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info(ctx, "application recorded", "user_id", u.ID, "job_id", jobID)
	}
	return created, nil
}

// HasApplied reports whether u already holds an application for jobID.
func (s *CatalogService) HasApplied(ctx context.Context, userID, jobID uint) (bool, error) {
	n, err := s.apps.Count(ctx, userID, jobID)
	return n > 0, err
}

// ApplicationsFor lists a user's applications with job details, newest first.
func (s *CatalogService) ApplicationsFor(ctx context.Context, userID uint) ([]models.ApplicationListing, error) {
	return s.apps.ListingsFor(ctx, userID)
}
