package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type jobRepository interface {
	List(ctx context.Context) ([]models.Job, error)
	ListForManager(ctx context.Context, managerID string) ([]models.Job, error)
	Create(ctx context.Context, req models.JobRequest) error
	Update(ctx context.Context, id string, req models.JobRequest) error
	Delete(ctx context.Context, id string) error
}

// JobService manages job openings and the per-manager job picker.
type JobService struct {
	repo      jobRepository
	snapshots *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewJobService constructs a JobService.
func NewJobService(repo jobRepository, snapshots *CacheService, validate *validator.Validate, logger *zap.Logger) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &JobService{repo: repo, snapshots: snapshots, validator: validate, logger: logger}
}

// Jobs returns the raw job list, falling back to the last good snapshot.
func (s *JobService) Jobs(ctx context.Context) ([]models.Job, dto.ListStatus) {
	jobs, stale, err := fetchWithSnapshot(ctx, s.snapshots, snapshotJobs, s.repo.List)
	if err != nil {
		s.logger.Warn("serving stale jobs", zap.Error(err))
	}
	status := dto.ListStatus{Stale: stale}
	if stale {
		status.Notice = "Error fetching jobs"
	}
	return jobs, status
}

// List returns the job grid rows.
func (s *JobService) List(ctx context.Context) ([]dto.JobRow, dto.ListStatus, error) {
	jobs, status := s.Jobs(ctx)
	return dto.NewJobRows(jobs), status, nil
}

// Assignable lists the jobs managerID may attach to an option.
func (s *JobService) Assignable(ctx context.Context, managerID string) ([]dto.AssignableJob, error) {
	jobs, err := s.repo.ListForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AssignableJob, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, dto.NewAssignableJob(job))
	}
	return items, nil
}

// Create adds a job and returns the refreshed grid.
func (s *JobService) Create(ctx context.Context, req models.JobRequest) (*dto.Mutation[dto.JobRow], error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Job added successfully")
}

// Update edits a job and returns the refreshed grid.
func (s *JobService) Update(ctx context.Context, id string, req models.JobRequest) (*dto.Mutation[dto.JobRow], error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "job id is required")
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Job updated successfully")
}

// Delete removes a job once confirmed and returns the refreshed grid.
func (s *JobService) Delete(ctx context.Context, id string, confirmed bool) (*dto.Mutation[dto.JobRow], error) {
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "Are you sure you want to delete this job?")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Job deleted successfully")
}

func (s *JobService) validate(req *models.JobRequest) error {
	trimmed(&req.JobTitle, &req.WorkTime, &req.Country)
	return validatePayload(s.validator, req, "invalid job", jobMessages)
}

func (s *JobService) refreshed(ctx context.Context, message string) (*dto.Mutation[dto.JobRow], error) {
	rows, _, _ := s.List(ctx)
	return &dto.Mutation[dto.JobRow]{Message: message, Items: rows}, nil
}
