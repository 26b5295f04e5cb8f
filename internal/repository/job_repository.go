package repository

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
)

// jobPayload is the body the backend expects when saving a job.
type jobPayload struct {
	JobTitle      string   `json:"jobTitle"`
	Description   string   `json:"description"`
	WorkTime      string   `json:"WorkTime"`
	Salary        *float64 `json:"salary,omitempty"`
	ServiceCharge float64  `json:"serviceCharge"`
	AdminCharge   float64  `json:"adminCharge"`
	Country       string   `json:"country"`
}

func newJobPayload(req models.JobRequest) jobPayload {
	p := jobPayload{
		JobTitle:    strings.TrimSpace(req.JobTitle),
		Description: req.Description,
		WorkTime:    strings.TrimSpace(req.WorkTime),
		Salary:      req.Salary,
		Country:     strings.TrimSpace(req.Country),
	}
	if req.ServiceCharge != nil {
		p.ServiceCharge = *req.ServiceCharge
	}
	if req.AdminCharge != nil {
		p.AdminCharge = *req.AdminCharge
	}
	return p
}

// JobRepository talks to the backend job endpoints.
type JobRepository struct {
	client Backend
}

// NewJobRepository constructs a job gateway.
func NewJobRepository(client Backend) *JobRepository {
	return &JobRepository{client: client}
}

// List returns every job with its country populated where the backend does so.
func (r *JobRepository) List(ctx context.Context) ([]models.Job, error) {
	return r.list(ctx, "jobs.list", "/api/jobs")
}

// ListForManager returns the jobs a Pre-Visa manager may offer as options.
func (r *JobRepository) ListForManager(ctx context.Context, managerID string) ([]models.Job, error) {
	return r.list(ctx, "jobs.for_manager", "/api/jobs/job/"+backend.Segment(managerID))
}

func (r *JobRepository) list(ctx context.Context, operation, path string) ([]models.Job, error) {
	var payload listPayload[backendJob]
	if err := r.client.Do(ctx, backend.Request{Operation: operation, Method: http.MethodGet, Path: path}, &payload); err != nil {
		return nil, err
	}
	jobs := make([]models.Job, 0, len(payload.Items))
	for _, j := range payload.Items {
		jobs = append(jobs, j.toModel())
	}
	return jobs, nil
}

// Create adds a job.
func (r *JobRepository) Create(ctx context.Context, req models.JobRequest) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "jobs.create",
		Method:    http.MethodPost,
		Path:      "/api/jobs",
		Body:      newJobPayload(req),
	}, nil)
}

// Update edits a job.
func (r *JobRepository) Update(ctx context.Context, id string, req models.JobRequest) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "jobs.update",
		Method:    http.MethodPut,
		Path:      "/api/jobs/" + backend.Segment(id),
		Body:      newJobPayload(req),
	}, nil)
}

// Delete removes a job.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "jobs.delete",
		Method:    http.MethodDelete,
		Path:      "/api/jobs/" + backend.Segment(id),
	}, nil)
}
