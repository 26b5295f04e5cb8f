package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/lifecycle"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
	"github.com/noah-isme/previsa-console/pkg/inflight"
)

const (
	defaultLeadPageSize = 10
	maxLeadPageSize     = 100
)

type leadRepository interface {
	Get(ctx context.Context, id string) (*models.Lead, error)
	ListForManager(ctx context.Context, managerID, search string) ([]models.Lead, error)
	Transfer(ctx context.Context, leadID, preVisaManagerID, finalVisaManagerID string) (string, error)
	Reject(ctx context.Context, leadID string) (string, error)
}

type managerJobs interface {
	ListForManager(ctx context.Context, managerID string) ([]models.Job, error)
}

type finalVisaDirectory interface {
	FinalVisaManagers(ctx context.Context, search string) ([]models.Manager, error)
}

// LeadService builds lead views and runs the submit-option, transfer and reject actions.
type LeadService struct {
	leads     leadRepository
	options   optionRepository
	jobs      managerJobs
	managers  finalVisaDirectory
	guard     inflight.Guard
	snapshots *CacheService
	logger    *zap.Logger
}

// NewLeadService constructs a LeadService.
func NewLeadService(leads leadRepository, options optionRepository, jobs managerJobs, managers finalVisaDirectory, guard inflight.Guard, snapshots *CacheService, logger *zap.Logger) *LeadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if guard == nil {
		guard = inflight.NewMemoryGuard(0)
	}
	return &LeadService{
		leads:     leads,
		options:   options,
		jobs:      jobs,
		managers:  managers,
		guard:     guard,
		snapshots: snapshots,
		logger:    logger,
	}
}

// List returns the manager's leads filtered on name or contact number and paginated.
func (s *LeadService) List(ctx context.Context, managerID string, filter models.LeadFilter) ([]dto.LeadRow, *models.Pagination, dto.ListStatus, error) {
	search := strings.TrimSpace(filter.Search)
	leads, stale, err := fetchWithSnapshot(ctx, s.snapshots, snapshotLeadsKey(managerID, search), func(ctx context.Context) ([]models.Lead, error) {
		return s.leads.ListForManager(ctx, managerID, search)
	})
	if err != nil {
		s.logger.Warn("serving stale leads", zap.String("manager_id", managerID), zap.Error(err))
	}
	status := dto.ListStatus{Stale: stale}
	if stale {
		status.Notice = "Failed to fetch forms"
	}

	term := strings.ToLower(search)
	matched := make([]models.Lead, 0, len(leads))
	for _, lead := range leads {
		if term == "" || strings.Contains(strings.ToLower(lead.FullName), term) || strings.Contains(strings.ToLower(lead.ContactNo), term) {
			matched = append(matched, lead)
		}
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = defaultLeadPageSize
	}
	if size > maxLeadPageSize {
		size = maxLeadPageSize
	}

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	rows := make([]dto.LeadRow, 0, end-start)
	for _, lead := range matched[start:end] {
		rows = append(rows, dto.NewLeadRow(lead))
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}, status, nil
}

// Detail loads a lead with its option history and derives its lifecycle.
func (s *LeadService) Detail(ctx context.Context, leadID string) (*dto.LeadDetail, error) {
	lead, options, err := s.load(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return &dto.LeadDetail{Lead: *lead, Lifecycle: lifecycle.Derive(*lead, options)}, nil
}

// FinalVisaManagers lists the transfer targets matching search.
func (s *LeadService) FinalVisaManagers(ctx context.Context, search string) ([]models.Manager, error) {
	return s.managers.FinalVisaManagers(ctx, search)
}

// SubmitOption answers the lead's open option with one of the manager's jobs.
func (s *LeadService) SubmitOption(ctx context.Context, managerID, leadID string, req models.SubmitOptionRequest) (*dto.LeadAction, error) {
	jobID := strings.TrimSpace(req.JobID)
	if jobID == "" {
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "Please select a job first")
	}

	release, err := s.guard.Acquire(ctx, "lead:"+leadID)
	if err != nil {
		return nil, err
	}
	defer release()

	options, err := s.options.ForLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	slot, err := lifecycle.OpenSlot(options)
	switch {
	case errors.Is(err, lifecycle.ErrNoOption):
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "No option available to update")
	case errors.Is(err, lifecycle.ErrOptionAnswered):
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "No open option to answer")
	case err != nil:
		return nil, err
	}

	jobs, err := s.jobs.ListForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	var job *models.Job
	for i := range jobs {
		if jobs[i].ID == jobID {
			job = &jobs[i]
			break
		}
	}
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "Selected job not found")
	}

	if err := s.options.Update(ctx, slot.ID, jobID, req.ResponseMessage); err != nil {
		return nil, err
	}
	s.dropPending(ctx, managerID, leadID)

	country := job.CountryName()
	if country == "" {
		country = dto.Placeholder
	}
	action := &dto.LeadAction{Message: fmt.Sprintf("Option for %s in %s submitted successfully!", job.JobTitle, country)}

	detail, err := s.Detail(ctx, leadID)
	if err != nil {
		s.logger.Warn("option submitted but detail refresh failed", zap.String("lead_id", leadID), zap.Error(err))
		return action, nil
	}
	action.Detail = detail
	return action, nil
}

// Transfer forwards the lead to a Final Visa manager. On success the returned view is the
// previously loaded lead with its transfer flag set; the lead is not fetched again.
func (s *LeadService) Transfer(ctx context.Context, managerID, leadID string, req models.TransferRequest) (*dto.LeadAction, error) {
	target := strings.TrimSpace(req.FinalVisaManagerID)
	if target == "" {
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "Please select a Final Visa Manager")
	}

	release, err := s.guard.Acquire(ctx, "lead:"+leadID)
	if err != nil {
		return nil, err
	}
	defer release()

	lead, options, err := s.load(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanTransfer(*lead); err != nil {
		return nil, terminalConflict(err)
	}
	if err := s.requireFinalVisaManager(ctx, target); err != nil {
		return nil, err
	}

	message, err := s.leads.Transfer(ctx, leadID, managerID, target)
	if err != nil {
		return nil, err
	}
	if message == "" {
		message = "Transferred successfully"
	}
	s.invalidateLeads(ctx, managerID)

	lead.TransferredToFinalVisaManager = true
	return &dto.LeadAction{
		Message: message,
		Detail:  &dto.LeadDetail{Lead: *lead, Lifecycle: lifecycle.Derive(*lead, options)},
	}, nil
}

// Reject marks the lead rejected once the caller has confirmed.
func (s *LeadService) Reject(ctx context.Context, managerID, leadID string, confirmed bool) (*dto.LeadAction, error) {
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "This form will be marked as rejected!")
	}

	release, err := s.guard.Acquire(ctx, "lead:"+leadID)
	if err != nil {
		return nil, err
	}
	defer release()

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CanReject(*lead); err != nil {
		return nil, terminalConflict(err)
	}

	message, err := s.leads.Reject(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if message == "" {
		message = "Form rejected successfully"
	}
	s.invalidateLeads(ctx, managerID)
	s.dropPending(ctx, managerID, leadID)
	return &dto.LeadAction{Message: message}, nil
}

// requireFinalVisaManager checks id against the transfer targets the backend offers.
func (s *LeadService) requireFinalVisaManager(ctx context.Context, id string) error {
	managers, err := s.managers.FinalVisaManagers(ctx, "")
	if err != nil {
		return err
	}
	for _, m := range managers {
		if m.ID == id {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrPrecondition, "Please select a Final Visa Manager")
}

func (s *LeadService) load(ctx context.Context, leadID string) (*models.Lead, []models.Option, error) {
	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return nil, nil, err
	}
	options, err := s.options.ForLead(ctx, leadID)
	if err != nil {
		return nil, nil, err
	}
	return lead, options, nil
}

func (s *LeadService) dropPending(ctx context.Context, managerID, leadID string) {
	key := snapshotPendingKey(managerID)
	var pending []models.Option
	if hit, err := s.snapshots.Get(ctx, key, &pending); err != nil || !hit {
		return
	}
	_ = s.snapshots.Set(ctx, key, lifecycle.WithoutLead(leadID, pending), 0)
}

func (s *LeadService) invalidateLeads(ctx context.Context, managerID string) {
	_ = s.snapshots.Invalidate(ctx, snapshotLeadsKey(managerID, "")+"*")
}

func terminalConflict(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrAlreadyTransfer):
		return appErrors.Clone(appErrors.ErrConflict, lifecycle.TransferredBanner)
	case errors.Is(err, lifecycle.ErrAlreadyRejected):
		return appErrors.Clone(appErrors.ErrConflict, "This form has already been rejected")
	default:
		return err
	}
}
