package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/lifecycle"
	"github.com/noah-isme/previsa-console/internal/models"
)

type optionRepository interface {
	ForManager(ctx context.Context, managerID string) ([]models.Option, error)
	ForLead(ctx context.Context, leadID string) ([]models.Option, error)
	Update(ctx context.Context, optionID, jobID, responseMessage string) error
}

// OptionService serves the pending-options list and option histories.
type OptionService struct {
	repo      optionRepository
	snapshots *CacheService
	logger    *zap.Logger
}

// NewOptionService constructs an OptionService.
func NewOptionService(repo optionRepository, snapshots *CacheService, logger *zap.Logger) *OptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionService{repo: repo, snapshots: snapshots, logger: logger}
}

// Pending lists the unanswered options requested to managerID, optionally narrowed by a search
// over lead name, requester name and request message.
func (s *OptionService) Pending(ctx context.Context, managerID string, filter models.OptionFilter) ([]dto.PendingOptionRow, dto.ListStatus, error) {
	pending, stale, err := fetchWithSnapshot(ctx, s.snapshots, snapshotPendingKey(managerID), func(ctx context.Context) ([]models.Option, error) {
		options, err := s.repo.ForManager(ctx, managerID)
		if err != nil {
			return nil, err
		}
		return lifecycle.PendingFor(managerID, options), nil
	})
	if err != nil {
		s.logger.Warn("serving stale pending options", zap.String("manager_id", managerID), zap.Error(err))
	}

	status := dto.ListStatus{Stale: stale}
	if stale {
		status.Notice = "Failed to fetch pending leads"
	}

	term := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := make([]dto.PendingOptionRow, 0, len(pending))
	for _, opt := range pending {
		if term != "" && !matchesPending(opt, term) {
			continue
		}
		rows = append(rows, dto.NewPendingOptionRow(opt))
	}
	return rows, status, nil
}

// History returns every option of a lead in backend order.
func (s *OptionService) History(ctx context.Context, leadID string) ([]lifecycle.OptionEntry, error) {
	options, err := s.repo.ForLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	return lifecycle.Derive(models.Lead{ID: leadID}, options).Options, nil
}

func matchesPending(opt models.Option, term string) bool {
	return strings.Contains(strings.ToLower(opt.Lead.FullName), term) ||
		strings.Contains(strings.ToLower(opt.RequestedBy.Name), term) ||
		strings.Contains(strings.ToLower(opt.RequestMessage), term)
}
