package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
)

type optionUpdatePayload struct {
	Options         string `json:"options"`
	ResponseMessage string `json:"responseMessage"`
}

// OptionRepository talks to the backend option endpoints.
type OptionRepository struct {
	client Backend
}

// NewOptionRepository constructs an option gateway.
func NewOptionRepository(client Backend) *OptionRepository {
	return &OptionRepository{client: client}
}

// ForManager returns every option requested to managerID, answered or not.
func (r *OptionRepository) ForManager(ctx context.Context, managerID string) ([]models.Option, error) {
	return r.list(ctx, "options.for_manager", "/api/options/requestedTo/"+backend.Segment(managerID))
}

// ForLead returns the option history of a lead, oldest first.
func (r *OptionRepository) ForLead(ctx context.Context, leadID string) ([]models.Option, error) {
	return r.list(ctx, "options.for_lead", "/api/options/optionGet/"+backend.Segment(leadID))
}

func (r *OptionRepository) list(ctx context.Context, operation, path string) ([]models.Option, error) {
	var payload listPayload[backendOption]
	if err := r.client.Do(ctx, backend.Request{Operation: operation, Method: http.MethodGet, Path: path}, &payload); err != nil {
		return nil, err
	}
	options := make([]models.Option, 0, len(payload.Items))
	for _, o := range payload.Items {
		options = append(options, o.toModel())
	}
	return options, nil
}

// Update answers an option with a job.
func (r *OptionRepository) Update(ctx context.Context, optionID, jobID, responseMessage string) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "options.update",
		Method:    http.MethodPut,
		Path:      "/api/options/update/" + backend.Segment(optionID),
		Body:      optionUpdatePayload{Options: jobID, ResponseMessage: responseMessage},
	}, nil)
}
