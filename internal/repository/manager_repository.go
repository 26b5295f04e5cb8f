package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
)

// ManagerRepository looks up Final Visa managers.
type ManagerRepository struct {
	client Backend
}

// NewManagerRepository constructs a manager gateway.
func NewManagerRepository(client Backend) *ManagerRepository {
	return &ManagerRepository{client: client}
}

// FinalVisaManagers lists Final Visa managers matching search.
func (r *ManagerRepository) FinalVisaManagers(ctx context.Context, search string) ([]models.Manager, error) {
	var payload listPayload[backendManager]
	if err := r.client.Do(ctx, backend.Request{
		Operation: "managers.final_visa",
		Method:    http.MethodGet,
		Path:      "/api/final-visa/",
		Query:     backend.SearchQuery(search),
	}, &payload); err != nil {
		return nil, err
	}
	managers := make([]models.Manager, 0, len(payload.Items))
	for _, m := range payload.Items {
		managers = append(managers, models.Manager{ID: m.ID, Name: m.Name})
	}
	return managers, nil
}
