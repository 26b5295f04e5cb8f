package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
)

// Backend is the subset of *backend.Client the gateways depend on.
type Backend interface {
	Do(ctx context.Context, req backend.Request, dest interface{}) error
}

// CountryRepository talks to the backend country endpoints.
type CountryRepository struct {
	client Backend
}

// NewCountryRepository constructs a country gateway.
func NewCountryRepository(client Backend) *CountryRepository {
	return &CountryRepository{client: client}
}

// List returns every country.
func (r *CountryRepository) List(ctx context.Context) ([]models.Country, error) {
	var payload listPayload[backendCountry]
	if err := r.client.Do(ctx, backend.Request{Operation: "countries.list", Method: http.MethodGet, Path: "/api/countries"}, &payload); err != nil {
		return nil, err
	}
	countries := make([]models.Country, 0, len(payload.Items))
	for _, c := range payload.Items {
		countries = append(countries, c.toModel())
	}
	return countries, nil
}

// Create adds a country.
func (r *CountryRepository) Create(ctx context.Context, req models.CountryRequest) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "countries.create",
		Method:    http.MethodPost,
		Path:      "/api/countries",
		Body:      req,
	}, nil)
}

// Update renames a country.
func (r *CountryRepository) Update(ctx context.Context, id string, req models.CountryRequest) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "countries.update",
		Method:    http.MethodPut,
		Path:      "/api/countries/" + backend.Segment(id),
		Body:      req,
	}, nil)
}

// Delete removes a country.
func (r *CountryRepository) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, backend.Request{
		Operation: "countries.delete",
		Method:    http.MethodDelete,
		Path:      "/api/countries/" + backend.Segment(id),
	}, nil)
}
