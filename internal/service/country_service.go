package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type countryRepository interface {
	List(ctx context.Context) ([]models.Country, error)
	Create(ctx context.Context, req models.CountryRequest) error
	Update(ctx context.Context, id string, req models.CountryRequest) error
	Delete(ctx context.Context, id string) error
}

// CountryService manages the country reference data.
type CountryService struct {
	repo      countryRepository
	snapshots *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCountryService constructs a CountryService.
func NewCountryService(repo countryRepository, snapshots *CacheService, validate *validator.Validate, logger *zap.Logger) *CountryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CountryService{repo: repo, snapshots: snapshots, validator: validate, logger: logger}
}

// List returns all countries. A backend failure yields the last good list marked stale.
func (s *CountryService) List(ctx context.Context) ([]models.Country, dto.ListStatus, error) {
	countries, stale, err := fetchWithSnapshot(ctx, s.snapshots, snapshotCountries, s.repo.List)
	if err != nil {
		s.logger.Warn("serving stale countries", zap.Error(err))
	}
	status := dto.ListStatus{Stale: stale}
	if stale {
		status.Notice = "Error fetching countries"
	}
	return countries, status, nil
}

// Create adds a country and returns the refreshed list.
func (s *CountryService) Create(ctx context.Context, req models.CountryRequest) (*dto.Mutation[models.Country], error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Country added successfully")
}

// Update renames a country and returns the refreshed list.
func (s *CountryService) Update(ctx context.Context, id string, req models.CountryRequest) (*dto.Mutation[models.Country], error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "country id is required")
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Country updated successfully")
}

// Delete removes a country once the caller has confirmed, then returns the refreshed list.
func (s *CountryService) Delete(ctx context.Context, id string, confirmed bool) (*dto.Mutation[models.Country], error) {
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "Are you sure you want to delete this country?")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.refreshed(ctx, "Country deleted successfully")
}

func (s *CountryService) validate(req *models.CountryRequest) error {
	trimmed(&req.CountryName)
	return validatePayload(s.validator, req, "invalid country", countryMessages)
}

func (s *CountryService) refreshed(ctx context.Context, message string) (*dto.Mutation[models.Country], error) {
	countries, _, _ := s.List(ctx)
	return &dto.Mutation[models.Country]{Message: message, Items: countries}, nil
}
