package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

func TestCountryServiceCreateValidatesBeforeCalling(t *testing.T) {
	repo := &countryRepoMock{}
	svc := NewCountryService(repo, newTestSnapshots(), nil, nil)

	_, err := svc.Create(context.Background(), models.CountryRequest{CountryName: "   "})
	require.Error(t, err)
	apiErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
	assert.Equal(t, "Country name is required", apiErr.Fields["countryName"])
	assert.Zero(t, repo.calls)
}

func TestCountryServiceCreateThenListIncludesCountry(t *testing.T) {
	repo := &countryRepoMock{}
	svc := NewCountryService(repo, newTestSnapshots(), nil, nil)
	ctx := context.Background()

	result, err := svc.Create(ctx, models.CountryRequest{CountryName: " Oman "})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Oman", result.Items[0].CountryName)
	assert.NotEmpty(t, result.Items[0].ID)
	assert.False(t, result.Items[0].CreatedAt.IsZero())
	assert.Equal(t, "Oman", repo.created[0].CountryName)

	result, err = svc.Delete(ctx, result.Items[0].ID, true)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestCountryServiceDeleteNeedsConfirmation(t *testing.T) {
	repo := &countryRepoMock{countries: []models.Country{{ID: "c1"}}}
	svc := NewCountryService(repo, newTestSnapshots(), nil, nil)

	_, err := svc.Delete(context.Background(), "c1", false)
	require.Error(t, err)
	assert.Equal(t, http.StatusPreconditionRequired, appErrors.FromError(err).Status)
	assert.Zero(t, repo.calls)
}

func TestCountryServiceListServesLastGoodSnapshot(t *testing.T) {
	repo := &countryRepoMock{countries: []models.Country{{ID: "c1", CountryName: "Qatar"}}}
	svc := NewCountryService(repo, newTestSnapshots(), nil, nil)
	ctx := context.Background()

	countries, status, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.False(t, status.Stale)

	repo.listErr = errors.New("connection refused")
	countries, status, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.True(t, status.Stale)
	assert.Equal(t, "Error fetching countries", status.Notice)
}

func TestCountryServiceListWithoutSnapshotIsEmpty(t *testing.T) {
	repo := &countryRepoMock{listErr: errors.New("down")}
	svc := NewCountryService(repo, newTestSnapshots(), nil, nil)

	countries, status, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, countries)
	assert.Empty(t, countries)
	assert.True(t, status.Stale)
}
