package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/backend"
	"github.com/noah-isme/previsa-console/pkg/config"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type recordedCall struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func newFakeBackend(t *testing.T, routes map[string]string) (*backend.Client, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.body)
		}
		*calls = append(*calls, call)

		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no route"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return backend.NewClient(config.BackendConfig{BaseURL: srv.URL}, nil), calls
}

func TestCountryRepositoryRoundTrip(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{
		"GET /api/countries":       `{"data":[{"_id":"c1","countryName":"Qatar","createdAt":"2024-01-02T03:04:05Z"}]}`,
		"POST /api/countries":      `{"_id":"c2"}`,
		"DELETE /api/countries/c1": `{"message":"deleted"}`,
	})
	repo := NewCountryRepository(client)
	ctx := context.Background()

	countries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "c1", countries[0].ID)
	assert.Equal(t, 2024, countries[0].CreatedAt.Year())

	require.NoError(t, repo.Create(ctx, models.CountryRequest{CountryName: "Oman"}))
	require.NoError(t, repo.Delete(ctx, "c1"))

	require.Len(t, *calls, 3)
	assert.Equal(t, "Oman", (*calls)[1].body["countryName"])
}

func TestJobRepositoryCreateSendsBackendFieldNames(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{"POST /api/jobs": `{}`})
	repo := NewJobRepository(client)

	service, admin := 500.0, 200.0
	err := repo.Create(context.Background(), models.JobRequest{
		JobTitle:      " Welder ",
		WorkTime:      "  8 hours ",
		ServiceCharge: &service,
		AdminCharge:   &admin,
		Country:       "c1",
	})
	require.NoError(t, err)

	body := (*calls)[0].body
	assert.Equal(t, "Welder", body["jobTitle"])
	assert.Equal(t, "8 hours", body["WorkTime"])
	assert.Equal(t, 500.0, body["serviceCharge"])
	assert.Equal(t, "c1", body["country"])
	_, hasSalary := body["salary"]
	assert.False(t, hasSalary)
}

func TestJobRepositoryListForManager(t *testing.T) {
	client, _ := newFakeBackend(t, map[string]string{
		"GET /api/jobs/job/m1": `{"data":[{"_id":"j1","jobTitle":"Welder","country":{"_id":"c1","countryName":"Qatar"},"serviceCharge":500,"adminCharge":200}]}`,
	})
	jobs, err := NewJobRepository(client).ListForManager(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Qatar", jobs[0].CountryName())
}

func TestOptionRepositoryUpdate(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{"PUT /api/options/update/o1": `{"message":"ok"}`})
	require.NoError(t, NewOptionRepository(client).Update(context.Background(), "o1", "j1", "Offer sent"))
	assert.Equal(t, "j1", (*calls)[0].body["options"])
	assert.Equal(t, "Offer sent", (*calls)[0].body["responseMessage"])
}

func TestLeadRepositoryTransfer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, calls := newFakeBackend(t, map[string]string{
			"PUT /api/client-form/transfer-to-finalvisa": `{"success":true,"message":"Transferred"}`,
		})
		msg, err := NewLeadRepository(client).Transfer(context.Background(), "l1", "m0", "f1")
		require.NoError(t, err)
		assert.Equal(t, "Transferred", msg)
		body := (*calls)[0].body
		assert.Equal(t, "l1", body["clientFormId"])
		assert.Equal(t, "m0", body["preVisaManagerId"])
		assert.Equal(t, "f1", body["finalVisaManagerId"])
	})

	t.Run("declined", func(t *testing.T) {
		client, _ := newFakeBackend(t, map[string]string{
			"PUT /api/client-form/transfer-to-finalvisa": `{"success":false,"message":"Already transferred"}`,
		})
		_, err := NewLeadRepository(client).Transfer(context.Background(), "l1", "m0", "f1")
		require.Error(t, err)
		assert.Equal(t, "Already transferred", appErrors.FromError(err).Message)
	})
}

func TestLeadRepositoryGetAndList(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{
		"GET /api/client-form/getbyId/l1":        `{"_id":"l1","fullName":"Asha Rao"}`,
		"GET /api/client-form/get-by-previsa/m0": `{"data":[{"_id":"l1","fullName":"Asha Rao"},{"_id":"l2","fullName":"Imran"}]}`,
		"PUT /api/client-form/reject/l1":         `{"message":"Form rejected"}`,
	})
	repo := NewLeadRepository(client)
	ctx := context.Background()

	lead, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", lead.FullName)

	leads, err := repo.ListForManager(ctx, "m0", "asha")
	require.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, "search=asha", (*calls)[1].query)

	msg, err := repo.Reject(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Form rejected", msg)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestManagerRepositoryFinalVisaManagers(t *testing.T) {
	client, calls := newFakeBackend(t, map[string]string{
		"GET /api/final-visa/": `[{"_id":"f1","name":"Meera"},{"_id":"f2","name":"John"}]`,
	})
	managers, err := NewManagerRepository(client).FinalVisaManagers(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, managers, 2)
	assert.Equal(t, models.Manager{ID: "f1", Name: "Meera"}, managers[0])
	assert.Equal(t, "search=me", (*calls)[0].query)
}
