package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
	"github.com/noah-isme/previsa-console/pkg/response"
)

type stubValidator struct {
	claims *models.SessionClaims
	err    error
	token  string
}

func (s *stubValidator) Validate(_ context.Context, token string) (*models.SessionClaims, error) {
	s.token = token
	return s.claims, s.err
}

type envelope struct {
	Data  map[string]interface{} `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		header    string
		validator *stubValidator
		status    int
	}{
		{name: "missing header", validator: &stubValidator{}, status: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", validator: &stubValidator{}, status: http.StatusUnauthorized},
		{name: "ended session", header: "Bearer abc", validator: &stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")}, status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer abc", validator: &stubValidator{claims: &models.SessionClaims{ManagerID: "m1"}}, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Session(tc.validator))
			router.GET("/me", func(c *gin.Context) {
				claims, ok := ManagerClaims(c)
				require.True(t, ok)
				response.JSON(c, http.StatusOK, gin.H{"managerId": claims.ManagerID}, nil)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			env := decode(t, rec)
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, LoginPath, env.Meta["redirect"])
				assert.Equal(t, appErrors.ErrUnauthorized.Code, env.Error.Code)
				return
			}
			assert.Equal(t, "abc", tc.validator.token)
			assert.Equal(t, "m1", env.Data["managerId"])
		})
	}
}

func TestSessionMiddlewareStoreFailureKeepsCallerOnPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &stubValidator{err: appErrors.Wrap(errors.New("dial tcp: connection refused"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")}

	reached := false
	router := gin.New()
	router.Use(Session(validator))
	router.GET("/me", func(c *gin.Context) { reached = true })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	router.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrInternal.Code, env.Error.Code)
	assert.NotContains(t, env.Meta, "redirect")
}

func TestResponseMetaCarriesListStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/countries", func(c *gin.Context) {
		SetListStatus(c, dto.ListStatus{Stale: true, Notice: "Error fetching countries"})
		response.JSON(c, http.StatusOK, []string{}, nil, ExtractMeta(c))
	})
	router.GET("/fresh", func(c *gin.Context) {
		SetListStatus(c, dto.ListStatus{})
		SetRedirect(c, "/verify-leads")
		response.JSON(c, http.StatusOK, nil, nil, ExtractMeta(c))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/countries", nil))
	env := decode(t, rec)
	assert.Equal(t, true, env.Meta["stale"])
	assert.Equal(t, "Error fetching countries", env.Meta["notice"])
	assert.Contains(t, env.Meta, "processing_time_ms")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fresh", nil))
	env = decode(t, rec)
	assert.NotContains(t, env.Meta, "stale")
	assert.Equal(t, "/verify-leads", env.Meta["redirect"])
}

type recordingAudit struct {
	entries []models.AuditLog
	err     error
}

func (r *recordingAudit) Create(_ context.Context, log *models.AuditLog) error {
	r.entries = append(r.entries, *log)
	return r.err
}

type recordingQueries struct {
	labels []string
}

func (r *recordingQueries) ObserveDBQuery(label string, _ time.Duration) {
	r.labels = append(r.labels, label)
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &recordingAudit{}
	queries := &recordingQueries{}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextManagerKey, &models.SessionClaims{ManagerID: "m1"})
	})
	router.POST("/leads/:id/transfer", Audit(recorder, queries, nil, models.AuditActionLeadTransfer, "lead"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.POST("/leads/:id/reject", Audit(recorder, queries, nil, models.AuditActionLeadReject, "lead"), func(c *gin.Context) {
		c.Status(http.StatusConflict)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/l1/transfer", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/leads/l1/reject", nil))

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, models.AuditActionLeadTransfer, entry.Action)
	require.NotNil(t, entry.ManagerID)
	assert.Equal(t, "m1", *entry.ManagerID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "l1", *entry.ResourceID)
	assert.Equal(t, []string{"audit_logs.enqueue"}, queries.labels)
}

func TestAuditToleratesRecorderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/countries/:id", Audit(&recordingAudit{err: errors.New("db down")}, nil, nil, models.AuditActionCountryDelete, "country"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/countries/c1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
