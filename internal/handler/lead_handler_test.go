package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/lifecycle"
	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/internal/service"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type fakeLeadSrv struct {
	filter    models.LeadFilter
	search    string
	submitted models.SubmitOptionRequest
	transfer  models.TransferRequest
	rejectErr error
}

func (f *fakeLeadSrv) List(_ context.Context, managerID string, filter models.LeadFilter) ([]dto.LeadRow, *models.Pagination, dto.ListStatus, error) {
	f.filter = filter
	return []dto.LeadRow{{ID: "l1", FullName: "Ali"}}, &models.Pagination{Page: 1, PageSize: 10, TotalCount: 1}, dto.ListStatus{}, nil
}

func (f *fakeLeadSrv) Detail(_ context.Context, leadID string) (*dto.LeadDetail, error) {
	if leadID != "l1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Form not found")
	}
	lead := models.Lead{ID: "l1"}
	return &dto.LeadDetail{Lead: lead, Lifecycle: lifecycle.Derive(lead, nil)}, nil
}

func (f *fakeLeadSrv) FinalVisaManagers(_ context.Context, search string) ([]models.Manager, error) {
	f.search = search
	return []models.Manager{{ID: "fv1", Name: "Farah"}}, nil
}

func (f *fakeLeadSrv) SubmitOption(_ context.Context, managerID, leadID string, req models.SubmitOptionRequest) (*dto.LeadAction, error) {
	f.submitted = req
	if req.JobID == "" {
		return nil, appErrors.Clone(appErrors.ErrPrecondition, "Please select a job first")
	}
	return &dto.LeadAction{Message: "Option for Welder in Qatar submitted successfully!"}, nil
}

func (f *fakeLeadSrv) Transfer(_ context.Context, managerID, leadID string, req models.TransferRequest) (*dto.LeadAction, error) {
	f.transfer = req
	return nil, appErrors.ErrRequestInFlight
}

func (f *fakeLeadSrv) Reject(_ context.Context, managerID, leadID string, confirmed bool) (*dto.LeadAction, error) {
	if f.rejectErr != nil {
		return nil, f.rejectErr
	}
	if !confirmed {
		return nil, appErrors.Clone(appErrors.ErrConfirmationRequired, "This form will be marked as rejected!")
	}
	return &dto.LeadAction{Message: "Form rejected successfully"}, nil
}

type fakeHistory struct{}

func (fakeHistory) History(_ context.Context, leadID string) ([]lifecycle.OptionEntry, error) {
	return []lifecycle.OptionEntry{{Index: 1, Option: models.Option{ID: "o1"}}}, nil
}

type fakeLeadExporter struct{}

func (fakeLeadExporter) LeadPDF(_ context.Context, leadID string) (*service.ExportResult, error) {
	return &service.ExportResult{Filename: "client-form-" + leadID + ".pdf", ContentType: "application/pdf", Payload: []byte("%PDF-1.3")}, nil
}

func newLeadHandler(srv *fakeLeadSrv) *LeadHandler {
	return NewLeadHandler(srv, fakeHistory{}, fakeLeadExporter{})
}

func TestLeadHandlerListPassesFilter(t *testing.T) {
	srv := &fakeLeadSrv{}
	h := newLeadHandler(srv)

	c, rec := newContext(http.MethodGet, "/leads?search=ali&page=2&limit=25", nil)
	signIn(c, "m1")
	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LeadFilter{Search: "ali", Page: 2, PageSize: 25}, srv.filter)
	env := decodeEnvelope(t, rec, nil)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalCount)
}

func TestLeadHandlerListRequiresSession(t *testing.T) {
	h := newLeadHandler(&fakeLeadSrv{})
	c, rec := newContext(http.MethodGet, "/leads", nil)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/login", decodeEnvelope(t, rec, nil).Meta["redirect"])
}

func TestLeadHandlerDetail(t *testing.T) {
	h := newLeadHandler(&fakeLeadSrv{})

	c, rec := newContext(http.MethodGet, "/leads/l1", nil)
	withParam(c, "id", "l1")
	h.Detail(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	var detail dto.LeadDetail
	decodeEnvelope(t, rec, &detail)
	assert.Equal(t, lifecycle.StageNoOptions, detail.Lifecycle.Stage)

	c, rec = newContext(http.MethodGet, "/leads/nope", nil)
	withParam(c, "id", "nope")
	h.Detail(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadHandlerSubmitOption(t *testing.T) {
	srv := &fakeLeadSrv{}
	h := newLeadHandler(srv)

	c, rec := newContext(http.MethodPost, "/leads/l1/options", map[string]string{"jobId": "", "responseMessage": "hi"})
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.SubmitOption(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please select a job first", decodeEnvelope(t, rec, nil).Error.Message)

	c, rec = newContext(http.MethodPost, "/leads/l1/options", map[string]string{"jobId": "j1"})
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.SubmitOption(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "j1", srv.submitted.JobID)
}

func TestLeadHandlerTransferInFlight(t *testing.T) {
	srv := &fakeLeadSrv{}
	h := newLeadHandler(srv)

	c, rec := newContext(http.MethodPost, "/leads/l1/transfer", map[string]string{"finalVisaManagerId": "fv1"})
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.Transfer(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "fv1", srv.transfer.FinalVisaManagerID)
	assert.Equal(t, appErrors.ErrRequestInFlight.Code, decodeEnvelope(t, rec, nil).Error.Code)
}

func TestLeadHandlerRejectRedirectsToList(t *testing.T) {
	h := newLeadHandler(&fakeLeadSrv{})

	c, rec := newContext(http.MethodPost, "/leads/l1/reject", nil)
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.Reject(c)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	c, rec = newContext(http.MethodPost, "/leads/l1/reject?confirm=true", nil)
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.Reject(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	var action dto.LeadAction
	env := decodeEnvelope(t, rec, &action)
	assert.Equal(t, "Form rejected successfully", action.Message)
	assert.Equal(t, LeadListPath, env.Meta["redirect"])
}

func TestLeadHandlerRejectConflictHasNoRedirect(t *testing.T) {
	h := newLeadHandler(&fakeLeadSrv{rejectErr: appErrors.Clone(appErrors.ErrConflict, lifecycle.TransferredBanner)})

	c, rec := newContext(http.MethodPost, "/leads/l1/reject?confirm=true", nil)
	signIn(c, "m1")
	withParam(c, "id", "l1")
	h.Reject(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.NotContains(t, env.Meta, "redirect")
	assert.Equal(t, lifecycle.TransferredBanner, env.Error.Message)
}

func TestLeadHandlerOptionsAndPDF(t *testing.T) {
	h := newLeadHandler(&fakeLeadSrv{})

	c, rec := newContext(http.MethodGet, "/leads/l1/options", nil)
	withParam(c, "id", "l1")
	h.Options(c)
	var entries []lifecycle.OptionEntry
	decodeEnvelope(t, rec, &entries)
	require.Len(t, entries, 1)

	c, rec = newContext(http.MethodGet, "/leads/l1/pdf", nil)
	withParam(c, "id", "l1")
	h.PDF(c)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "client-form-l1.pdf")
}

func TestLeadHandlerFinalVisaManagers(t *testing.T) {
	srv := &fakeLeadSrv{}
	h := newLeadHandler(srv)

	c, rec := newContext(http.MethodGet, "/final-visa-managers?search=%20far%20", nil)
	h.FinalVisaManagers(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "far", srv.search)
	var managers []models.Manager
	decodeEnvelope(t, rec, &managers)
	assert.Equal(t, "Farah", managers[0].Name)
}

type fakePending struct {
	search string
}

func (f *fakePending) Pending(_ context.Context, managerID string, filter models.OptionFilter) ([]dto.PendingOptionRow, dto.ListStatus, error) {
	f.search = filter.Search
	return []dto.PendingOptionRow{}, dto.ListStatus{Stale: true, Notice: "Failed to fetch pending leads"}, nil
}

func TestOptionHandlerPending(t *testing.T) {
	srv := &fakePending{}
	h := NewOptionHandler(srv)

	c, rec := newContext(http.MethodGet, "/options/pending?search=ravi", nil)
	signIn(c, "m1")
	h.Pending(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ravi", srv.search)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Failed to fetch pending leads", env.Meta["notice"])
}

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"redis": func(context.Context) error { return nil },
		"audit": func(context.Context) error { return appErrors.ErrBackendUnavailable },
	})

	c, rec := newContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)

	h = NewMetricsHandler(nil, nil)
	c, rec = newContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
