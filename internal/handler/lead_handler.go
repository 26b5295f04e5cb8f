package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/lifecycle"
	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/internal/service"
	"github.com/noah-isme/previsa-console/pkg/response"
)

// LeadListPath is the console view shown after a lead leaves this manager's queue.
const LeadListPath = "/verify-leads"

type leadService interface {
	List(ctx context.Context, managerID string, filter models.LeadFilter) ([]dto.LeadRow, *models.Pagination, dto.ListStatus, error)
	Detail(ctx context.Context, leadID string) (*dto.LeadDetail, error)
	FinalVisaManagers(ctx context.Context, search string) ([]models.Manager, error)
	SubmitOption(ctx context.Context, managerID, leadID string, req models.SubmitOptionRequest) (*dto.LeadAction, error)
	Transfer(ctx context.Context, managerID, leadID string, req models.TransferRequest) (*dto.LeadAction, error)
	Reject(ctx context.Context, managerID, leadID string, confirmed bool) (*dto.LeadAction, error)
}

type optionHistory interface {
	History(ctx context.Context, leadID string) ([]lifecycle.OptionEntry, error)
}

type leadExporter interface {
	LeadPDF(ctx context.Context, leadID string) (*service.ExportResult, error)
}

// LeadHandler serves the verify-leads list, the lead detail view and its actions.
type LeadHandler struct {
	service  leadService
	options  optionHistory
	exporter leadExporter
}

// NewLeadHandler constructs the handler.
func NewLeadHandler(svc leadService, options optionHistory, exporter leadExporter) *LeadHandler {
	return &LeadHandler{service: svc, options: options, exporter: exporter}
}

// List godoc
// @Summary Leads handled by the signed-in manager
// @Tags Leads
// @Produce json
// @Param search query string false "Name or contact number"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} response.Envelope
// @Router /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	filter := models.LeadFilter{
		Search:   c.Query("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "limit"),
	}
	rows, pagination, status, err := h.service.List(c.Request.Context(), id, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetListStatus(c, status)
	respond(c, http.StatusOK, rows, pagination)
}

// Detail godoc
// @Summary Lead detail with its lifecycle
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leads/{id} [get]
func (h *LeadHandler) Detail(c *gin.Context) {
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), leadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, detail, nil)
}

// PDF godoc
// @Summary Print-out of a lead
// @Tags Leads
// @Produce application/pdf
// @Param id path string true "Lead ID"
// @Success 200 {file} binary
// @Router /leads/{id}/pdf [get]
func (h *LeadHandler) PDF(c *gin.Context) {
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.exporter.LeadPDF(c.Request.Context(), leadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDownload(c, result)
}

// Options godoc
// @Summary Option history of a lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Envelope
// @Router /leads/{id}/options [get]
func (h *LeadHandler) Options(c *gin.Context) {
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.options.History(c.Request.Context(), leadID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, entries, nil)
}

// SubmitOption godoc
// @Summary Answer the open option with a job
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body models.SubmitOptionRequest true "Option answer"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leads/{id}/options [post]
func (h *LeadHandler) SubmitOption(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.SubmitOptionRequest
	if !bindJSON(c, &req, "invalid option payload") {
		return
	}
	result, err := h.service.SubmitOption(c.Request.Context(), id, leadID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result, nil)
}

// Transfer godoc
// @Summary Transfer a lead to a Final Visa manager
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param payload body models.TransferRequest true "Transfer target"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leads/{id}/transfer [post]
func (h *LeadHandler) Transfer(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.TransferRequest
	if !bindJSON(c, &req, "invalid transfer payload") {
		return
	}
	result, err := h.service.Transfer(c.Request.Context(), id, leadID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result, nil)
}

// Reject godoc
// @Summary Reject a lead
// @Description Requires confirm=true. On success the console returns to the lead list.
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Param confirm query bool true "Confirm rejection"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /leads/{id}/reject [post]
func (h *LeadHandler) Reject(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Reject(c.Request.Context(), id, leadID, confirmed(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetRedirect(c, LeadListPath)
	respond(c, http.StatusOK, result, nil)
}

// FinalVisaManagers godoc
// @Summary Transfer targets
// @Tags Leads
// @Produce json
// @Param search query string false "Name filter"
// @Success 200 {object} response.Envelope
// @Router /final-visa-managers [get]
func (h *LeadHandler) FinalVisaManagers(c *gin.Context) {
	managers, err := h.service.FinalVisaManagers(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, managers, nil)
}
