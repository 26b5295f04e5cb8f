package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/internal/service"
	"github.com/noah-isme/previsa-console/pkg/response"
)

type jobService interface {
	List(ctx context.Context) ([]dto.JobRow, dto.ListStatus, error)
	Assignable(ctx context.Context, managerID string) ([]dto.AssignableJob, error)
	Create(ctx context.Context, req models.JobRequest) (*dto.Mutation[dto.JobRow], error)
	Update(ctx context.Context, id string, req models.JobRequest) (*dto.Mutation[dto.JobRow], error)
	Delete(ctx context.Context, id string, confirmed bool) (*dto.Mutation[dto.JobRow], error)
}

type jobExporter interface {
	Jobs(ctx context.Context, format string) (*service.ExportResult, error)
}

// JobHandler exposes the job grid, its export and the option dialog's job picker.
type JobHandler struct {
	service  jobService
	exporter jobExporter
}

// NewJobHandler constructs the handler.
func NewJobHandler(svc jobService, exporter jobExporter) *JobHandler {
	return &JobHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List jobs
// @Description Charges are pre-formatted with two decimals
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	rows, status, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetListStatus(c, status)
	respond(c, http.StatusOK, rows, nil)
}

// Assignable godoc
// @Summary Jobs the signed-in manager may attach to an option
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /jobs/assignable [get]
func (h *JobHandler) Assignable(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	items, err := h.service.Assignable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Export the job grid
// @Tags Jobs
// @Produce octet-stream
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} binary
// @Router /jobs/export [get]
func (h *JobHandler) Export(c *gin.Context) {
	result, err := h.exporter.Jobs(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDownload(c, result)
}

// Create godoc
// @Summary Add a job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body models.JobRequest true "Job payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req models.JobRequest
	if !bindJSON(c, &req, "invalid job payload") {
		return
	}
	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusCreated, result, nil)
}

// Update godoc
// @Summary Edit a job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param payload body models.JobRequest true "Job payload"
// @Success 200 {object} response.Envelope
// @Router /jobs/{id} [put]
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.JobRequest
	if !bindJSON(c, &req, "invalid job payload") {
		return
	}
	result, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Param confirm query bool true "Confirm deletion"
// @Success 200 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.service.Delete(c.Request.Context(), id, confirmed(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, result, nil)
}
