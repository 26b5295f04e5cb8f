package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/dto"
	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/response"
)

type pendingOptions interface {
	Pending(ctx context.Context, managerID string, filter models.OptionFilter) ([]dto.PendingOptionRow, dto.ListStatus, error)
}

// OptionHandler serves the give-options queue.
type OptionHandler struct {
	service pendingOptions
}

// NewOptionHandler constructs the handler.
func NewOptionHandler(svc pendingOptions) *OptionHandler {
	return &OptionHandler{service: svc}
}

// Pending godoc
// @Summary Leads waiting for the signed-in manager to attach a job
// @Tags Options
// @Produce json
// @Param search query string false "Lead name, requester or message"
// @Success 200 {object} response.Envelope
// @Router /options/pending [get]
func (h *OptionHandler) Pending(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	rows, status, err := h.service.Pending(c.Request.Context(), id, models.OptionFilter{Search: c.Query("search")})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetListStatus(c, status)
	respond(c, http.StatusOK, rows, nil)
}
