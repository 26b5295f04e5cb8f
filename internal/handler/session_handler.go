package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Current(ctx context.Context, claims *models.SessionClaims) (*models.Session, error)
	Logout(ctx context.Context, managerID string, confirmed bool, meta models.LoginRequest) error
}

// SessionHandler wires HTTP endpoints to the session service.
type SessionHandler struct {
	service sessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc sessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Login godoc
// @Summary Open a console session
// @Description Sign in as a Pre-Visa manager
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "invalid login payload") {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, res, nil)
}

// Current godoc
// @Summary Current session
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	if _, ok := managerID(c); !ok {
		return
	}
	session, err := h.service.Current(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, http.StatusOK, session, nil)
}

// Logout godoc
// @Summary End the console session
// @Description Clears every stored session of the manager. Requires confirm=true.
// @Tags Session
// @Produce json
// @Param confirm query bool true "Confirm logout"
// @Success 204 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	id, ok := managerID(c)
	if !ok {
		return
	}
	meta := models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if err := h.service.Logout(c.Request.Context(), id, confirmed(c), meta); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
