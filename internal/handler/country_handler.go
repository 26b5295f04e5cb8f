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

type countryService interface {
	List(ctx context.Context) ([]models.Country, dto.ListStatus, error)
	Create(ctx context.Context, req models.CountryRequest) (*dto.Mutation[models.Country], error)
	Update(ctx context.Context, id string, req models.CountryRequest) (*dto.Mutation[models.Country], error)
	Delete(ctx context.Context, id string, confirmed bool) (*dto.Mutation[models.Country], error)
}

// CountryHandler exposes country reference data.
type CountryHandler struct {
	service countryService
}

// NewCountryHandler constructs the handler.
func NewCountryHandler(svc countryService) *CountryHandler {
	return &CountryHandler{service: svc}
}

// List godoc
// @Summary List countries
// @Tags Countries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /countries [get]
func (h *CountryHandler) List(c *gin.Context) {
	countries, status, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetListStatus(c, status)
	respond(c, http.StatusOK, countries, nil)
}

// Create godoc
// @Summary Add a country
// @Tags Countries
// @Accept json
// @Produce json
// @Param payload body models.CountryRequest true "Country payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /countries [post]
func (h *CountryHandler) Create(c *gin.Context) {
	var req models.CountryRequest
	if !bindJSON(c, &req, "invalid country payload") {
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
// @Summary Rename a country
// @Tags Countries
// @Accept json
// @Produce json
// @Param id path string true "Country ID"
// @Param payload body models.CountryRequest true "Country payload"
// @Success 200 {object} response.Envelope
// @Router /countries/{id} [put]
func (h *CountryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CountryRequest
	if !bindJSON(c, &req, "invalid country payload") {
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
// @Summary Delete a country
// @Tags Countries
// @Produce json
// @Param id path string true "Country ID"
// @Param confirm query bool true "Confirm deletion"
// @Success 200 {object} response.Envelope
// @Failure 428 {object} response.Envelope
// @Router /countries/{id} [delete]
func (h *CountryHandler) Delete(c *gin.Context) {
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
