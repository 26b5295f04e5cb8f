package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
	"github.com/noah-isme/previsa-console/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	claims, ok := middleware.ManagerClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// managerID returns the signed-in manager or answers 401 with a redirect to the login view.
func managerID(c *gin.Context) (string, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.ManagerID == "" {
		response.ErrorWithMeta(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"), map[string]interface{}{"redirect": middleware.LoginPath})
		return "", false
	}
	return claims.ManagerID, true
}

func pathID(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return "", false
	}
	return id, true
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return v
}

func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func respond(c *gin.Context, status int, data interface{}, pagination *models.Pagination) {
	response.JSON(c, status, data, pagination, middleware.ExtractMeta(c))
}
