package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/internal/service"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
	"github.com/noah-isme/previsa-console/pkg/response"
)

// ContextManagerKey is the gin context key storing the session claims.
const ContextManagerKey = "currentManager"

// LoginPath is where the console sends a caller without a live session.
const LoginPath = "/login"

type sessionValidator interface {
	Validate(ctx context.Context, token string) (*models.SessionClaims, error)
}

// Session protects routes by requiring a live manager session.
func Session(sessions sessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := service.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, appErrors.Clone(appErrors.ErrUnauthorized, "session required"))
			return
		}

		claims, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			if appErrors.FromError(err).Status == http.StatusUnauthorized {
				unauthorized(c, err)
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextManagerKey, claims)
		c.Next()
	}
}

// ManagerClaims returns the claims Session attached to the request.
func ManagerClaims(c *gin.Context) (*models.SessionClaims, bool) {
	value, exists := c.Get(ContextManagerKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.SessionClaims)
	return claims, ok && claims != nil
}

func unauthorized(c *gin.Context, err error) {
	response.ErrorWithMeta(c, err, map[string]interface{}{"redirect": LoginPath})
	c.Abort()
}
