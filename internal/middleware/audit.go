package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/models"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Audit records an audit log entry after each successful request. A nil recorder disables it.
func Audit(recorder AuditRecorder, metrics queryObserver, logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		var managerID *string
		if claims, ok := ManagerClaims(c); ok {
			managerID = &claims.ManagerID
		}
		var resourceID *string
		if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		writeStart := time.Now()
		err := recorder.Create(c.Request.Context(), &models.AuditLog{
			ManagerID:  managerID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		})
		if metrics != nil {
			metrics.ObserveDBQuery("audit_logs.enqueue", time.Since(writeStart))
		}
		if err != nil {
			logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
		}
	}
}
