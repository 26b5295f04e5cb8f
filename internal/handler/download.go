package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/previsa-console/internal/service"
)

// staleHeader flags a download rendered from the last good snapshot.
const staleHeader = "X-Data-Stale"

func sendDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	if result.Stale {
		c.Header(staleHeader, "true")
	}
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
