package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/handler"
	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/internal/service"
)

type routeDeps struct {
	prefix   string
	docs     bool
	metrics  *handler.MetricsHandler
	sessions *service.SessionService
	session  *handler.SessionHandler
	country  *handler.CountryHandler
	job      *handler.JobHandler
	lead     *handler.LeadHandler
	option   *handler.OptionHandler
	audit    middleware.AuditRecorder
	queries  *service.MetricsService
	logger   *zap.Logger
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.metrics.Health)
	r.GET("/ready", d.metrics.Ready)
	r.GET("/metrics", d.metrics.Prometheus)
	if d.docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := d.prefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	audited := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(d.audit, d.queries, d.logger, action, resource)
	}

	api.POST("/session", d.session.Login)

	secured := api.Group("")
	secured.Use(middleware.Session(d.sessions))

	secured.GET("/session", d.session.Current)
	secured.DELETE("/session", d.session.Logout)

	secured.GET("/countries", d.country.List)
	secured.POST("/countries", audited(models.AuditActionCountryCreate, "country"), d.country.Create)
	secured.PUT("/countries/:id", audited(models.AuditActionCountryUpdate, "country"), d.country.Update)
	secured.DELETE("/countries/:id", audited(models.AuditActionCountryDelete, "country"), d.country.Delete)

	secured.GET("/jobs", d.job.List)
	secured.GET("/jobs/export", d.job.Export)
	secured.GET("/jobs/assignable", d.job.Assignable)
	secured.POST("/jobs", audited(models.AuditActionJobCreate, "job"), d.job.Create)
	secured.PUT("/jobs/:id", audited(models.AuditActionJobUpdate, "job"), d.job.Update)
	secured.DELETE("/jobs/:id", audited(models.AuditActionJobDelete, "job"), d.job.Delete)

	secured.GET("/leads", d.lead.List)
	secured.GET("/leads/:id", d.lead.Detail)
	secured.GET("/leads/:id/pdf", d.lead.PDF)
	secured.GET("/leads/:id/options", d.lead.Options)
	secured.POST("/leads/:id/options", audited(models.AuditActionOptionSubmit, "lead"), d.lead.SubmitOption)
	secured.POST("/leads/:id/transfer", audited(models.AuditActionLeadTransfer, "lead"), d.lead.Transfer)
	secured.POST("/leads/:id/reject", audited(models.AuditActionLeadReject, "lead"), d.lead.Reject)

	secured.GET("/options/pending", d.option.Pending)
	secured.GET("/final-visa-managers", d.lead.FinalVisaManagers)
}
