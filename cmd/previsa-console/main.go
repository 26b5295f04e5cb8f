package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/previsa-console/api/swagger"
	"github.com/noah-isme/previsa-console/internal/handler"
	"github.com/noah-isme/previsa-console/internal/middleware"
	"github.com/noah-isme/previsa-console/internal/repository"
	"github.com/noah-isme/previsa-console/internal/service"
	"github.com/noah-isme/previsa-console/pkg/backend"
	"github.com/noah-isme/previsa-console/pkg/cache"
	"github.com/noah-isme/previsa-console/pkg/config"
	"github.com/noah-isme/previsa-console/pkg/database"
	"github.com/noah-isme/previsa-console/pkg/export"
	"github.com/noah-isme/previsa-console/pkg/inflight"
	"github.com/noah-isme/previsa-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/previsa-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/previsa-console/pkg/middleware/requestid"
)

// @title Pre-Visa Console API
// @version 1.0.0
// @description Backend-for-frontend of the Pre-Visa manager console
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey SessionToken
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	if redisClient == nil {
		logr.Info("redis disabled, using in-process session, snapshot and in-flight stores")
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	var auditDB *sqlx.DB
	if cfg.Audit.Enabled {
		auditDB, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		defer auditDB.Close() //nolint:errcheck
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	app, cleanup := buildApp(cfg, logr, redisClient, auditDB)
	defer cleanup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// buildApp assembles the router. The returned cleanup stops background workers.
func buildApp(cfg *config.Config, logr *zap.Logger, redisClient *redis.Client, auditDB *sqlx.DB) (*gin.Engine, func()) {
	metrics := service.NewMetricsService()
	validate := validator.New()

	client := backend.NewClient(cfg.Backend, logr, backend.WithObserver(metrics))
	countries := repository.NewCountryRepository(client)
	jobs := repository.NewJobRepository(client)
	options := repository.NewOptionRepository(client)
	leads := repository.NewLeadRepository(client)
	managers := repository.NewManagerRepository(client)

	snapshots := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metrics, cfg.Snapshot.TTL, logr, true)
	guard := inflight.New(redisClient, cfg.Inflight.TTL)

	var audit middleware.AuditRecorder
	cleanup := func() {}
	checks := map[string]handler.ReadinessCheck{}
	if auditDB != nil {
		trail := service.NewAuditTrail(repository.NewAuditRepository(auditDB), metrics, service.AuditTrailConfig{
			Workers:    cfg.Audit.Workers,
			BufferSize: cfg.Audit.BufferSize,
			MaxRetries: cfg.Audit.MaxRetries,
		}, logr)
		trail.Start(context.Background())
		cleanup = trail.Stop
		audit = trail
		checks["audit_db"] = auditDB.PingContext
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	sessionSvc := service.NewSessionService(repository.NewSessionRepository(redisClient), audit, validate, logr, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.Session.Issuer,
	})
	countrySvc := service.NewCountryService(countries, snapshots, validate, logr)
	jobSvc := service.NewJobService(jobs, snapshots, validate, logr)
	optionSvc := service.NewOptionService(options, snapshots, logr)
	leadSvc := service.NewLeadService(leads, options, jobs, managers, guard, snapshots, logr)
	exportSvc := service.NewExportService(jobSvc, leadSvc, logr, export.NewCSVExporter(), export.NewPDFExporter())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	registerRoutes(r, routeDeps{
		prefix:   cfg.APIPrefix,
		docs:     cfg.Env != config.EnvProduction,
		metrics:  handler.NewMetricsHandler(metrics, checks),
		sessions: sessionSvc,
		session:  handler.NewSessionHandler(sessionSvc),
		country:  handler.NewCountryHandler(countrySvc),
		job:      handler.NewJobHandler(jobSvc, exportSvc),
		lead:     handler.NewLeadHandler(leadSvc, optionSvc, exportSvc),
		option:   handler.NewOptionHandler(optionSvc),
		audit:    audit,
		queries:  metrics,
		logger:   logr,
	})
	return r, cleanup
}
