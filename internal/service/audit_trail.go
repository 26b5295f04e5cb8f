package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/jobs"
)

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// AuditTrailConfig sizes the write-behind queue.
type AuditTrailConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// AuditTrail records audit entries off the request path. Create only enqueues; the
// configured writer persists entries from a small worker pool.
type AuditTrail struct {
	queue  *jobs.Queue[*models.AuditLog]
	logger *zap.Logger
}

// NewAuditTrail wires a queue in front of writer. metrics may be nil.
func NewAuditTrail(writer auditRecorder, metrics queryObserver, cfg AuditTrailConfig, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, entry *models.AuditLog) error {
		start := time.Now()
		err := writer.Create(ctx, entry)
		if metrics != nil {
			metrics.ObserveDBQuery("audit_logs.insert", time.Since(start))
		}
		return err
	}
	return &AuditTrail{
		queue: jobs.NewQueue("audit_logs", handler, jobs.QueueConfig{
			Workers:    cfg.Workers,
			BufferSize: cfg.BufferSize,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
			Logger:     logger,
		}),
		logger: logger,
	}
}

// Start launches the workers.
func (t *AuditTrail) Start(ctx context.Context) {
	t.queue.Start(ctx)
}

// Stop flushes buffered entries and waits for the workers.
func (t *AuditTrail) Stop() {
	t.queue.Stop()
}

// Create enqueues entry. It fails when the trail is stopped or saturated.
func (t *AuditTrail) Create(_ context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return t.queue.TryEnqueue(entry)
}
