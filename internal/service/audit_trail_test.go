package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/models"
)

type auditWriterStub struct {
	mu      sync.Mutex
	entries []models.AuditLog
	fail    int
}

func (w *auditWriterStub) Create(_ context.Context, log *models.AuditLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail > 0 {
		w.fail--
		return errors.New("db down")
	}
	w.entries = append(w.entries, *log)
	return nil
}

func (w *auditWriterStub) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func TestAuditTrailWritesAsync(t *testing.T) {
	writer := &auditWriterStub{fail: 1}
	trail := NewAuditTrail(writer, nil, AuditTrailConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond}, nil)
	trail.Start(context.Background())
	defer trail.Stop()

	require.NoError(t, trail.Create(context.Background(), &models.AuditLog{Action: models.AuditActionLeadReject, Resource: "leads"}))

	assert.Eventually(t, func() bool { return writer.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.AuditActionLeadReject, writer.entries[0].Action)
	assert.False(t, writer.entries[0].CreatedAt.IsZero())
}

func TestAuditTrailRejectsAfterStop(t *testing.T) {
	trail := NewAuditTrail(&auditWriterStub{}, NewMetricsService(), AuditTrailConfig{}, nil)
	trail.Start(context.Background())
	trail.Stop()

	assert.Error(t, trail.Create(context.Background(), &models.AuditLog{Action: models.AuditActionLogin}))
}
