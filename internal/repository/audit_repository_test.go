package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/models"
)

func newAuditRepoMock(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewAuditRepository(sqlxDB), mock
}

func TestAuditRepositoryCreate(t *testing.T) {
	repo, mock := newAuditRepoMock(t)
	managerID := "m1"
	leadID := "l1"

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "m1", models.AuditActionLeadTransfer, "leads", "l1", sqlmock.AnyArg(), "10.0.0.1", "test", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{
		ManagerID:  &managerID,
		Action:     models.AuditActionLeadTransfer,
		Resource:   "leads",
		ResourceID: &leadID,
		IPAddress:  "10.0.0.1",
		UserAgent:  "test",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryCreateError(t *testing.T) {
	repo, mock := newAuditRepoMock(t)
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.AuditLog{Action: models.AuditActionLogin, Resource: "session"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create audit log")
}
