package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

func newMiniredisClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSessionRepositoryStores(t *testing.T) {
	client, _ := newMiniredisClient(t)
	stores := map[string]*SessionRepository{
		"redis":  NewSessionRepository(client),
		"memory": NewSessionRepository(nil),
	}
	for name, repo := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			expires := time.Now().Add(time.Hour).UTC()
			require.NoError(t, repo.Save(ctx, &models.Session{ID: "s1", ManagerID: "m1", ExpiresAt: expires}))
			require.NoError(t, repo.Save(ctx, &models.Session{ID: "s2", ManagerID: "m1", ExpiresAt: expires}))
			require.NoError(t, repo.Save(ctx, &models.Session{ID: "s3", ManagerID: "m2", ExpiresAt: expires}))

			got, err := repo.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "m1", got.ManagerID)

			removed, err := repo.DeleteForManager(ctx, "m1")
			require.NoError(t, err)
			assert.Equal(t, 2, removed)

			_, err = repo.Get(ctx, "s2")
			assert.True(t, errors.Is(err, appErrors.ErrNotFound))
			_, err = repo.Get(ctx, "s3")
			assert.NoError(t, err)
		})
	}
}

func TestSessionRepositoryExpiry(t *testing.T) {
	client, mr := newMiniredisClient(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "s1", ManagerID: "m1", ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "s1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSessionRepositoryRejectsExpired(t *testing.T) {
	repo := NewSessionRepository(nil)
	err := repo.Save(context.Background(), &models.Session{ID: "s1", ManagerID: "m1", ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}

func TestSessionRepositoryMemoryIndexPrunesExpiredSessions(t *testing.T) {
	repo := NewSessionRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "short", ManagerID: "m1", ExpiresAt: time.Now().Add(30 * time.Millisecond)}))
	require.NoError(t, repo.Save(ctx, &models.Session{ID: "brief", ManagerID: "m2", ExpiresAt: time.Now().Add(30 * time.Millisecond)}))
	time.Sleep(60 * time.Millisecond)

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "long", ManagerID: "m1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Equal(t, []string{"long"}, repo.memoryIDs("m1"))

	_, ok := repo.memory.Get(managerSessionKeyPrefix + "m2")
	assert.False(t, ok)
}
