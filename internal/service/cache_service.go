package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService keeps the last good copy of each list so a failed refresh can still show data.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(false, duration)
			}
			return false, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, duration)
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true, duration)
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// Snapshot keys. Lists scoped to a manager carry the manager id so one manager never sees another's data.
const (
	snapshotCountries = "snapshot:countries"
	snapshotJobs      = "snapshot:jobs"
)

func snapshotLeadsKey(managerID, search string) string {
	return "snapshot:leads:" + managerID + ":" + strings.ToLower(strings.TrimSpace(search))
}

func snapshotPendingKey(managerID string) string {
	return "snapshot:options:" + managerID
}

// fetchWithSnapshot runs fetch and records its result. When fetch fails the last good
// snapshot is returned instead with stale set; without one the list is empty.
func fetchWithSnapshot[T any](ctx context.Context, snapshots *CacheService, key string, fetch func(context.Context) ([]T, error)) ([]T, bool, error) {
	items, err := fetch(ctx)
	if err == nil {
		if items == nil {
			items = []T{}
		}
		_ = snapshots.Set(ctx, key, items, 0)
		return items, false, nil
	}

	var cached []T
	if hit, cacheErr := snapshots.Get(ctx, key, &cached); cacheErr != nil || !hit {
		cached = []T{}
	}
	if snapshots != nil && snapshots.metrics != nil {
		snapshots.metrics.RecordStaleServed(strings.Split(strings.TrimPrefix(key, "snapshot:"), ":")[0])
	}
	return cached, true, err
}
