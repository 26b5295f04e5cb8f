// Package inflight keeps at most one mutating request per key running at a time.
package inflight

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/previsa-console/pkg/cache"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

const keyPrefix = "inflight:"

// Release frees a held key. It is safe to call more than once.
type Release func()

// Guard hands out exclusive holds on keys such as "transfer:<leadId>".
type Guard interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// releaseScript deletes the key only if it still carries our token, so an expired hold
// taken over by another request is never released by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares holds across console replicas.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard constructs a Redis-backed guard. ttl bounds how long a crashed holder blocks the key.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisGuard{client: client, ttl: ttl}
}

// Acquire takes the key or fails with ErrRequestInFlight.
func (g *RedisGuard) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, keyPrefix+key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, appErrors.ErrRequestInFlight
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		_ = releaseScript.Run(context.Background(), g.client, []string{keyPrefix + key}, token).Err()
	}, nil
}

// MemoryGuard keeps holds inside this process.
type MemoryGuard struct {
	store *cache.Memory
	ttl   time.Duration
}

// NewMemoryGuard constructs an in-process guard.
func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemoryGuard{store: cache.NewMemory(), ttl: ttl}
}

// Acquire takes the key or fails with ErrRequestInFlight.
func (g *MemoryGuard) Acquire(_ context.Context, key string) (Release, error) {
	token := []byte(uuid.NewString())
	if !g.store.SetNX(keyPrefix+key, token, g.ttl) {
		return nil, appErrors.ErrRequestInFlight
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if current, ok := g.store.Get(keyPrefix + key); ok && string(current) == string(token) {
			g.store.Delete(keyPrefix + key)
		}
	}, nil
}

// New picks the Redis guard when a client is available.
func New(client *redis.Client, ttl time.Duration) Guard {
	if client != nil {
		return NewRedisGuard(client, ttl)
	}
	return NewMemoryGuard(ttl)
}
