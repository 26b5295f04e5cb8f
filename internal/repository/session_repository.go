package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/previsa-console/internal/models"
	"github.com/noah-isme/previsa-console/pkg/cache"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

const (
	sessionKeyPrefix        = "session:"
	managerSessionKeyPrefix = "session:manager:"
)

// SessionRepository persists console sessions in Redis, or in process memory when Redis is off.
type SessionRepository struct {
	client *redis.Client
	memory *cache.Memory
	mu     sync.Mutex
}

// NewSessionRepository constructs a session store. A nil client selects the in-process store.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client, memory: cache.NewMemory()}
}

// Save stores the session until its expiry.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if r.client == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.memory.Set(sessionKeyPrefix+session.ID, payload, ttl)
		ids, latest := r.liveMemoryIDs(session.ManagerID)
		ids = append(ids, session.ID)
		if session.ExpiresAt.After(latest) {
			latest = session.ExpiresAt
		}
		raw, _ := json.Marshal(ids)
		r.memory.Set(managerSessionKeyPrefix+session.ManagerID, raw, time.Until(latest))
		return nil
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl)
	pipe.SAdd(ctx, managerSessionKeyPrefix+session.ManagerID, session.ID)
	pipe.Expire(ctx, managerSessionKeyPrefix+session.ManagerID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save session %s: %w", session.ID, err)
	}
	return nil
}

// Get loads a live session or returns ErrNotFound.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var raw []byte
	if r.client == nil {
		value, ok := r.memory.Get(sessionKeyPrefix + id)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		raw = value
	} else {
		value, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
			}
			return nil, fmt.Errorf("redis get session %s: %w", id, err)
		}
		raw = value
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &session, nil
}

// DeleteForManager removes every session of a manager and reports how many were live.
func (r *SessionRepository) DeleteForManager(ctx context.Context, managerID string) (int, error) {
	if r.client == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		removed := 0
		for _, id := range r.memoryIDs(managerID) {
			if _, ok := r.memory.Get(sessionKeyPrefix + id); ok {
				removed++
			}
			r.memory.Delete(sessionKeyPrefix + id)
		}
		r.memory.Delete(managerSessionKeyPrefix + managerID)
		return removed, nil
	}

	ids, err := r.client.SMembers(ctx, managerSessionKeyPrefix+managerID).Result()
	if err != nil {
		return 0, fmt.Errorf("redis list sessions for %s: %w", managerID, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	removed := int64(0)
	if len(keys) > 0 {
		removed, err = r.client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("redis delete sessions for %s: %w", managerID, err)
		}
	}
	if err := r.client.Del(ctx, managerSessionKeyPrefix+managerID).Err(); err != nil {
		return int(removed), fmt.Errorf("redis delete session index for %s: %w", managerID, err)
	}
	return int(removed), nil
}

// liveMemoryIDs drops index entries whose session has expired and reports the latest expiry left.
func (r *SessionRepository) liveMemoryIDs(managerID string) ([]string, time.Time) {
	var latest time.Time
	ids := r.memoryIDs(managerID)
	live := ids[:0]
	for _, id := range ids {
		raw, ok := r.memory.Get(sessionKeyPrefix + id)
		if !ok {
			continue
		}
		live = append(live, id)
		var stored models.Session
		if err := json.Unmarshal(raw, &stored); err == nil && stored.ExpiresAt.After(latest) {
			latest = stored.ExpiresAt
		}
	}
	return live, latest
}

func (r *SessionRepository) memoryIDs(managerID string) []string {
	raw, ok := r.memory.Get(managerSessionKeyPrefix + managerID)
	if !ok {
		return nil
	}
	var ids []string
	_ = json.Unmarshal(raw, &ids)
	return ids
}
