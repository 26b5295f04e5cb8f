package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/previsa-console/pkg/config"
)

func TestMemoryExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	m.Set("a", []byte("1"), time.Minute)
	got, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", string(got))

	now = now.Add(time.Minute)
	_, ok = m.Get("a")
	assert.False(t, ok)
}

func TestMemorySetNX(t *testing.T) {
	m := NewMemory()
	assert.True(t, m.SetNX("lock", []byte("x"), time.Minute))
	assert.False(t, m.SetNX("lock", []byte("y"), time.Minute))
	m.Delete("lock")
	assert.True(t, m.SetNX("lock", []byte("z"), time.Minute))
}

func TestMemoryDeleteMatching(t *testing.T) {
	m := NewMemory()
	m.Set("snapshot:jobs:", []byte("1"), 0)
	m.Set("snapshot:jobs:dev", []byte("1"), 0)
	m.Set("snapshot:countries:", []byte("1"), 0)

	assert.Equal(t, 2, m.DeleteMatching("snapshot:jobs:*"))
	_, ok := m.Get("snapshot:countries:")
	assert.True(t, ok)
}

func TestNewRedisDisabled(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, client)
}
