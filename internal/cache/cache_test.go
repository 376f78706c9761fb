package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, hit, err := c.GetString(ctx, "q")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetString(ctx, "q", "réponse", 0))
	v, hit, err := c.GetString(ctx, "q")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "réponse", v)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetString(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, hit, _ := c.GetString(ctx, "k")
	assert.True(t, hit)

	now = now.Add(time.Second)
	_, hit, _ = c.GetString(ctx, "k")
	assert.False(t, hit)
}

func TestMemoryCache_Bounded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetString(ctx, "stale", "v", time.Second))
	for i := 0; i < maxMemoryItems+10; i++ {
		require.NoError(t, c.SetString(ctx, fmt.Sprintf("k%d", i), "v", time.Hour))
		if i == 0 {
			now = now.Add(2 * time.Second)
		}
	}

	assert.LessOrEqual(t, len(c.items), maxMemoryItems)
	_, hit, _ := c.GetString(ctx, fmt.Sprintf("k%d", maxMemoryItems+9))
	assert.True(t, hit)
	_, hit, _ = c.GetString(ctx, "stale")
	assert.False(t, hit)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return m, rdb
}

func TestRedisCache_PrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	m, rdb := newTestRedis(t)
	c := NewRedisCache(rdb, "")

	require.NoError(t, c.SetString(ctx, "search:abc", "10h - 19h", time.Minute))

	raw, err := m.Get("concierge:search:abc")
	require.NoError(t, err)
	assert.Equal(t, "10h - 19h", raw)
	assert.Equal(t, time.Minute, m.TTL("concierge:search:abc"))
	assert.False(t, m.Exists("search:abc"))

	v, hit, err := c.GetString(ctx, "search:abc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "10h - 19h", v)

	m.FastForward(time.Minute)
	_, hit, err = c.GetString(ctx, "search:abc")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_MissIsNotAnError(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewRedisCache(rdb, "test:")

	v, hit, err := c.GetString(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, v)
}

func TestRedisCache_ServerDown(t *testing.T) {
	m, rdb := newTestRedis(t)
	c := NewRedisCache(rdb, "")
	m.Close()

	_, hit, err := c.GetString(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.SetString(context.Background(), "k", "v", time.Minute))
}
