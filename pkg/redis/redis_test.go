package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finbrief/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewFromRedis(rdb, "test"), mr
}

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
			Prefix:  "finbrief",
		},
	}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	assert.Equal(t, "finbrief", client.Prefix())
	assert.NoError(t, client.Close())
}

func TestNewClient_Enabled(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: true,
			Host:    mr.Host(),
			Port:    mr.Port(),
			Prefix:  "finbrief",
		},
	}

	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Enabled())
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    "1",
		},
	}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(&Client{enabled: false})

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(context.Background(), SECRateLimit(10))
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 10, remaining)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	cfg := RateLimitConfig{Key: "sec", Limit: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, _, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request in window should be refused")
}

func TestBoundLimiter_WaitRespectsContext(t *testing.T) {
	client, _ := newTestClient(t)
	bound := NewRateLimiter(client).Bind(RateLimitConfig{Key: "sec", Limit: 1, Window: time.Minute})

	require.NoError(t, bound.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := bound.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(&Client{enabled: false})

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(context.Background(), "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(context.Background(), "key", "value", time.Minute))
	assert.False(t, cache.Enabled())
}

func TestCache_RoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	type entry struct {
		CIK   string `json:"cik"`
		Title string `json:"title"`
	}

	var miss entry
	found, err := cache.Get(ctx, DirectoryKey(), &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, DirectoryKey(), entry{CIK: "0000320193", Title: "Apple Inc."}, time.Hour))
	assert.True(t, mr.Exists("test:cache:sec:directory"))

	var hit entry
	found, err = cache.Get(ctx, DirectoryKey(), &hit)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Apple Inc.", hit.Title)

	mr.FastForward(2 * time.Hour)
	found, err = cache.Get(ctx, DirectoryKey(), &hit)
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after its TTL")

	require.NoError(t, cache.Set(ctx, "k", 1, time.Hour))
	require.NoError(t, cache.Delete(ctx, "k"))
	assert.False(t, mr.Exists("test:cache:k"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "sec:directory", DirectoryKey())
	assert.Equal(t, "summary:000032019324000123:gpt-4o-mini", SummaryKey("000032019324000123", "gpt-4o-mini"))
}
