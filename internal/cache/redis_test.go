package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surfwatch/internal/observability"
)

func TestConnect_ParsesURL(t *testing.T) {
	origNew, origPing := newRedisClient, pingRedis
	defer func() { newRedisClient, pingRedis = origNew, origPing }()

	var gotOpts *redis.Options
	newRedisClient = func(opts *redis.Options) *redis.Client {
		gotOpts = opts
		return redis.NewClient(opts)
	}
	pingRedis = func(context.Context, *redis.Client) error { return nil }

	client, err := Connect(context.Background(), "redis://:secret@cache.internal:6380/2")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "cache.internal:6380", gotOpts.Addr)
	assert.Equal(t, "secret", gotOpts.Password)
	assert.Equal(t, 2, gotOpts.DB)
}

func TestConnect_PlainAddress(t *testing.T) {
	origNew, origPing := newRedisClient, pingRedis
	defer func() { newRedisClient, pingRedis = origNew, origPing }()

	var gotOpts *redis.Options
	newRedisClient = func(opts *redis.Options) *redis.Client {
		gotOpts = opts
		return redis.NewClient(opts)
	}
	pingRedis = func(context.Context, *redis.Client) error { return nil }

	client, err := Connect(context.Background(), "localhost:6379")
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, "localhost:6379", gotOpts.Addr)
}

func TestConnect_PingFailure(t *testing.T) {
	origPing := pingRedis
	defer func() { pingRedis = origPing }()
	pingRedis = func(context.Context, *redis.Client) error { return errors.New("connection refused") }

	_, err := Connect(context.Background(), "localhost:6379")
	assert.ErrorContains(t, err, "connection refused")
}

// Runs against a live server when REDIS_URL is set.
func TestRedis_RoundTripAndExpiry(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedis(client, time.Second, observability.NopLogger())
	key := "test|" + t.Name()

	c.Set(ctx, key, obs("2024-03-05T14:30:00Z"))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05T14:30:00Z", got[0].Timestamp)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Second)

	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, key)
		return !ok
	}, 3*time.Second, 100*time.Millisecond)
}
