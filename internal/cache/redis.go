package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/i474232898/surfwatch/internal/marine"
)

const keyPrefix = "surfwatch:obs:"

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
)

// Connect opens a Redis client from a host:port address or a redis:// URL and pings it.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Redis stores observations as JSON with a server-side expiry, so entries
// are shared between replicas and vanish once the TTL passes.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a Redis-backed cache.
func NewRedis(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Get treats any Redis or decode failure as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]marine.Observation, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var obs []marine.Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		r.logger.Warn("redis cache entry undecodable", "key", key, "error", err)
		return nil, false
	}
	return obs, true
}

// Set writes the value with the cache TTL; failures are logged and ignored.
func (r *Redis) Set(ctx context.Context, key string, value []marine.Observation) {
	if r.ttl <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis cache set failed", "key", key, "error", err)
	}
}
