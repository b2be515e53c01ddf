package feed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/i474232898/surfwatch/internal/marine"
	"github.com/i474232898/surfwatch/internal/observability"
)

// Store holds observation slices under a string key for a bounded freshness window.
// Implementations must never return an entry older than their TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]marine.Observation, bool)
	Set(ctx context.Context, key string, value []marine.Observation)
}

// CachedSource wraps a marine.Source with a Store. Only successful results are
// cached, and concurrent misses for the same key share one upstream call.
type CachedSource struct {
	inner   marine.Source
	store   Store
	group   singleflight.Group
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a source.
func NewCachedSource(inner marine.Source, store Store, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		store:   store,
		metrics: metrics,
	}
}

// CacheKey identifies one cached answer by station, operation and limit.
func CacheKey(stationID, op string, limit int) string {
	return fmt.Sprintf("%s|%s|%d", stationID, op, limit)
}

func (c *CachedSource) Latest(ctx context.Context, stationID string) (marine.Observation, error) {
	obs, err := c.load(ctx, opLatest, latestKey(stationID), c.fetchLatest(stationID))
	if err != nil {
		return marine.Observation{}, err
	}
	if len(obs) == 0 {
		return marine.Observation{}, fmt.Errorf("%w: empty cache entry for %s", marine.ErrMalformedFeed, stationID)
	}
	return obs[0], nil
}

func (c *CachedSource) Recent(ctx context.Context, stationID string, limit int) ([]marine.Observation, error) {
	if limit <= 0 {
		return nil, marine.ErrInvalidLimit
	}
	return c.load(ctx, opRecent, CacheKey(stationID, opRecent, limit), c.fetchRecent(stationID, limit))
}

// Refresh re-fetches the latest sample and the limit-row history for a station
// and overwrites both cache entries, whether or not they are still fresh.
func (c *CachedSource) Refresh(ctx context.Context, stationID string, limit int) error {
	if limit <= 0 {
		return marine.ErrInvalidLimit
	}
	_, latestErr := c.flight(ctx, latestKey(stationID), c.fetchLatest(stationID))
	_, recentErr := c.flight(ctx, CacheKey(stationID, opRecent, limit), c.fetchRecent(stationID, limit))
	return errors.Join(latestErr, recentErr)
}

func latestKey(stationID string) string {
	return CacheKey(stationID, opLatest, 1)
}

func (c *CachedSource) fetchLatest(stationID string) fetchFunc {
	return func(ctx context.Context) ([]marine.Observation, error) {
		o, err := c.inner.Latest(ctx, stationID)
		if err != nil {
			return nil, err
		}
		return []marine.Observation{o}, nil
	}
}

func (c *CachedSource) fetchRecent(stationID string, limit int) fetchFunc {
	return func(ctx context.Context) ([]marine.Observation, error) {
		return c.inner.Recent(ctx, stationID, limit)
	}
}

type fetchFunc func(ctx context.Context) ([]marine.Observation, error)

func (c *CachedSource) load(ctx context.Context, op, key string, fetch fetchFunc) ([]marine.Observation, error) {
	if obs, ok := c.store.Get(ctx, key); ok {
		c.metrics.CacheLookups.WithLabelValues(op, "hit").Inc()
		return obs, nil
	}
	c.metrics.CacheLookups.WithLabelValues(op, "miss").Inc()

	return c.flight(ctx, key, fetch)
}

// flight runs fetch once per key across concurrent callers and stores the result.
// The shared fetch is detached from any single caller's cancellation; each
// caller still stops waiting when its own ctx is done. The upstream HTTP
// client timeout bounds the fetch itself.
func (c *CachedSource) flight(ctx context.Context, key string, fetch fetchFunc) ([]marine.Observation, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		obs, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.store.Set(shared, key, obs)
		return obs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers sharing a flight must not alias each other's observations.
		return marine.CloneObservations(res.Val.([]marine.Observation)), nil
	}
}
