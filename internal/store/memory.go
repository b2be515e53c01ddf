package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/surfwatch/internal/marine"
)

// MemoryStore is a concurrency-safe in-memory spot catalog.
type MemoryStore struct {
	mu sync.RWMutex

	// key: spot id
	spots map[string]marine.Spot

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		spots: make(map[string]marine.Spot),
		now:   time.Now,
	}
}

// SaveSpot inserts or replaces a spot. Spots without an id get a fresh UUID and
// spots without a creation time are stamped now. The stored spot is returned.
func (s *MemoryStore) SaveSpot(spot marine.Spot) marine.Spot {
	spot.ID = strings.TrimSpace(spot.ID)
	if spot.ID == "" {
		spot.ID = uuid.NewString()
	}
	if spot.CreatedAt.IsZero() {
		spot.CreatedAt = s.now().UTC()
	}
	spot.ProviderOverrides = cloneOverrides(spot.ProviderOverrides)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spots[spot.ID] = spot
	return spot
}

// GetSpot returns the spot with the given id or marine.ErrSpotNotFound.
func (s *MemoryStore) GetSpot(_ context.Context, id string) (marine.Spot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spot, ok := s.spots[strings.TrimSpace(id)]
	if !ok {
		return marine.Spot{}, marine.ErrSpotNotFound
	}
	spot.ProviderOverrides = cloneOverrides(spot.ProviderOverrides)
	return spot, nil
}

// ListSpots returns every spot ordered by name, then id.
func (s *MemoryStore) ListSpots(_ context.Context) ([]marine.Spot, error) {
	s.mu.RLock()
	out := make([]marine.Spot, 0, len(s.spots))
	for _, spot := range s.spots {
		spot.ProviderOverrides = cloneOverrides(spot.ProviderOverrides)
		out = append(out, spot)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadSpotsFile seeds the store from a JSON array of spots and returns how many were loaded.
func (s *MemoryStore) LoadSpotsFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read spots file: %w", err)
	}

	var spots []marine.Spot
	if err := json.Unmarshal(raw, &spots); err != nil {
		return 0, fmt.Errorf("decode spots file %s: %w", path, err)
	}

	for _, spot := range spots {
		s.SaveSpot(spot)
	}
	return len(spots), nil
}

func cloneOverrides(in marine.ProviderOverrides) marine.ProviderOverrides {
	if in == nil {
		return nil
	}
	out := make(marine.ProviderOverrides, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
