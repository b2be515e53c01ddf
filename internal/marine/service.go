package marine

import (
	"context"
	"strings"
)

// Bounds applied by callers of GetRecent; the feed layer itself does not clamp.
const (
	DefaultRecentLimit = 24
	MinRecentLimit     = 6
	MaxRecentLimit     = 72
)

// ClampRecentLimit keeps a requested history size within [MinRecentLimit, MaxRecentLimit].
func ClampRecentLimit(limit int) int {
	return min(max(limit, MinRecentLimit), MaxRecentLimit)
}

// Service is the entry point the HTTP layer and scheduler use for observations.
type Service struct {
	source     Source
	aggregator *Aggregator
	spots      SpotStore
}

// NewService creates a new Service.
func NewService(source Source, aggregator *Aggregator, spots SpotStore) *Service {
	return &Service{
		source:     source,
		aggregator: aggregator,
		spots:      spots,
	}
}

// GetLatest returns the most recent single sample for a station.
func (s *Service) GetLatest(ctx context.Context, stationID string) (Observation, error) {
	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		return Observation{}, ErrInvalidStation
	}
	return s.source.Latest(ctx, stationID)
}

// GetRecent returns up to limit samples for a station, oldest first.
func (s *Service) GetRecent(ctx context.Context, stationID string, limit int) ([]Observation, error) {
	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		return nil, ErrInvalidStation
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return s.source.Recent(ctx, stationID, limit)
}

// GetCurrentObservation returns current conditions for spot, or nil when no provider has data.
func (s *Service) GetCurrentObservation(ctx context.Context, spot Spot) (*WaveObservation, error) {
	return s.aggregator.Current(ctx, spot)
}

// CurrentForSpot looks the spot up in the catalog and returns its current conditions.
func (s *Service) CurrentForSpot(ctx context.Context, spotID string) (*WaveObservation, error) {
	spot, err := s.spots.GetSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Current(ctx, spot)
}

// Nearby returns catalog spots within radiusMiles of the point, nearest first.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]SpotDistance, error) {
	spots, err := s.spots.ListSpots(ctx)
	if err != nil {
		return nil, err
	}
	return Nearby(spots, lat, lng, radiusMiles), nil
}

// Search runs a text and optional location search over the spot catalog.
func (s *Service) Search(ctx context.Context, q SpotQuery) (SearchResult, error) {
	spots, err := s.spots.ListSpots(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	return Search(spots, q), nil
}
