package marine

import "context"

// Provider abstracts a current-conditions data source (e.g. CDIP, NOAA NDBC).
type Provider interface {
	ID() string
	Label() string
	// Supports is a pure check over spot fields; it must not do I/O.
	Supports(spot Spot) bool
	// Current returns nil, nil when the provider has nothing for the spot.
	Current(ctx context.Context, spot Spot) (*WaveObservation, error)
}

// Source serves buoy observations from the tabular feed.
type Source interface {
	Latest(ctx context.Context, stationID string) (Observation, error)
	// Recent returns at most limit observations, oldest first.
	Recent(ctx context.Context, stationID string, limit int) ([]Observation, error)
}

// SpotStore is the read side of the spot catalog.
type SpotStore interface {
	GetSpot(ctx context.Context, id string) (Spot, error)
	ListSpots(ctx context.Context) ([]Spot, error)
}
