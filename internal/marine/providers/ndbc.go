package providers

import (
	"context"
	"errors"
	"strings"

	"github.com/i474232898/surfwatch/internal/marine"
)

// NDBCProvider answers from the NOAA buoy feed for the spot's default buoy.
type NDBCProvider struct {
	label  string
	source marine.Source
}

// NewNDBCProvider creates the default feed provider on top of a marine.Source.
func NewNDBCProvider(source marine.Source) *NDBCProvider {
	return &NDBCProvider{label: "NOAA NDBC", source: source}
}

func (p *NDBCProvider) ID() string {
	return marine.ProviderNDBC
}

func (p *NDBCProvider) Label() string {
	return p.label
}

func (p *NDBCProvider) Supports(spot marine.Spot) bool {
	return stationFor(spot) != ""
}

// Current tries the latest-sample feed first and the newest history row second.
func (p *NDBCProvider) Current(ctx context.Context, spot marine.Spot) (*marine.WaveObservation, error) {
	stationID := stationFor(spot)
	if stationID == "" {
		return nil, nil
	}

	obs, err := p.source.Latest(ctx, stationID)
	if err != nil {
		recent, recentErr := p.source.Recent(ctx, stationID, 1)
		if recentErr != nil {
			return nil, errors.Join(err, recentErr)
		}
		if len(recent) == 0 {
			return nil, nil
		}
		obs = recent[len(recent)-1]
	}

	return &marine.WaveObservation{
		Observation: obs,
		Source:      p.label,
		ProviderID:  stationID,
	}, nil
}

func stationFor(spot marine.Spot) string {
	if id := spot.StationFor(marine.ProviderNDBC); id != "" {
		return id
	}
	return strings.TrimSpace(spot.BuoyID)
}
