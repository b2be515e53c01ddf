package marine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i474232898/surfwatch/internal/observability"
)

// Aggregator asks providers for current conditions in a fixed priority order
// and returns the first observation found.
type Aggregator struct {
	providers []Provider
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewAggregator creates an Aggregator. The order of providers is the priority order;
// the slice is copied so later changes by the caller have no effect.
func NewAggregator(providers []Provider, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		providers: append([]Provider(nil), providers...),
		logger:    logger,
		metrics:   metrics,
	}
}

// Current returns the first non-nil observation from the providers that support spot.
// A provider failure only means that provider found nothing. nil, nil means no data is available.
func (a *Aggregator) Current(ctx context.Context, spot Spot) (*WaveObservation, error) {
	if strings.TrimSpace(spot.ID) == "" && strings.TrimSpace(spot.BuoyID) == "" && len(spot.ProviderOverrides) == 0 {
		return nil, ErrInvalidSpot
	}

	for _, p := range a.providers {
		if !p.Supports(spot) {
			a.metrics.ProviderAttempts.WithLabelValues(p.ID(), "unsupported").Inc()
			continue
		}

		obs, err := a.try(ctx, p, spot)
		if err != nil {
			a.logger.Warn("provider failed", "provider", p.ID(), "spot", spot.ID, "error", err)
			a.metrics.ProviderAttempts.WithLabelValues(p.ID(), "error").Inc()
			continue
		}
		if obs == nil {
			a.metrics.ProviderAttempts.WithLabelValues(p.ID(), "empty").Inc()
			continue
		}

		a.metrics.ProviderAttempts.WithLabelValues(p.ID(), "hit").Inc()
		a.metrics.CurrentObservations.WithLabelValues(p.Label()).Inc()

		result := *obs
		result.Source = p.Label()
		return &result, nil
	}

	a.metrics.CurrentObservations.WithLabelValues("none").Inc()
	return nil, nil
}

// try isolates one provider call so a panic inside it cannot end the search.
func (a *Aggregator) try(ctx context.Context, p Provider, spot Spot) (obs *WaveObservation, err error) {
	defer func() {
		if r := recover(); r != nil {
			obs, err = nil, fmt.Errorf("provider %s panicked: %v", p.ID(), r)
		}
	}()
	return p.Current(ctx, spot)
}
