package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for feed access, caching and provider fallback.
type Metrics struct {
	FeedRequests        *prometheus.CounterVec   // labels: op={latest,recent}, outcome={success,upstream_error,malformed}
	FeedRequestDuration *prometheus.HistogramVec // labels: op
	CacheLookups        *prometheus.CounterVec   // labels: op, result={hit,miss}
	ProviderAttempts    *prometheus.CounterVec   // labels: provider, outcome={unsupported,error,empty,hit}
	CurrentObservations *prometheus.CounterVec   // labels: source (provider label or "none")
}

const namespace = "surfwatch"

func newMetrics(help bool) *Metrics {
	h := func(s string) string {
		if help {
			return s
		}
		return ""
	}
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      h("Buoy feed requests by operation and outcome."),
		}, []string{"op", "outcome"}),
		FeedRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_request_duration_seconds",
			Help:      h("Buoy feed fetch and parse duration in seconds."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      h("Observation cache lookups by operation and result."),
		}, []string{"op", "result"}),
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      h("Current-conditions provider attempts by provider and outcome."),
		}, []string{"provider", "outcome"}),
		CurrentObservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "current_observations_total",
			Help:      h("Current-conditions answers by the provider that served them."),
		}, []string{"source"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedRequestDuration,
		m.CacheLookups,
		m.ProviderAttempts,
		m.CurrentObservations,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
