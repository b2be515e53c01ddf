package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i474232898/surfwatch/internal/common"
	"github.com/i474232898/surfwatch/internal/marine"
	"github.com/i474232898/surfwatch/internal/observability"
)

// DefaultBaseURL is the NDBC data root.
const DefaultBaseURL = "https://www.ndbc.noaa.gov/data"

const (
	opLatest = "latest"
	opRecent = "recent"

	latestPath = "latestobs"
	recentPath = "realtime2"

	// Rolling history files are ~45 days of 10-minute samples; anything past this is not a feed.
	maxBodyBytes = 8 << 20
)

// Client implements marine.Source against the NDBC text endpoints.
// It does not retry; the circuit breaker only stops hammering a failing host.
type Client struct {
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewClient creates an NDBC feed client. An empty baseURL uses DefaultBaseURL.
func NewClient(client *http.Client, baseURL string, metrics *observability.Metrics, tracer trace.Tracer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: common.HTTPClientConfig{Client: client},
		circuit: common.NewBreaker("ndbc"),
		metrics: metrics,
		tracer:  tracer,
	}
}

// Latest fetches the most recent single sample for a station.
func (c *Client) Latest(ctx context.Context, stationID string) (marine.Observation, error) {
	ctx, span := c.tracer.Start(ctx, "ndbc.latest", trace.WithAttributes(attribute.String("station", stationID)))
	defer span.End()

	table, err := c.fetchTable(ctx, opLatest, latestPath, stationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return marine.Observation{}, err
	}
	return AssembleObservation(table.Row(0)), nil
}

// Recent fetches the rolling history, keeps the newest limit rows and returns them oldest first.
func (c *Client) Recent(ctx context.Context, stationID string, limit int) ([]marine.Observation, error) {
	if limit <= 0 {
		return nil, marine.ErrInvalidLimit
	}

	ctx, span := c.tracer.Start(ctx, "ndbc.recent", trace.WithAttributes(
		attribute.String("station", stationID),
		attribute.Int("limit", limit),
	))
	defer span.End()

	table, err := c.fetchTable(ctx, opRecent, recentPath, stationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	n := min(limit, len(table.Rows))
	out := make([]marine.Observation, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = AssembleObservation(table.Row(i))
	}
	return out, nil
}

func (c *Client) fetchTable(ctx context.Context, op, path, stationID string) (Table, error) {
	start := time.Now()
	defer func() {
		c.metrics.FeedRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	u := fmt.Sprintf("%s/%s/%s.txt", c.baseURL, path, url.PathEscape(stationID))
	resp, err := common.DoRequest(ctx, c.httpCfg, c.circuit, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(op, "upstream_error").Inc()
		return Table{}, fmt.Errorf("%w: %s station %s: %w", marine.ErrUpstreamFetch, op, stationID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(op, "upstream_error").Inc()
		return Table{}, fmt.Errorf("%w: read %s station %s: %w", marine.ErrUpstreamFetch, op, stationID, err)
	}

	table, err := ParseTable(string(body))
	if err != nil {
		c.metrics.FeedRequests.WithLabelValues(op, "malformed").Inc()
		return Table{}, fmt.Errorf("%s station %s: %w", op, stationID, err)
	}

	c.metrics.FeedRequests.WithLabelValues(op, "success").Inc()
	return table, nil
}
