package providers

import (
	"bytes"
	"context"
	"encoding/json"
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
)

// DefaultCDIPBaseURL is the Coastal Data Information Program host.
const DefaultCDIPBaseURL = "https://cdip.ucsd.edu"

const cdipUserAgent = "Surfwatch CDIP fetcher"

// Key aliases seen across CDIP response revisions. Order matters.
var (
	cdipTimestamp         = fieldAliases{"timestamp", "time", "Date", "date"}
	cdipWaveHeight        = fieldAliases{"waveHeight", "wvht", "Hsig", "wave_height"}
	cdipDominantPeriod    = fieldAliases{"dominantPeriod", "dpd", "Tp"}
	cdipMeanWaveDirection = fieldAliases{"meanWaveDirection", "mwd", "Dp"}
	cdipWindSpeed         = fieldAliases{"windSpeed", "wspd", "WindSp"}
	cdipWindDirection     = fieldAliases{"windDirection", "wdir", "WindDir"}
	cdipWindGust          = fieldAliases{"windGust", "wgst", "WindGust"}
	cdipWaterTemperature  = fieldAliases{"waterTemperature", "watertemp", "wtp"}
	cdipAirTemperature    = fieldAliases{"airTemperature", "airt", "atp"}
)

// CDIPProvider implements marine.Provider for CDIP buoys. It only answers for
// spots that carry a cdip station override.
type CDIPProvider struct {
	label   string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	tracer  trace.Tracer
}

// NewCDIPProvider creates the CDIP provider. An empty baseURL uses DefaultCDIPBaseURL.
func NewCDIPProvider(client *http.Client, baseURL string, tracer trace.Tracer) *CDIPProvider {
	if baseURL == "" {
		baseURL = DefaultCDIPBaseURL
	}
	return &CDIPProvider{
		label:   "CDIP",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: common.HTTPClientConfig{
			Client: client,
			Backoff: common.BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
		},
		circuit: common.NewBreaker("cdip"),
		tracer:  tracer,
	}
}

func (p *CDIPProvider) ID() string {
	return marine.ProviderCDIP
}

func (p *CDIPProvider) Label() string {
	return p.label
}

func (p *CDIPProvider) Supports(spot marine.Spot) bool {
	return spot.StationFor(marine.ProviderCDIP) != ""
}

func (p *CDIPProvider) Current(ctx context.Context, spot marine.Spot) (*marine.WaveObservation, error) {
	stationID := spot.StationFor(marine.ProviderCDIP)
	if stationID == "" {
		return nil, nil
	}

	ctx, span := p.tracer.Start(ctx, "cdip.current", trace.WithAttributes(attribute.String("station", stationID)))
	defer span.End()

	payload, err := p.fetch(ctx, stationID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	r := firstRecord(payload)
	if r == nil {
		return nil, nil
	}

	return &marine.WaveObservation{
		Observation: marine.Observation{
			Timestamp:         cdipTimestamp.timestamp(r),
			WaveHeight:        cdipWaveHeight.number(r),
			DominantPeriod:    cdipDominantPeriod.number(r),
			MeanWaveDirection: cdipMeanWaveDirection.number(r),
			WindSpeed:         cdipWindSpeed.number(r),
			WindGust:          cdipWindGust.number(r),
			WindDirection:     cdipWindDirection.number(r),
			AirTemperature:    cdipAirTemperature.number(r),
			WaterTemperature:  cdipWaterTemperature.number(r),
		},
		Source:     p.label,
		ProviderID: stationID,
	}, nil
}

func (p *CDIPProvider) fetch(ctx context.Context, stationID string) (map[string]any, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("station", stationID)
		values.Set("format", "json")

		u := fmt.Sprintf("%s/data_access/latest.php?%s", p.baseURL, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", cdipUserAgent)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: cdip station %s: %w", marine.ErrUpstreamFetch, stationID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read cdip station %s: %w", marine.ErrUpstreamFetch, stationID, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: cdip station %s: %w", marine.ErrMalformedFeed, stationID, err)
	}
	return payload, nil
}
