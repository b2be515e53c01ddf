package marine

import (
	"strings"
	"time"
)

// Provider ids used as keys in Spot.ProviderOverrides.
const (
	ProviderCDIP = "cdip"
	ProviderNDBC = "ndbc"
)

// Observation is the canonical marine reading every source is normalized into.
// A nil field means the value was not reported; a non-nil field is always finite.
type Observation struct {
	// Timestamp is an RFC 3339 UTC instant, or "" when the source time is unknown.
	Timestamp string `json:"timestamp"`

	WaveHeight        *float64 `json:"waveHeight"`
	DominantPeriod    *float64 `json:"dominantPeriod"`
	AveragePeriod     *float64 `json:"averagePeriod"`
	MeanWaveDirection *float64 `json:"meanWaveDirection"`
	WindSpeed         *float64 `json:"windSpeed"`
	WindGust          *float64 `json:"windGust"`
	WindDirection     *float64 `json:"windDirection"`
	AirTemperature    *float64 `json:"airTemperature"`
	WaterTemperature  *float64 `json:"waterTemperature"`
}

// Clone returns a copy that shares no pointers with o.
func (o Observation) Clone() Observation {
	o.WaveHeight = clonePtr(o.WaveHeight)
	o.DominantPeriod = clonePtr(o.DominantPeriod)
	o.AveragePeriod = clonePtr(o.AveragePeriod)
	o.MeanWaveDirection = clonePtr(o.MeanWaveDirection)
	o.WindSpeed = clonePtr(o.WindSpeed)
	o.WindGust = clonePtr(o.WindGust)
	o.WindDirection = clonePtr(o.WindDirection)
	o.AirTemperature = clonePtr(o.AirTemperature)
	o.WaterTemperature = clonePtr(o.WaterTemperature)
	return o
}

// CloneObservations deep-copies a slice. A nil slice stays nil.
func CloneObservations(in []Observation) []Observation {
	if in == nil {
		return nil
	}
	out := make([]Observation, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// WaveObservation is an Observation tagged with the provider that answered.
type WaveObservation struct {
	Observation

	// Source is the human-readable provider label.
	Source string `json:"source"`
	// ProviderID is the station identifier used at that provider.
	ProviderID string `json:"providerId,omitempty"`
}

// StationOverride points a spot at an alternate station for one provider.
type StationOverride struct {
	StationID string `json:"stationId"`
}

// ProviderOverrides is keyed by provider id (cdip, ndbc, eccc, bom, ...).
type ProviderOverrides map[string]StationOverride

// Spot is a saved surf spot. It is owned by the spot catalog and only read here.
type Spot struct {
	ID                string            `json:"id"`
	BuoyID            string            `json:"buoy_id"`
	Name              string            `json:"name"`
	Lat               *float64          `json:"lat"`
	Lng               *float64          `json:"lng"`
	IsPublic          bool              `json:"is_public"`
	CreatedAt         time.Time         `json:"created_at"`
	ProviderOverrides ProviderOverrides `json:"provider_overrides,omitempty"`
}

// StationFor returns the override station id for a provider, or "".
func (s Spot) StationFor(providerID string) string {
	return strings.TrimSpace(s.ProviderOverrides[providerID].StationID)
}

// HasLocation reports whether both coordinates are set.
func (s Spot) HasLocation() bool {
	return s.Lat != nil && s.Lng != nil
}
