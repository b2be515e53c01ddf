package marine

import (
	"math"
	"sort"
)

const (
	earthRadiusMiles = 3958.8

	DefaultNearbyRadiusMiles = 100.0
	MaxNearbyResults         = 100
)

// SpotDistance is a spot annotated with its distance from a query point.
type SpotDistance struct {
	Spot
	DistanceMiles float64 `json:"distance"`
}

// HaversineMiles returns the great-circle distance between two points in miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(rLat1)*math.Cos(rLat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Nearby filters spots to those within radiusMiles of (lat, lng), nearest first,
// capped at MaxNearbyResults. Spots without coordinates are skipped.
func Nearby(spots []Spot, lat, lng, radiusMiles float64) []SpotDistance {
	out := make([]SpotDistance, 0, len(spots))
	for _, s := range spots {
		if !s.HasLocation() {
			continue
		}
		d := HaversineMiles(lat, lng, *s.Lat, *s.Lng)
		if d <= radiusMiles {
			out = append(out, SpotDistance{Spot: s, DistanceMiles: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMiles < out[j].DistanceMiles
	})

	if len(out) > MaxNearbyResults {
		out = out[:MaxNearbyResults]
	}
	return out
}
