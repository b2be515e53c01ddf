package marine

import (
	"sort"
	"strings"
)

// Result size bounds for spot search.
const (
	DefaultSearchLimit = 200
	MinSearchLimit     = 10
	MaxSearchLimit     = 500

	// SearchAll lists every spot instead of filtering.
	SearchAll = "*"
)

// SpotQuery filters the catalog by a case-insensitive substring of name or buoy id.
// When both Lat and Lng are set the matches are ordered by distance from that point.
type SpotQuery struct {
	Text  string
	Limit int
	Lat   *float64
	Lng   *float64
}

// SpotMatch is a search hit. Distance is only set for located spots in a
// location-aware search.
type SpotMatch struct {
	Spot
	DistanceMiles *float64 `json:"distance,omitempty"`
}

type SearchMeta struct {
	// Truncated means the limit was reached and more spots may match.
	Truncated bool `json:"truncated"`
	Total     int  `json:"total"`
}

type SearchResult struct {
	Spots []SpotMatch `json:"spots"`
	Meta  SearchMeta  `json:"meta"`
}

// ClampSearchLimit keeps a requested result size within [MinSearchLimit, MaxSearchLimit].
func ClampSearchLimit(limit int) int {
	return min(max(limit, MinSearchLimit), MaxSearchLimit)
}

// Search matches spots by name or buoy id, keeps the first limit in name order,
// then sorts them by distance when the query has a location. Unlocated spots
// sort last.
func Search(spots []Spot, q SpotQuery) SearchResult {
	limit := ClampSearchLimit(q.Limit)
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	ordered := append([]Spot(nil), spots...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	matches := make([]SpotMatch, 0, min(len(ordered), limit))
	for _, s := range ordered {
		if len(matches) == limit {
			break
		}
		if needle != "" && needle != SearchAll && !matchesText(s, needle) {
			continue
		}
		matches = append(matches, SpotMatch{Spot: s})
	}

	if q.Lat != nil && q.Lng != nil {
		for i := range matches {
			s := matches[i].Spot
			if s.HasLocation() {
				d := HaversineMiles(*q.Lat, *q.Lng, *s.Lat, *s.Lng)
				matches[i].DistanceMiles = &d
			}
		}
		sort.SliceStable(matches, func(i, j int) bool {
			a, b := matches[i].DistanceMiles, matches[j].DistanceMiles
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return *a < *b
		})
	}

	return SearchResult{
		Spots: matches,
		Meta: SearchMeta{
			Truncated: len(matches) == limit,
			Total:     len(matches),
		},
	}
}

func matchesText(s Spot, needle string) bool {
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.BuoyID), needle)
}
