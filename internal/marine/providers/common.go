package providers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/surfwatch/internal/marine/feed"
)

// record is one decoded JSON sample as returned by a provider.
type record map[string]any

// fieldAliases lists accepted JSON keys for one canonical field, first present wins.
// A key holding JSON null counts as absent.
type fieldAliases []string

func (a fieldAliases) lookup(r record) (any, bool) {
	for _, key := range a {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// number applies the feed's missing-value rules to whatever JSON value the provider sent.
func (a fieldAliases) number(r record) *float64 {
	v, ok := a.lookup(r)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case json.Number:
		return feed.ToCanonicalNumber(n.String())
	case string:
		return feed.ToCanonicalNumber(n)
	case float64:
		return feed.ToCanonicalNumber(strconv.FormatFloat(n, 'g', -1, 64))
	default:
		return nil
	}
}

// timestamp normalizes the first present time value to RFC 3339 UTC, or "".
func (a fieldAliases) timestamp(r record) string {
	v, ok := a.lookup(r)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return normalizeTime(t)
	case json.Number:
		secs, err := t.Float64()
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
			return ""
		}
		if secs > 1e12 {
			secs /= 1000
		}
		return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
}

func normalizeTime(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// firstRecord finds the latest sample under any of the keys the API has used.
// Paths are tried in order: data[0], latest[0], latest.
func firstRecord(payload map[string]any) record {
	if r := firstOf(payload["data"]); r != nil {
		return r
	}
	if r := firstOf(payload["latest"]); r != nil {
		return r
	}
	if obj, ok := payload["latest"].(map[string]any); ok {
		return obj
	}
	return nil
}

func firstOf(v any) record {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	obj, ok := items[0].(map[string]any)
	if !ok {
		return nil
	}
	return obj
}
