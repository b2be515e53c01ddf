package feed

import (
	"math"
	"strconv"
	"strings"

	"github.com/i474232898/surfwatch/internal/marine"
)

// MissingValue is the feed's marker for an unreported cell.
const MissingValue = "MM"

// ToCanonicalNumber converts a raw cell to a finite number. Absent cells (""),
// MissingValue and anything unparseable, NaN or infinite give nil.
func ToCanonicalNumber(cell string) *float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == MissingValue {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// aliases lists accepted header tokens for one field. Order is part of the
// feed compatibility contract: the first header present wins.
type aliases []string

func (a aliases) lookup(row RawRow) (string, bool) {
	for _, key := range a {
		if v, ok := row[key]; ok {
			return v, true
		}
	}
	return "", false
}

var (
	yearAliases   = aliases{"YY", "YR"}
	monthAliases  = aliases{"MM", "MN"}
	dayAliases    = aliases{"DD", "DY"}
	hourAliases   = aliases{"hh", "HR"}
	minuteAliases = aliases{"mm", "MT"}
)

type numericField struct {
	aliases aliases
	set     func(o *marine.Observation, v *float64)
}

var numericFields = []numericField{
	{aliases{"WVHT"}, func(o *marine.Observation, v *float64) { o.WaveHeight = v }},
	{aliases{"DPD"}, func(o *marine.Observation, v *float64) { o.DominantPeriod = v }},
	{aliases{"AP", "APD"}, func(o *marine.Observation, v *float64) { o.AveragePeriod = v }},
	{aliases{"MWD"}, func(o *marine.Observation, v *float64) { o.MeanWaveDirection = v }},
	{aliases{"WSPD"}, func(o *marine.Observation, v *float64) { o.WindSpeed = v }},
	{aliases{"GST", "WGST"}, func(o *marine.Observation, v *float64) { o.WindGust = v }},
	{aliases{"WDIR"}, func(o *marine.Observation, v *float64) { o.WindDirection = v }},
	{aliases{"ATMP"}, func(o *marine.Observation, v *float64) { o.AirTemperature = v }},
	{aliases{"WTMP"}, func(o *marine.Observation, v *float64) { o.WaterTemperature = v }},
}

// AssembleObservation builds the canonical observation for one feed row.
func AssembleObservation(row RawRow) marine.Observation {
	obs := marine.Observation{Timestamp: assembleTimestamp(row)}
	for _, f := range numericFields {
		cell, _ := f.aliases.lookup(row)
		f.set(&obs, ToCanonicalNumber(cell))
	}
	return obs
}

// assembleTimestamp returns "" unless at least four of the five date/time parts
// resolve and year, month, day and minute are among them. A missing hour is 00.
func assembleTimestamp(row RawRow) string {
	parts := make([]string, 0, 5)
	resolved := 0
	for _, a := range []aliases{yearAliases, monthAliases, dayAliases, hourAliases, minuteAliases} {
		v, ok := a.lookup(row)
		if ok && v != "" {
			resolved++
		}
		parts = append(parts, v)
	}
	if resolved < 4 {
		return ""
	}

	year, month, day, hour, minute := parts[0], parts[1], parts[2], parts[3], parts[4]
	if hour == "" {
		hour = "00"
	}
	for _, p := range []string{year, month, day, hour, minute} {
		if !isDigits(p) {
			return ""
		}
	}

	var b strings.Builder
	b.Grow(len("2006-01-02T15:04:00Z"))
	b.WriteString(pad2(year))
	b.WriteByte('-')
	b.WriteString(pad2(month))
	b.WriteByte('-')
	b.WriteString(pad2(day))
	b.WriteByte('T')
	b.WriteString(pad2(hour))
	b.WriteByte(':')
	b.WriteString(pad2(minute))
	b.WriteString(":00Z")
	return b.String()
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
