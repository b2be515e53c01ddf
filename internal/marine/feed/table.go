package feed

import (
	"fmt"
	"strings"

	"github.com/i474232898/surfwatch/internal/marine"
)

const commentMarker = "#"

// Table is a parsed feed: a header row and data rows in source order.
type Table struct {
	Header []string
	Rows   [][]string
}

// RawRow maps a header token to the raw cell of one sample.
type RawRow map[string]string

// ParseTable splits raw feed text into a header and data rows. The comment marker
// is stripped from the header line; later comment lines (units) are dropped.
// It fails with marine.ErrMalformedFeed unless a header and at least one data row remain.
func ParseTable(raw string) (Table, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		comment := strings.HasPrefix(line, commentMarker)
		if comment {
			line = strings.TrimSpace(strings.TrimPrefix(line, commentMarker))
		}
		if line == "" {
			continue
		}
		if comment && len(lines) > 0 {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return Table{}, fmt.Errorf("%w: need a header and at least one data row, got %d line(s)", marine.ErrMalformedFeed, len(lines))
	}

	t := Table{
		Header: strings.Fields(lines[0]),
		Rows:   make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		t.Rows = append(t.Rows, strings.Fields(line))
	}
	return t, nil
}

// Row pairs the header with the cells of row i. Headers past the end of a short row are absent.
func (t Table) Row(i int) RawRow {
	cells := t.Rows[i]
	row := make(RawRow, len(t.Header))
	for j, key := range t.Header {
		if j >= len(cells) {
			break
		}
		row[key] = cells[j]
	}
	return row
}
