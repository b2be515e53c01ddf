package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surfwatch/internal/marine"
)

func TestParseTable(t *testing.T) {
	t.Run("header and rows split on whitespace runs", func(t *testing.T) {
		table, err := ParseTable("A   B\tC\n1 2    3\n4 5 6\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, table.Header)
		assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, table.Rows)
	})

	t.Run("comment marker stripped from header", func(t *testing.T) {
		table, err := ParseTable(latestFeed)
		require.NoError(t, err)
		assert.Equal(t, "YY", table.Header[0])
		assert.Len(t, table.Header, 19)
		require.Len(t, table.Rows, 1)
		assert.Len(t, table.Rows[0], 19)
	})

	t.Run("units line dropped and order preserved", func(t *testing.T) {
		table, err := ParseTable(recentFeed)
		require.NoError(t, err)
		require.Len(t, table.Rows, 5)
		assert.Equal(t, "50", table.Rows[0][4])
		assert.Equal(t, "10", table.Rows[4][4])
	})

	t.Run("blank lines and CRLF ignored", func(t *testing.T) {
		table, err := ParseTable("\r\n\r\nA B\r\n\r\n1 2\r\n   \r\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, table.Header)
		assert.Equal(t, [][]string{{"1", "2"}}, table.Rows)
	})

	t.Run("header only is malformed", func(t *testing.T) {
		_, err := ParseTable("#YY MM DD hh mm\n#yr mo dy hr mn\n")
		assert.ErrorIs(t, err, marine.ErrMalformedFeed)
	})

	t.Run("empty body is malformed", func(t *testing.T) {
		_, err := ParseTable("   \n\n")
		assert.ErrorIs(t, err, marine.ErrMalformedFeed)
	})
}

func TestTableRow(t *testing.T) {
	table := Table{
		Header: []string{"YY", "MM", "WVHT"},
		Rows:   [][]string{{"2024", "03"}},
	}

	row := table.Row(0)
	assert.Equal(t, "2024", row["YY"])
	assert.Equal(t, "03", row["MM"])
	_, ok := row["WVHT"]
	assert.False(t, ok, "cells past the end of a short row are absent")
}
