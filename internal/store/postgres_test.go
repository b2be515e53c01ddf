package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surfwatch/internal/marine"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.pos-1], dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case **string:
			*d, _ = v.(*string)
		case **float64:
			*d, _ = v.(*float64)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		case *[]byte:
			*d, _ = v.([]byte)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type fakePool struct {
	row  fakeRow
	rows *fakeRows
	err  error

	lastSQL  string
	lastArgs []any
}

func (p *fakePool) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.lastSQL, p.lastArgs = sql, args
	if p.err != nil {
		return nil, p.err
	}
	return p.rows, nil
}

func (p *fakePool) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.lastSQL, p.lastArgs = sql, args
	return p.row
}

const spotUUID = "0b5c6a2e-2f41-4d0f-9d3e-1f7f4e2a9c11"

func spotRow(id, name string, overrides []byte) []any {
	buoy := "46026"
	lat, lng := 37.76, -122.51
	return []any{id, &buoy, name, &lat, &lng, true, time.Date(2024, 3, 5, 6, 30, 0, 0, time.FixedZone("PST", -8*3600)), overrides}
}

func TestPostgresStore_GetSpot(t *testing.T) {
	pool := &fakePool{row: fakeRow{values: spotRow(spotUUID, "Ocean Beach", []byte(`{"cdip":{"stationId":"142"}}`))}}
	s := NewPostgresStore(pool)

	spot, err := s.GetSpot(context.Background(), spotUUID)
	require.NoError(t, err)

	assert.Equal(t, spotUUID, spot.ID)
	assert.Equal(t, "46026", spot.BuoyID)
	assert.Equal(t, "Ocean Beach", spot.Name)
	assert.Equal(t, "142", spot.StationFor("cdip"))
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), spot.CreatedAt)
	assert.Equal(t, []any{spotUUID}, pool.lastArgs)
	assert.Contains(t, pool.lastSQL, "WHERE id = $1")
}

func TestPostgresStore_GetSpotNotFound(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		s := NewPostgresStore(&fakePool{row: fakeRow{err: pgx.ErrNoRows}})

		_, err := s.GetSpot(context.Background(), spotUUID)
		assert.ErrorIs(t, err, marine.ErrSpotNotFound)
	})

	t.Run("not a uuid", func(t *testing.T) {
		pool := &fakePool{}
		s := NewPostgresStore(pool)

		_, err := s.GetSpot(context.Background(), "ocean-beach")
		assert.ErrorIs(t, err, marine.ErrSpotNotFound)
		assert.Empty(t, pool.lastSQL)
	})
}

func TestPostgresStore_GetSpotBadOverrides(t *testing.T) {
	s := NewPostgresStore(&fakePool{row: fakeRow{values: spotRow(spotUUID, "Ocean Beach", []byte(`[1,2]`))}})

	_, err := s.GetSpot(context.Background(), spotUUID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, marine.ErrSpotNotFound)
}

func TestPostgresStore_ListSpots(t *testing.T) {
	pool := &fakePool{rows: &fakeRows{rows: [][]any{
		spotRow(spotUUID, "Ocean Beach", nil),
		spotRow("8f0c0e59-5d0a-4d7b-a1b3-5b8b2f6b7e20", "Pacifica", []byte(`{}`)),
	}}}
	s := NewPostgresStore(pool)

	spots, err := s.ListSpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, "Ocean Beach", spots[0].Name)
	assert.Nil(t, spots[0].ProviderOverrides)
	assert.Equal(t, "Pacifica", spots[1].Name)
	assert.Contains(t, pool.lastSQL, "ORDER BY name")
}

func TestPostgresStore_ListSpotsErrors(t *testing.T) {
	queryErr := errors.New("connection reset")
	_, err := NewPostgresStore(&fakePool{err: queryErr}).ListSpots(context.Background())
	assert.ErrorIs(t, err, queryErr)

	iterErr := errors.New("cursor closed")
	_, err = NewPostgresStore(&fakePool{rows: &fakeRows{err: iterErr}}).ListSpots(context.Background())
	assert.ErrorIs(t, err, iterErr)
}

func TestPostgresStore_Live(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = NewPostgresStore(pool).ListSpots(ctx)
	require.NoError(t, err)
}
