package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/surfwatch/internal/marine"
)

const selectSpots = `
SELECT id::text, buoy_id, name, lat, lng, is_public, created_at, provider_overrides
FROM spots`

// PgxPool is the subset of *pgxpool.Pool the spot store needs.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var openPool = pgxpool.New

// PostgresStore reads spots from the catalog's spots table.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pool against databaseURL. The caller closes it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := openPool(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// GetSpot loads one spot. Ids that are not UUIDs cannot exist and report marine.ErrSpotNotFound.
func (s *PostgresStore) GetSpot(ctx context.Context, id string) (marine.Spot, error) {
	spotID, err := uuid.Parse(id)
	if err != nil {
		return marine.Spot{}, marine.ErrSpotNotFound
	}

	spot, err := scanSpot(s.pool.QueryRow(ctx, selectSpots+` WHERE id = $1`, spotID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return marine.Spot{}, marine.ErrSpotNotFound
	}
	if err != nil {
		return marine.Spot{}, fmt.Errorf("get spot %s: %w", id, err)
	}
	return spot, nil
}

// ListSpots returns every spot ordered by name.
func (s *PostgresStore) ListSpots(ctx context.Context) ([]marine.Spot, error) {
	rows, err := s.pool.Query(ctx, selectSpots+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()

	var spots []marine.Spot
	for rows.Next() {
		spot, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("list spots: %w", err)
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	return spots, nil
}

func scanSpot(row pgx.Row) (marine.Spot, error) {
	var (
		spot      marine.Spot
		buoyID    *string
		createdAt time.Time
		overrides []byte
	)
	if err := row.Scan(&spot.ID, &buoyID, &spot.Name, &spot.Lat, &spot.Lng, &spot.IsPublic, &createdAt, &overrides); err != nil {
		return marine.Spot{}, err
	}
	if buoyID != nil {
		spot.BuoyID = *buoyID
	}
	spot.CreatedAt = createdAt.UTC()

	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &spot.ProviderOverrides); err != nil {
			return marine.Spot{}, fmt.Errorf("decode provider overrides for spot %s: %w", spot.ID, err)
		}
	}
	return spot, nil
}
