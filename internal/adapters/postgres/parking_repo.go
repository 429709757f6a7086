package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// ParkingRepo implements ports.ParkingRepository with pgx and PostGIS.
type ParkingRepo struct {
	db *DB
}

// NewParkingRepo creates a new ParkingRepo.
func NewParkingRepo(db *DB) *ParkingRepo {
	return &ParkingRepo{db: db}
}

const upsertParkingSQL = `
	INSERT INTO bike_parkings (external_id, address, location, spaces, capacity, updated_at)
	VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, now())
	ON CONFLICT (external_id) DO UPDATE
	SET address = EXCLUDED.address, location = EXCLUDED.location,
	    spaces = EXCLUDED.spaces, capacity = EXCLUDED.capacity,
	    updated_at = now()
	RETURNING id
`

// Upsert inserts or updates a single parking, keyed by its external ID.
func (r *ParkingRepo) Upsert(ctx context.Context, p *domain.BikeParking) error {
	return r.db.Pool.QueryRow(ctx, upsertParkingSQL,
		externalID(p), p.Address, p.Location.Lon, p.Location.Lat, p.Spaces, p.Capacity,
	).Scan(&p.ID)
}

// UpsertBatch inserts many parkings using pgx.Batch.
func (r *ParkingRepo) UpsertBatch(ctx context.Context, parkings []domain.BikeParking) error {
	batch := &pgx.Batch{}
	for i := range parkings {
		p := &parkings[i]
		batch.Queue(upsertParkingSQL,
			externalID(p), p.Address, p.Location.Lon, p.Location.Lat, p.Spaces, p.Capacity)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range parkings {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// GetByID returns a parking by ID.
func (r *ParkingRepo) GetByID(ctx context.Context, id string) (*domain.BikeParking, error) {
	var p domain.BikeParking
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, address,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       spaces, capacity, updated_at
		FROM bike_parkings WHERE id::text = $1 OR external_id = $1
		LIMIT 1
	`, id).Scan(
		&p.ID, &p.Address,
		&p.Location.Lat, &p.Location.Lon,
		&p.Spaces, &p.Capacity, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindNearby returns parkings within radiusMeters using PostGIS ST_DWithin.
func (r *ParkingRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.BikeParking, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, address,
		       ST_Y(location::geometry) as lat,
		       ST_X(location::geometry) as lon,
		       spaces, capacity, updated_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) as distance
		FROM bike_parkings
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance, id
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parkings []domain.BikeParking
	for rows.Next() {
		var p domain.BikeParking
		var dist float64
		if err := rows.Scan(
			&p.ID, &p.Address,
			&p.Location.Lat, &p.Location.Lon,
			&p.Spaces, &p.Capacity, &p.UpdatedAt,
			&dist,
		); err != nil {
			return nil, err
		}
		p.Distance = &dist
		parkings = append(parkings, p)
	}
	return parkings, rows.Err()
}

// externalID keys a parking for upserts. Seed rows without an ID are keyed
// by address and position so re-imports stay idempotent.
func externalID(p *domain.BikeParking) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("%s@%.6f,%.6f", p.Address, p.Location.Lat, p.Location.Lon)
}
