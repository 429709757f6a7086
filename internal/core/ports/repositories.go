package ports

import (
	"context"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// ParkingRepository persists bicycle parkings.
type ParkingRepository interface {
	Upsert(ctx context.Context, parking *domain.BikeParking) error
	UpsertBatch(ctx context.Context, parkings []domain.BikeParking) error
	GetByID(ctx context.Context, id string) (*domain.BikeParking, error)
	// FindNearby returns parkings within radiusMeters ordered by distance,
	// with Distance filled in.
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.BikeParking, error)
}
