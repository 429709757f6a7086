package ports

import (
	"context"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// LocationProvider reads the current device position. Implementations
// return domain.ErrPermissionDenied when the user refuses; any other error
// is considered transient.
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}

// ParkingSearcher queries a parking search endpoint.
type ParkingSearcher interface {
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.ParkingRecord, error)
}

// ResultPresenter displays one ranked result set. Clear is always called
// before Render within a search cycle.
type ResultPresenter interface {
	Clear()
	Render(records []domain.ParkingRecord) error
}

// MapView is the map surface results are plotted on.
type MapView interface {
	SetCenter(c domain.Coordinate, zoom int)
	ClearMarkers()
	AddMarker(c domain.Coordinate)
}

// Notifier shows a message to the user.
type Notifier interface {
	Alert(msg string)
}
