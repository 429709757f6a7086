package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
	"github.com/samirrijal/pumpedcity/internal/pkg/metrics"
)

// MaxNearbyLimit caps the number of parkings a single query may return.
const MaxNearbyLimit = 100

// ParkingService handles parking lookups for the search API.
type ParkingService struct {
	parkings ports.ParkingRepository
	cache    ports.CacheService
}

// NewParkingService creates a new ParkingService. cache may be nil.
func NewParkingService(parkings ports.ParkingRepository, cache ports.CacheService) *ParkingService {
	return &ParkingService{parkings: parkings, cache: cache}
}

// FindNearby returns parkings within radiusMeters of the given point,
// nearest first.
func (s *ParkingService) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.BikeParking, error) {
	if limit <= 0 || limit > MaxNearbyLimit {
		limit = MaxNearbyLimit
	}

	ctx, span := otel.Tracer("pumpedcity/usecases").Start(ctx, "parkings.find_nearby")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("parking.lat", lat),
		attribute.Float64("parking.lon", lon),
		attribute.Float64("parking.radius", radiusMeters),
	)

	// Try cache
	cacheKey := fmt.Sprintf("parkings:nearby:%g:%g:%g:%d", lat, lon, radiusMeters, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var parkings []domain.BikeParking
			if err := json.Unmarshal(data, &parkings); err == nil {
				metrics.CacheHits.WithLabelValues("parkings_nearby").Inc()
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return parkings, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("parkings_nearby").Inc()
	}

	parkings, err := s.parkings.FindNearby(ctx, lat, lon, radiusMeters, limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("find nearby parkings: %w", err)
	}
	span.SetAttributes(attribute.Int("parking.results", len(parkings)))

	// Occupancy changes, keep it short
	if s.cache != nil {
		if data, err := json.Marshal(parkings); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return parkings, nil
}

// GetByID returns a single parking.
func (s *ParkingService) GetByID(ctx context.Context, id string) (*domain.BikeParking, error) {
	cacheKey := parkingIDKey(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.BikeParking
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("parkings_id").Inc()
				return &p, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("parkings_id").Inc()
	}

	p, err := s.parkings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return p, nil
}

// Import upserts a batch of parkings, e.g. from a seed file.
func (s *ParkingService) Import(ctx context.Context, parkings []domain.BikeParking) error {
	if len(parkings) == 0 {
		return nil
	}
	for i, p := range parkings {
		if p.Address == "" {
			return fmt.Errorf("parking %d: address is required", i)
		}
		if !p.Location.Valid() {
			return fmt.Errorf("parking %d (%s): location out of range", i, p.Address)
		}
	}
	if err := s.parkings.UpsertBatch(ctx, parkings); err != nil {
		return err
	}

	// Nearby entries are left to expire.
	if s.cache != nil {
		for _, p := range parkings {
			if p.ID == "" {
				continue
			}
			if err := s.cache.Delete(ctx, parkingIDKey(p.ID)); err != nil {
				slog.Warn("evict cached parking", "id", p.ID, "error", err)
			}
		}
	}
	return nil
}

func parkingIDKey(id string) string {
	return "parkings:id:" + id
}
