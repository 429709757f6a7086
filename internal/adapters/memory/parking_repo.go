package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/pkg/geospatial"
)

// ParkingRepo implements ports.ParkingRepository in memory, for local runs
// and tests without PostGIS.
type ParkingRepo struct {
	mu       sync.RWMutex
	parkings map[string]domain.BikeParking
	seq      int
}

// NewParkingRepo creates an empty repository.
func NewParkingRepo() *ParkingRepo {
	return &ParkingRepo{parkings: make(map[string]domain.BikeParking)}
}

// LoadFile creates a repository seeded from a JSON array of parkings.
func LoadFile(path string) (*ParkingRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var parkings []domain.BikeParking
	if err := json.Unmarshal(data, &parkings); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}

	r := NewParkingRepo()
	if err := r.UpsertBatch(context.Background(), parkings); err != nil {
		return nil, err
	}
	return r, nil
}

// Upsert inserts or replaces a parking. Parkings without an ID get one.
func (r *ParkingRepo) Upsert(ctx context.Context, p *domain.BikeParking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(p)
	return nil
}

// UpsertBatch inserts or replaces many parkings.
func (r *ParkingRepo) UpsertBatch(ctx context.Context, parkings []domain.BikeParking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range parkings {
		r.upsertLocked(&parkings[i])
	}
	return nil
}

func (r *ParkingRepo) upsertLocked(p *domain.BikeParking) {
	if p.ID == "" {
		r.seq++
		p.ID = strconv.Itoa(r.seq)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	stored := *p
	stored.Distance = nil
	r.parkings[p.ID] = stored
}

// GetByID returns a parking or domain.ErrNotFound.
func (r *ParkingRepo) GetByID(ctx context.Context, id string) (*domain.BikeParking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parkings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// FindNearby filters by bounding box, then by haversine distance.
func (r *ParkingRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.BikeParking, error) {
	center := domain.Coordinate{Lat: lat, Lon: lon}
	box := geospatial.Around(center, radiusMeters)

	r.mu.RLock()
	var found []domain.BikeParking
	for _, p := range r.parkings {
		if !box.Contains(p.Location) {
			continue
		}
		d := geospatial.Distance(center, p.Location)
		if d > radiusMeters {
			continue
		}
		p.Distance = &d
		found = append(found, p)
	}
	r.mu.RUnlock()

	sort.Slice(found, func(i, j int) bool {
		if *found[i].Distance != *found[j].Distance {
			return *found[i].Distance < *found[j].Distance
		}
		return found[i].ID < found[j].ID
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// Len reports the number of stored parkings.
func (r *ParkingRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parkings)
}
