package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
)

// --- Mock ParkingRepository ---

type mockParkingRepo struct {
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error)
	getByIDFn     func(ctx context.Context, id string) (*domain.BikeParking, error)
	upsertBatchFn func(ctx context.Context, ps []domain.BikeParking) error
}

func (m *mockParkingRepo) Upsert(ctx context.Context, p *domain.BikeParking) error { return nil }

func (m *mockParkingRepo) UpsertBatch(ctx context.Context, ps []domain.BikeParking) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, ps)
	}
	return nil
}

func (m *mockParkingRepo) GetByID(ctx context.Context, id string) (*domain.BikeParking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockParkingRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("valkey nil message")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// --- Tests ---

func TestParkingService_FindNearby(t *testing.T) {
	d := 42.0
	repo := &mockParkingRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
			return []domain.BikeParking{
				{ID: "1", Address: "Kungsportsavenyen 1", Spaces: 4, Distance: &d},
			}, nil
		},
	}

	svc := usecases.NewParkingService(repo, nil)
	ps, err := svc.FindNearby(context.Background(), 57.70, 11.97, 500, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 1 || ps[0].Address != "Kungsportsavenyen 1" {
		t.Fatalf("unexpected parkings %+v", ps)
	}
}

func TestParkingService_FindNearby_ClampLimit(t *testing.T) {
	called := false
	repo := &mockParkingRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
			called = true
			if limit != usecases.MaxNearbyLimit {
				t.Errorf("expected limit clamped to %d, got %d", usecases.MaxNearbyLimit, limit)
			}
			return nil, nil
		},
	}

	svc := usecases.NewParkingService(repo, nil)
	_, _ = svc.FindNearby(context.Background(), 57.7, 11.9, 500, 9999)
	if !called {
		t.Error("repo was not called")
	}
}

func TestParkingService_FindNearby_UsesCache(t *testing.T) {
	calls := 0
	repo := &mockParkingRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
			calls++
			return []domain.BikeParking{{ID: "1", Address: "Avenyn"}}, nil
		},
	}

	svc := usecases.NewParkingService(repo, newMockCache())
	for i := 0; i < 3; i++ {
		ps, err := svc.FindNearby(context.Background(), 57.7, 11.9, 500, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ps) != 1 {
			t.Fatalf("expected 1 parking, got %d", len(ps))
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repo call, got %d", calls)
	}
}

func TestParkingService_FindNearby_RepoError(t *testing.T) {
	repo := &mockParkingRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := usecases.NewParkingService(repo, nil)
	if _, err := svc.FindNearby(context.Background(), 57.7, 11.9, 500, 5); err == nil {
		t.Error("expected error")
	}
}

func TestParkingService_GetByID_NotFound(t *testing.T) {
	svc := usecases.NewParkingService(&mockParkingRepo{}, nil)
	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestParkingService_Import_RejectsInvalid(t *testing.T) {
	called := false
	repo := &mockParkingRepo{
		upsertBatchFn: func(ctx context.Context, ps []domain.BikeParking) error {
			called = true
			return nil
		},
	}

	svc := usecases.NewParkingService(repo, nil)
	err := svc.Import(context.Background(), []domain.BikeParking{
		{Address: "Avenyn", Location: domain.Coordinate{Lat: 57.7, Lon: 11.97}},
		{Address: "Nowhere", Location: domain.Coordinate{Lat: 95, Lon: 11.97}},
	})
	if err == nil {
		t.Fatal("expected error for out-of-range location")
	}
	if called {
		t.Error("repo must not be called for invalid input")
	}
}

func TestParkingService_Import(t *testing.T) {
	var got []domain.BikeParking
	repo := &mockParkingRepo{
		upsertBatchFn: func(ctx context.Context, ps []domain.BikeParking) error {
			got = ps
			return nil
		},
	}

	svc := usecases.NewParkingService(repo, nil)
	err := svc.Import(context.Background(), []domain.BikeParking{
		{Address: "Avenyn", Location: domain.Coordinate{Lat: 57.7, Lon: 11.97}, Spaces: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 upserted parking, got %d", len(got))
	}
}

func TestParkingService_FindNearby_CacheKeyKeepsRadius(t *testing.T) {
	var radii []float64
	repo := &mockParkingRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.BikeParking, error) {
			radii = append(radii, radius)
			return nil, nil
		},
	}

	svc := usecases.NewParkingService(repo, newMockCache())
	for _, r := range []float64{500, 500.4, 500} {
		if _, err := svc.FindNearby(context.Background(), 57.7, 11.9, r, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(radii) != 2 || radii[0] != 500 || radii[1] != 500.4 {
		t.Errorf("expected repo calls for 500 and 500.4 only, got %v", radii)
	}
}

func TestParkingService_Import_EvictsCachedParkings(t *testing.T) {
	stored := domain.BikeParking{ID: "p1", Address: "Avenyn", Location: domain.Coordinate{Lat: 57.7, Lon: 11.97}, Spaces: 2}
	repo := &mockParkingRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.BikeParking, error) {
			p := stored
			return &p, nil
		},
		upsertBatchFn: func(ctx context.Context, ps []domain.BikeParking) error {
			stored = ps[0]
			return nil
		},
	}
	cache := newMockCache()
	svc := usecases.NewParkingService(repo, cache)

	if _, err := svc.GetByID(context.Background(), "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.data["parkings:id:p1"]; !ok {
		t.Fatal("expected parking to be cached")
	}

	updated := stored
	updated.Spaces = 9
	if err := svc.Import(context.Background(), []domain.BikeParking{updated}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.data["parkings:id:p1"]; ok {
		t.Error("expected cached parking to be evicted")
	}

	p, err := svc.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Spaces != 9 {
		t.Errorf("expected fresh spaces 9, got %d", p.Spaces)
	}
}
