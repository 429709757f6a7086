package http

import (
	"github.com/samirrijal/pumpedcity/internal/adapters/postgres"
	"github.com/samirrijal/pumpedcity/internal/adapters/valkey"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
	"github.com/samirrijal/pumpedcity/internal/pkg/config"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Parkings *usecases.ParkingService
	Search   config.SearchConfig
	DB       *postgres.DB
	Cache    *valkey.Cache
	// InMemory marks a seed-file store; readiness then skips the database.
	InMemory bool
}

func (d *Dependencies) searchLimits() config.SearchConfig {
	s := d.Search
	if s.MaxRadius <= 0 {
		s.MaxRadius = 5000
	}
	if s.DefaultRadius <= 0 || s.DefaultRadius > s.MaxRadius {
		s.DefaultRadius = 500
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 50
	}
	return s
}
