package geolocation

import (
	"context"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// Static reports a fixed, configured position.
type Static struct {
	pos domain.Coordinate
}

// NewStatic creates a provider that always answers with pos.
func NewStatic(pos domain.Coordinate) *Static {
	return &Static{pos: pos}
}

// CurrentPosition implements ports.LocationProvider.
func (s *Static) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	return s.pos, nil
}

// Denied is a provider for users who opted out of location sharing.
type Denied struct{}

// CurrentPosition implements ports.LocationProvider.
func (Denied) CurrentPosition(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate{}, domain.ErrPermissionDenied
}
