// Package geospatial holds the distance math used by the in-memory store.
package geospatial

import (
	"math"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Around returns a box that contains every point within radiusMeters of c,
// measured on the same sphere as Distance. Near the poles the box widens to
// the full longitude range.
func Around(c domain.Coordinate, radiusMeters float64) domain.Bounds {
	angular := radiusMeters / earthRadiusMeters
	latDelta := toDeg(angular)
	b := domain.Bounds{
		MinLat: math.Max(c.Lat-latDelta, -90),
		MaxLat: math.Min(c.Lat+latDelta, 90),
		MinLon: -180,
		MaxLon: 180,
	}
	if b.MinLat == -90 || b.MaxLat == 90 || angular >= math.Pi/2 {
		return b
	}

	// Widest longitude of the circle sits north or south of c, not due east.
	s := math.Sin(angular) / math.Cos(toRad(c.Lat))
	if s >= 1 {
		return b
	}
	lonDelta := toDeg(math.Asin(s))
	// Boxes crossing the antimeridian keep the full range.
	if c.Lon-lonDelta >= -180 && c.Lon+lonDelta <= 180 {
		b.MinLon, b.MaxLon = c.Lon-lonDelta, c.Lon+lonDelta
	}
	return b
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
