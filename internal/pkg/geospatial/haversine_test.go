package geospatial

import (
	"math"
	"testing"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

func TestDistance(t *testing.T) {
	centralStation := domain.Coordinate{Lat: 57.708659, Lon: 11.972188}

	if d := Distance(centralStation, centralStation); d != 0 {
		t.Errorf("expected 0 for identical points, got %g", d)
	}

	// One degree of latitude is roughly 111.2 km.
	north := domain.Coordinate{Lat: 58.708659, Lon: 11.972188}
	if d := Distance(centralStation, north); math.Abs(d-111195) > 100 {
		t.Errorf("expected ~111195 m, got %g", d)
	}

	if a, b := Distance(centralStation, north), Distance(north, centralStation); a != b {
		t.Errorf("distance not symmetric: %g vs %g", a, b)
	}
}

// destination walks dist meters from c along bearing (degrees from north).
func destination(c domain.Coordinate, bearing, dist float64) domain.Coordinate {
	d := dist / earthRadiusMeters
	th := toRad(bearing)
	lat1, lon1 := toRad(c.Lat), toRad(c.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(th))
	lon2 := lon1 + math.Atan2(math.Sin(th)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	return domain.Coordinate{Lat: lat2 * 180 / math.Pi, Lon: lon2 * 180 / math.Pi}
}

func TestAround_ContainsRadius(t *testing.T) {
	centers := []domain.Coordinate{
		{Lat: 57.708659, Lon: 11.972188},
		{Lat: 0, Lon: 0},
		{Lat: -33.86, Lon: 151.21},
		{Lat: 78.22, Lon: 15.65},
	}
	for _, c := range centers {
		for _, radius := range []float64{100, 1000, 5000, 50000} {
			box := Around(c, radius)
			for bearing := 0.0; bearing < 360; bearing += 5 {
				p := destination(c, bearing, 0.999*radius)
				if d := Distance(c, p); d >= radius {
					t.Fatalf("test point at %g m is not inside %g m", d, radius)
				}
				if !box.Contains(p) {
					t.Errorf("center %+v radius %g bearing %g: %+v outside %+v", c, radius, bearing, p, box)
				}
			}
		}
	}

	c := centers[0]
	if Around(c, 500).Contains(destination(c, 0, 520)) {
		t.Error("point 520 m north should be outside a 500 m box")
	}
}

func TestAround_Edges(t *testing.T) {
	pole := Around(domain.Coordinate{Lat: 89.999, Lon: 10}, 1000)
	if pole.MinLon != -180 || pole.MaxLon != 180 || pole.MaxLat != 90 {
		t.Errorf("expected full longitude range near the pole, got %+v", pole)
	}

	dateline := Around(domain.Coordinate{Lat: 0, Lon: 179.999}, 1000)
	if dateline.MinLon != -180 || dateline.MaxLon != 180 {
		t.Errorf("expected full longitude range across the antimeridian, got %+v", dateline)
	}
}
