package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// GeoJSONMap is a MapView that records what a map would show and can
// export it as a GeoJSON FeatureCollection.
type GeoJSONMap struct {
	mu      sync.Mutex
	center  *domain.Coordinate
	zoom    int
	markers []domain.Coordinate
}

// NewGeoJSONMap creates an empty map.
func NewGeoJSONMap() *GeoJSONMap {
	return &GeoJSONMap{}
}

func (m *GeoJSONMap) SetCenter(c domain.Coordinate, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = &c
	m.zoom = zoom
}

func (m *GeoJSONMap) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}

func (m *GeoJSONMap) AddMarker(c domain.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, c)
}

// Center returns the current center and zoom.
func (m *GeoJSONMap) Center() (domain.Coordinate, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.center == nil {
		return domain.Coordinate{}, 0, false
	}
	return *m.center, m.zoom, true
}

// Markers returns a copy of the current markers.
func (m *GeoJSONMap) Markers() []domain.Coordinate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Coordinate, len(m.markers))
	copy(out, m.markers)
	return out
}

// Mercator projects a WGS84 coordinate to spherical mercator (EPSG:3857)
// meters, the projection OpenStreetMap tiles use.
func Mercator(c domain.Coordinate) orb.Point {
	return project.Point(orb.Point{c.Lon, c.Lat}, project.WGS84.ToMercator)
}

// FeatureCollection builds the map contents: one "center" feature (if set)
// followed by one "marker" feature per marker.
func (m *GeoJSONMap) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if c, zoom, ok := m.Center(); ok {
		f := newPointFeature(c, "center")
		f.Properties["zoom"] = zoom
		fc.Append(f)
	}
	for _, c := range m.Markers() {
		fc.Append(newPointFeature(c, "marker"))
	}
	return fc
}

// WriteTo writes the FeatureCollection as JSON.
func (m *GeoJSONMap) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(m.FeatureCollection())
	if err != nil {
		return 0, fmt.Errorf("marshal geojson: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

func newPointFeature(c domain.Coordinate, role string) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{c.Lon, c.Lat})
	merc := Mercator(c)
	f.Properties["role"] = role
	f.Properties["mercator_x"] = merc.X()
	f.Properties["mercator_y"] = merc.Y()
	return f
}
