package presenter

import (
	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
)

// Markers is a ResultPresenter that plots records on a map. Records
// without a coordinate are skipped.
type Markers struct {
	view ports.MapView
}

// NewMarkers creates a presenter drawing onto view.
func NewMarkers(view ports.MapView) *Markers {
	return &Markers{view: view}
}

func (m *Markers) Clear() { m.view.ClearMarkers() }

func (m *Markers) Render(records []domain.ParkingRecord) error {
	for _, r := range records {
		if c, ok := r.Coordinate(); ok {
			m.view.AddMarker(c)
		}
	}
	return nil
}

// Multi fans presenter calls out in order.
type Multi []ports.ResultPresenter

func (m Multi) Clear() {
	for _, p := range m {
		p.Clear()
	}
}

// Render stops at the first presenter that fails.
func (m Multi) Render(records []domain.ParkingRecord) error {
	for _, p := range m {
		if err := p.Render(records); err != nil {
			return err
		}
	}
	return nil
}
