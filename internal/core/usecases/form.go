package usecases

import (
	"fmt"
	"sync"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// Search form field names.
const (
	FieldAction    = "action"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldRadius    = "radius"
)

// Form holds the search inputs of one page session.
type Form struct {
	mu     sync.RWMutex
	values map[string]string
	locked map[string]bool
}

// NewForm creates a form with the submission target and an initial radius.
func NewForm(action, radius string) *Form {
	return &Form{
		values: map[string]string{
			FieldAction:    action,
			FieldLatitude:  "",
			FieldLongitude: "",
			FieldRadius:    radius,
		},
		locked: make(map[string]bool),
	}
}

// Get returns the current value of a field.
func (f *Form) Get(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[name]
}

// Set edits a field. Locked fields are rejected with domain.ErrFieldLocked.
func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[name]; !ok {
		return fmt.Errorf("unknown form field %q", name)
	}
	if f.locked[name] {
		return fmt.Errorf("%s: %w", name, domain.ErrFieldLocked)
	}
	f.values[name] = value
	return nil
}

// Locked reports whether a field no longer accepts edits.
func (f *Form) Locked(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.locked[name]
}

// fill sets fields regardless of their lock and then locks them.
func (f *Form) fill(values map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, v := range values {
		f.values[name] = v
		f.locked[name] = true
	}
}

// Query snapshots the form into a search query.
func (f *Form) Query() domain.SearchQuery {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.SearchQuery{
		Endpoint:  f.values[FieldAction],
		Latitude:  f.values[FieldLatitude],
		Longitude: f.values[FieldLongitude],
		Radius:    f.values[FieldRadius],
	}
}
