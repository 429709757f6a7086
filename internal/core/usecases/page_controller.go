package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
)

// Page defaults.
const (
	DefaultZoom            = 14
	DefaultMaxRetries      = 3
	DefaultSearchTimeout   = 10 * time.Second
	DefaultFallbackMessage = "Ett okänt fel har uppstått"
)

// DefaultCenter is where the map goes when the device position is unknown.
var DefaultCenter = domain.Coordinate{Lat: 57.708659, Lon: 11.972188}

// GeoState is the state of the geolocation flow.
type GeoState int

const (
	GeoIdle GeoState = iota
	GeoProbing
	GeoLocated
	GeoFailed
)

func (s GeoState) String() string {
	return [...]string{"idle", "probing", "located", "failed"}[s]
}

// SearchState is the state of the most recent search cycle.
type SearchState int

const (
	SearchIdle SearchState = iota
	SearchSearching
	SearchPresented
	SearchFailed
)

func (s SearchState) String() string {
	return [...]string{"idle", "searching", "presented", "failed"}[s]
}

// Locator acquires the device position. *LocationProbe implements it.
type Locator interface {
	Acquire(ctx context.Context, maxRetries int) (domain.Coordinate, error)
}

// PageConfig tunes a PageController. Zero values select the defaults,
// except MaxRetries where zero means a single attempt.
type PageConfig struct {
	MaxRetries      int
	ResultLimit     int
	Zoom            int
	Center          *domain.Coordinate
	SearchTimeout   time.Duration
	FallbackMessage string
}

func (c PageConfig) withDefaults() PageConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.ResultLimit <= 0 {
		c.ResultLimit = DefaultResultLimit
	}
	if c.Zoom <= 0 {
		c.Zoom = DefaultZoom
	}
	if c.Center == nil {
		center := DefaultCenter
		c.Center = &center
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.FallbackMessage == "" {
		c.FallbackMessage = DefaultFallbackMessage
	}
	return c
}

// PageController drives the search page: it locates the user on load and
// runs one search cycle per submission.
type PageController struct {
	locator   Locator
	searcher  ports.ParkingSearcher
	presenter ports.ResultPresenter
	mapView   ports.MapView
	notifier  ports.Notifier
	validator *queryValidator
	form      *Form
	cfg       PageConfig

	mu          sync.Mutex
	geoState    GeoState
	searchState SearchState
	seq         uint64
	cancel      context.CancelFunc
}

// NewPageController wires a controller. locator and mapView may be nil when
// the platform has no location facility or no map.
func NewPageController(
	form *Form,
	locator Locator,
	searcher ports.ParkingSearcher,
	presenter ports.ResultPresenter,
	mapView ports.MapView,
	notifier ports.Notifier,
	cfg PageConfig,
) *PageController {
	return &PageController{
		locator:   locator,
		searcher:  searcher,
		presenter: presenter,
		mapView:   mapView,
		notifier:  notifier,
		validator: newQueryValidator(),
		form:      form,
		cfg:       cfg.withDefaults(),
	}
}

// Form returns the page's search form.
func (c *PageController) Form() *Form { return c.form }

// State reports the geolocation and search states.
func (c *PageController) State() (GeoState, SearchState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geoState, c.searchState
}

// Load runs the geolocation flow. Failures are not reported to the user;
// the map is centered on the fallback position instead.
func (c *PageController) Load(ctx context.Context) GeoState {
	c.setGeoState(GeoProbing)

	if c.locator == nil {
		slog.Info("no location provider, using default map center")
		c.center(*c.cfg.Center)
		c.setGeoState(GeoFailed)
		return GeoFailed
	}

	pos, err := c.locator.Acquire(ctx, c.cfg.MaxRetries)
	if err != nil {
		slog.Info("geolocation failed, using default map center", "error", err)
		c.center(*c.cfg.Center)
		c.setGeoState(GeoFailed)
		return GeoFailed
	}

	c.form.fill(map[string]string{
		FieldLatitude:  strconv.FormatFloat(pos.Lat, 'f', -1, 64),
		FieldLongitude: strconv.FormatFloat(pos.Lon, 'f', -1, 64),
	})
	c.center(pos)
	c.setGeoState(GeoLocated)
	return GeoLocated
}

// Submit runs one search cycle with the form's current values. A newer
// Submit cancels this one; a superseded cycle renders nothing and returns
// domain.ErrSuperseded.
func (c *PageController) Submit(ctx context.Context) error {
	q := c.form.Query()

	if err := c.validator.Check(q); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.searchState = SearchFailed
		c.alert(err)
		return err
	}

	searchCtx, cancel := context.WithTimeout(ctx, c.cfg.SearchTimeout)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	c.cancel = cancel
	c.searchState = SearchSearching
	c.mu.Unlock()

	records, err := c.searcher.Search(searchCtx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		slog.Debug("discarding superseded search results", "seq", seq)
		return domain.ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		c.searchState = SearchFailed
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		slog.Warn("parking search failed", "endpoint", q.Endpoint, "error", err)
		c.alert(err)
		return err
	}

	ranked := Rank(records, c.cfg.ResultLimit)
	c.presenter.Clear()
	if err := c.presenter.Render(ranked); err != nil {
		c.searchState = SearchFailed
		c.alert(err)
		return fmt.Errorf("render results: %w", err)
	}

	c.searchState = SearchPresented
	slog.Info("parking search presented", "received", len(records), "shown", len(ranked))
	return nil
}

func (c *PageController) setGeoState(s GeoState) {
	c.mu.Lock()
	c.geoState = s
	c.mu.Unlock()
}

func (c *PageController) center(pos domain.Coordinate) {
	if c.mapView != nil {
		c.mapView.SetCenter(pos, c.cfg.Zoom)
	}
}

// alert must be called with c.mu held.
func (c *PageController) alert(err error) {
	if c.notifier == nil {
		return
	}
	msg := c.cfg.FallbackMessage
	var um domain.UserMessager
	if errors.As(err, &um) {
		if m := um.UserMessage(); m != "" {
			msg = m
		}
	}
	c.notifier.Alert(msg)
}
