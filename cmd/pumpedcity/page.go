package main

import (
	"io"
	"time"

	"github.com/samirrijal/pumpedcity/internal/adapters/geolocation"
	"github.com/samirrijal/pumpedcity/internal/adapters/presenter"
	"github.com/samirrijal/pumpedcity/internal/adapters/searchapi"
	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/ports"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
	"github.com/samirrijal/pumpedcity/internal/pkg/config"
)

// page is one search page session with its console surfaces.
type page struct {
	ctrl  *usecases.PageController
	table *presenter.Table
	gmap  *presenter.GeoJSONMap
}

func newLocator(cfg config.LocationConfig) usecases.Locator {
	var provider ports.LocationProvider
	switch cfg.Provider {
	case "ip":
		provider = geolocation.NewIPLookup(cfg.URL, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	case "static":
		provider = geolocation.NewStatic(domain.Coordinate{Lat: cfg.Lat, Lon: cfg.Lon})
	case "denied":
		provider = geolocation.Denied{}
	default:
		return nil
	}
	return usecases.NewLocationProbe(provider, time.Duration(cfg.RetryDelayMs)*time.Millisecond)
}

func newPage(cfg *config.Config, locator usecases.Locator, alerts io.Writer) *page {
	p := &page{
		table: presenter.NewTable(),
		gmap:  presenter.NewGeoJSONMap(),
	}
	center := domain.Coordinate{Lat: cfg.Page.FallbackLat, Lon: cfg.Page.FallbackLon}

	p.ctrl = usecases.NewPageController(
		usecases.NewForm(cfg.Page.Endpoint, cfg.Page.Radius),
		locator,
		searchapi.New(),
		presenter.Multi{p.table, presenter.NewMarkers(p.gmap)},
		p.gmap,
		presenter.NewConsole(alerts),
		usecases.PageConfig{
			MaxRetries:      cfg.Location.MaxRetries,
			ResultLimit:     cfg.Page.ResultLimit,
			Zoom:            cfg.Page.Zoom,
			Center:          &center,
			SearchTimeout:   time.Duration(cfg.Page.SearchTimeoutMs) * time.Millisecond,
			FallbackMessage: cfg.Page.FallbackMessage,
		},
	)
	return p
}
