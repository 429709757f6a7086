package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

// DefaultLookupURL is an ip-api.com compatible endpoint.
const DefaultLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// lookupResponse is the subset of the ip-api.com answer we read.
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLookup estimates the position from the public IP address.
type IPLookup struct {
	url    string
	client *http.Client
}

// NewIPLookup creates a provider querying url. An empty url selects
// DefaultLookupURL.
func NewIPLookup(url string, timeout time.Duration) *IPLookup {
	if url == "" {
		url = DefaultLookupURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &IPLookup{url: url, client: &http.Client{Timeout: timeout}}
}

// CurrentPosition implements ports.LocationProvider. 401 and 403 answers
// map to domain.ErrPermissionDenied, everything else is transient.
func (l *IPLookup) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.Coordinate{}, fmt.Errorf("%w: lookup answered %s", domain.ErrPermissionDenied, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return domain.Coordinate{}, fmt.Errorf("%w: lookup answered %s", domain.ErrLocationUnavailable, resp.Status)
	}

	var lr lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&lr); err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: decode lookup: %v", domain.ErrLocationUnavailable, err)
	}
	if lr.Status != "" && lr.Status != "success" {
		return domain.Coordinate{}, fmt.Errorf("%w: %s", domain.ErrLocationUnavailable, lr.Message)
	}

	pos := domain.Coordinate{Lat: lr.Lat, Lon: lr.Lon}
	if !pos.Valid() {
		return domain.Coordinate{}, fmt.Errorf("%w: lookup returned %v,%v", domain.ErrLocationUnavailable, lr.Lat, lr.Lon)
	}
	return pos, nil
}
