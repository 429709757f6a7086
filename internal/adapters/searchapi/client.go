package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 4 << 20
	maxDiagnosticBody   = 512
)

// Client implements ports.ParkingSearcher against the HTTP search API.
type Client struct {
	http         *http.Client
	maxBodyBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request, connection and body read included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxBodyBytes caps the size of a response body.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// New creates a search client.
func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: defaultTimeout},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search sends exactly one GET to q.Endpoint and decodes the JSON array
// of parkings. Errors are *domain.SearchError.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.ParkingRecord, error) {
	ctx, span := otel.Tracer("pumpedcity/searchapi").Start(ctx, "parking.search")
	defer span.End()

	target, err := buildURL(q)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.SearchError{Kind: domain.SearchRequestFailed, Status: "invalid endpoint", Err: err}
	}
	span.SetAttributes(attribute.String("http.url", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		span.RecordError(err)
		return nil, &domain.SearchError{Kind: domain.SearchRequestFailed, Status: "invalid endpoint", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, &domain.SearchError{Kind: domain.SearchRequestFailed, Status: transportStatus(err), Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		span.RecordError(err)
		return nil, &domain.SearchError{
			Kind: domain.SearchRequestFailed, StatusCode: resp.StatusCode, Status: transportStatus(err), Err: err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return nil, &domain.SearchError{
			Kind:       domain.SearchRequestFailed,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(body, maxDiagnosticBody),
		}
	}

	if int64(len(body)) > c.maxBodyBytes {
		err := fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
		span.RecordError(err)
		return nil, &domain.SearchError{Kind: domain.SearchMalformedResponse, StatusCode: resp.StatusCode, Err: err}
	}

	var records []domain.ParkingRecord
	if err := json.Unmarshal(body, &records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return nil, &domain.SearchError{
			Kind:       domain.SearchMalformedResponse,
			StatusCode: resp.StatusCode,
			Body:       truncate(body, maxDiagnosticBody),
			Err:        fmt.Errorf("decode parkings: %w", err),
		}
	}

	span.SetAttributes(attribute.Int("parking.results", len(records)))
	return records, nil
}

// buildURL appends the search parameters to the endpoint, keeping any
// query the endpoint already has.
func buildURL(q domain.SearchQuery) (string, error) {
	u, err := url.Parse(q.Endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q is not an absolute URL", q.Endpoint)
	}

	params := u.Query()
	params.Set("latitude", q.Latitude)
	params.Set("longitude", q.Longitude)
	params.Set("radius", q.Radius)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func transportStatus(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	default:
		return ""
	}
}

// truncate cuts b to at most n bytes without splitting a rune.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n]) + "…"
}
