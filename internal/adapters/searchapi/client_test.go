package searchapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/samirrijal/pumpedcity/internal/adapters/searchapi"
	"github.com/samirrijal/pumpedcity/internal/core/domain"
)

func query(endpoint string) domain.SearchQuery {
	return domain.SearchQuery{Endpoint: endpoint, Latitude: "57.708659", Longitude: "11.972188", Radius: "500"}
}

func searchErr(t *testing.T, err error) *domain.SearchError {
	t.Helper()
	var serr *domain.SearchError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *domain.SearchError, got %T (%v)", err, err)
	}
	return serr
}

func TestSearch_Success(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("latitude") != "57.708659" || q.Get("longitude") != "11.972188" || q.Get("radius") != "500" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Distance":120,"Spaces":3,"Address":"Main St","Lat":57.7,"Long":11.9},` +
			`{"Distance":30,"Spaces":1,"Address":"Side St"}]`))
	}))
	defer srv.Close()

	records, err := searchapi.New().Search(context.Background(), query(srv.URL+"/api/v1/parkings"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Address != "Main St" || records[0].Distance != 120 || records[0].Spaces != 3 {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if c, ok := records[0].Coordinate(); !ok || c.Lat != 57.7 || c.Lon != 11.9 {
		t.Errorf("expected coordinate on first record, got %+v %v", c, ok)
	}
	if _, ok := records[1].Coordinate(); ok {
		t.Error("second record has no coordinate")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected exactly 1 request, got %d", hits)
	}
}

func TestSearch_KeepsEndpointQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lang") != "sv" {
			t.Errorf("endpoint query lost: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := searchapi.New().Search(context.Background(), query(srv.URL+"/api/v1/parkings?lang=sv")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	records, err := searchapi.New().Search(context.Background(), query(srv.URL))
	if records != nil {
		t.Errorf("expected no records, got %+v", records)
	}
	if serr := searchErr(t, err); serr.Kind != domain.SearchMalformedResponse {
		t.Errorf("expected malformed_response, got %s", serr.Kind)
	}
}

func TestSearch_ObjectInsteadOfArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Distance":1}`))
	}))
	defer srv.Close()

	_, err := searchapi.New().Search(context.Background(), query(srv.URL))
	if serr := searchErr(t, err); serr.Kind != domain.SearchMalformedResponse {
		t.Errorf("expected malformed_response, got %s", serr.Kind)
	}
}

func TestSearch_StatusError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`"server error"`))
	}))
	defer srv.Close()

	_, err := searchapi.New().Search(context.Background(), query(srv.URL))
	serr := searchErr(t, err)
	if serr.Kind != domain.SearchRequestFailed {
		t.Errorf("expected request_failed, got %s", serr.Kind)
	}
	if serr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", serr.StatusCode)
	}
	if serr.Body != `"server error"` {
		t.Errorf("expected body to be kept, got %q", serr.Body)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected no retry, got %d requests", hits)
	}
}

func TestSearch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := searchapi.New().Search(context.Background(), query(endpoint))
	serr := searchErr(t, err)
	if serr.Kind != domain.SearchRequestFailed || serr.StatusCode != 0 {
		t.Errorf("expected request_failed without status, got %s %d", serr.Kind, serr.StatusCode)
	}
}

func TestSearch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := searchapi.New(searchapi.WithTimeout(20*time.Millisecond)).Search(context.Background(), query(srv.URL))
	serr := searchErr(t, err)
	if serr.Status != "request timed out" {
		t.Errorf("expected timeout status, got %q", serr.Status)
	}
}

func TestSearch_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := searchapi.New().Search(ctx, query(srv.URL))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSearch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"Distance":1,"Spaces":1,"Address":"a very long address indeed"}]`))
	}))
	defer srv.Close()

	_, err := searchapi.New(searchapi.WithMaxBodyBytes(16)).Search(context.Background(), query(srv.URL))
	if serr := searchErr(t, err); serr.Kind != domain.SearchMalformedResponse {
		t.Errorf("expected malformed_response, got %s", serr.Kind)
	}
}

func TestSearch_RelativeEndpoint(t *testing.T) {
	_, err := searchapi.New().Search(context.Background(), query("/api/v1/parkings"))
	if serr := searchErr(t, err); serr.Kind != domain.SearchRequestFailed {
		t.Errorf("expected request_failed, got %s", serr.Kind)
	}
}

func TestSearch_StatusErrorBodyKeepsRunes(t *testing.T) {
	// 511 ASCII bytes then "ö" (2 bytes) straddles the diagnostic cut.
	body := strings.Repeat("x", 511) + "överbelastad"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := searchapi.New().Search(context.Background(), query(srv.URL))
	serr := searchErr(t, err)
	if !utf8.ValidString(serr.Body) {
		t.Errorf("body is not valid UTF-8: %q", serr.Body[len(serr.Body)-8:])
	}
	if want := strings.Repeat("x", 511) + "…"; serr.Body != want {
		t.Errorf("expected body cut before the split rune, got suffix %q", serr.Body[500:])
	}
}
