package geolocation_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samirrijal/pumpedcity/internal/adapters/geolocation"
	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
)

func TestIPLookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":57.7072,"lon":11.9668}`))
	}))
	defer srv.Close()

	pos, err := geolocation.NewIPLookup(srv.URL, time.Second).CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 57.7072 || pos.Lon != 11.9668 {
		t.Errorf("unexpected position %+v", pos)
	}
}

func TestIPLookup_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := geolocation.NewIPLookup(srv.URL, time.Second).CurrentPosition(context.Background())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestIPLookup_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := geolocation.NewIPLookup(srv.URL, time.Second).CurrentPosition(context.Background())
	if !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Errorf("expected ErrLocationUnavailable, got %v", err)
	}
}

func TestIPLookup_RetriedByProbe(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","lat":1.5,"lon":2.5}`))
	}))
	defer srv.Close()

	probe := usecases.NewLocationProbe(geolocation.NewIPLookup(srv.URL, time.Second), time.Millisecond)
	pos, err := probe.Acquire(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 1.5 || calls != 3 {
		t.Errorf("expected success on 3rd call, got %+v after %d calls", pos, calls)
	}
}

func TestDenied(t *testing.T) {
	probe := usecases.NewLocationProbe(geolocation.Denied{}, time.Millisecond)
	_, err := probe.Acquire(context.Background(), 3)
	var lerr *domain.LocationError
	if !errors.As(err, &lerr) || lerr.Kind != domain.LocationPermissionDenied || lerr.Attempts != 1 {
		t.Errorf("expected permission denied after 1 attempt, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	want := domain.Coordinate{Lat: 57.708659, Lon: 11.972188}
	got, err := geolocation.NewStatic(want).CurrentPosition(context.Background())
	if err != nil || got != want {
		t.Errorf("expected %+v, got %+v (%v)", want, got, err)
	}
}
