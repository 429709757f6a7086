package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func parkingServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("latitude") != "57.7" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchCmd(t *testing.T) {
	srv := parkingServer(t, http.StatusOK, `[
		{"Distance":300,"Spaces":2,"Address":"Far","Lat":57.701,"Long":11.97},
		{"Distance":40,"Spaces":5,"Address":"Near","Lat":57.7005,"Long":11.971}
	]`)
	mapOut := filepath.Join(t.TempDir(), "map.geojson")

	stdout, _, err := run(t, "search", "--endpoint", srv.URL, "--lat", "57.7", "--lon", "11.97", "--radius", "400", "--map-out", mapOut)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	near := strings.Index(stdout, "Near")
	far := strings.Index(stdout, "Far")
	if near < 0 || far < 0 || near > far {
		t.Errorf("expected nearest first, got:\n%s", stdout)
	}

	data, err := os.ReadFile(mapOut)
	if err != nil {
		t.Fatalf("map not written: %v", err)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("invalid geojson: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 3 {
		t.Errorf("expected center plus 2 markers, got %s with %d features", fc.Type, len(fc.Features))
	}
}

func TestSearchCmd_RequestFailed(t *testing.T) {
	srv := parkingServer(t, http.StatusBadGateway, `"upstream down"`)

	stdout, stderr, err := run(t, "search", "--endpoint", srv.URL, "--lat", "57.7", "--lon", "11.97")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "! parking search failed: 502 Bad Gateway") {
		t.Errorf("expected alert on stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected no table, got %q", stdout)
	}
}

func TestSearchCmd_InvalidRadius(t *testing.T) {
	_, stderr, err := run(t, "search", "--endpoint", "http://parkings.test/api/v1/parkings", "--lat", "57.7", "--lon", "11.97", "--radius", "wide")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(stderr, "radius") {
		t.Errorf("expected radius alert, got %q", stderr)
	}
}

func TestLocateCmd_Static(t *testing.T) {
	t.Setenv("PUMPEDCITY_LOCATION_PROVIDER", "static")
	t.Setenv("PUMPEDCITY_LOCATION_LAT", "59.3293")
	t.Setenv("PUMPEDCITY_LOCATION_LON", "18.0686")

	stdout, _, err := run(t, "locate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "state\tlocated") || !strings.Contains(stdout, "center\t59.3293,18.0686") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "(locked)") {
		t.Errorf("expected locked form fields:\n%s", stdout)
	}
}

func TestLocateCmd_DeniedFallsBack(t *testing.T) {
	t.Setenv("PUMPEDCITY_LOCATION_PROVIDER", "denied")

	stdout, _, err := run(t, "locate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "state\tfailed") || !strings.Contains(stdout, "center\t57.708659,11.972188") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "zoom\t14") {
		t.Errorf("expected default zoom:\n%s", stdout)
	}
}
