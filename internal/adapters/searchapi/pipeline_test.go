package searchapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samirrijal/pumpedcity/internal/adapters/presenter"
	"github.com/samirrijal/pumpedcity/internal/adapters/searchapi"
	"github.com/samirrijal/pumpedcity/internal/core/usecases"
)

func newPage(endpoint string) (*usecases.PageController, *presenter.Table, *presenter.Console) {
	tbl := presenter.NewTable()
	console := presenter.NewConsole(&discard{})
	form := usecases.NewForm(endpoint, "500")
	_ = form.Set(usecases.FieldLatitude, "57.708659")
	_ = form.Set(usecases.FieldLongitude, "11.972188")
	c := usecases.NewPageController(form, nil, searchapi.New(), tbl, nil, console, usecases.PageConfig{})
	return c, tbl, console
}

type discard struct{ lines int }

func (d *discard) Write(p []byte) (int, error) { d.lines++; return len(p), nil }

func TestPipeline_RendersNearestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"Distance":120,"Spaces":3,"Address":"Main St"},` +
			`{"Distance":30,"Spaces":1,"Address":"Side St"},` +
			`{"Distance":500,"Spaces":0,"Address":"Far Rd"}]`))
	}))
	defer srv.Close()

	c, tbl, _ := newPage(srv.URL + "/api/v1/parkings")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][3]string{
		{"30", "1", "Side St"},
		{"120", "3", "Main St"},
		{"500", "0", "Far Rd"},
	}
	rows := tbl.Rows()
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
}

func TestPipeline_StatusErrorAddsNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`"server error"`))
	}))
	defer srv.Close()

	c, tbl, _ := newPage(srv.URL)
	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if rows := tbl.Rows(); len(rows) != 0 {
		t.Errorf("expected no rows, got %v", rows)
	}
}
