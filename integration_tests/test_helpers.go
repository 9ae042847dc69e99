package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rubiojr/ssworld/pkg/api"
	"github.com/rubiojr/ssworld/pkg/config"
	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/realtime"
	"github.com/rubiojr/ssworld/pkg/storage"
)

const testPhoto = "data:image/jpeg;base64,/9j/4AAQ"

// referenceNow is the server clock for every test: searches for month or
// date intents are scoped to 2024.
func referenceNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

// testServer is a full stack: config-selected backend, API and hub.
type testServer struct {
	*httptest.Server
	store storage.Store
}

func startServer(t *testing.T, backend string) *testServer {
	t.Helper()
	cfg := &config.Config{StorageDir: t.TempDir(), Backend: backend, PageSize: 50}
	store, err := storage.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("opening %s store: %v", backend, err)
	}
	t.Cleanup(func() { store.Close() })

	srv := api.NewServer(store, realtime.NewHub(0), api.Options{
		PageSize: cfg.PageSize,
		Location: time.UTC,
		Now:      referenceNow,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, store: store}
}

// seed stores records directly so CreatedAt can be chosen.
func (ts *testServer) seed(t *testing.T, records ...core.Record) {
	t.Helper()
	for _, r := range records {
		if err := ts.store.Put(context.Background(), r); err != nil {
			t.Fatalf("seeding %s: %v", r.ID, err)
		}
	}
}

func (ts *testServer) create(t *testing.T, in api.RecordInput) (core.Record, int) {
	t.Helper()
	body, _ := json.Marshal(in)
	resp, err := http.Post(ts.URL+"/api/records", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/records: %v", err)
	}
	defer resp.Body.Close()
	var rec core.Record
	if resp.StatusCode == http.StatusCreated {
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			t.Fatalf("decoding created record: %v", err)
		}
	}
	return rec, resp.StatusCode
}

func (ts *testServer) search(t *testing.T, q string) api.ListRecordsResponse {
	t.Helper()
	resp, err := http.Get(ts.URL + "/api/records?q=" + url.QueryEscape(q))
	if err != nil {
		t.Fatalf("GET /api/records: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search %q: status %d", q, resp.StatusCode)
	}
	var out api.ListRecordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding search response: %v", err)
	}
	return out
}

func ids(records []core.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
