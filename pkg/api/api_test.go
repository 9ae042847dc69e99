package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/realtime"
	"github.com/rubiojr/ssworld/pkg/storage"
)

const testPhoto = "data:image/png;base64,iVBORw0KGgo="

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func seedRecords() []core.Record {
	return []core.Record{
		{ID: "r1", Photo: testPhoto, Category: core.CategoryCosmos, Mood: "Cat on the roof", Reaction: "🐱 喵呜～", CreatedAt: "2024-03-14T10:00:00.000Z", UpdatedAt: "2024-03-14T10:00:00.000Z"},
		{ID: "r2", Photo: testPhoto, Category: core.CategorySpacetime, Mood: "雨后的<彩虹>", CreatedAt: "2024-05-02T08:00:00.000Z", UpdatedAt: "2024-05-02T08:00:00.000Z"},
		{ID: "r3", Photo: testPhoto, Category: core.CategoryCosmos, Mood: "old cat", CreatedAt: "2023-03-01T08:00:00.000Z", UpdatedAt: "2023-03-01T08:00:00.000Z"},
	}
}

func setupTestServer(t *testing.T) (*Server, *realtime.Hub, *httptest.Server) {
	t.Helper()
	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.PutAll(ctx, seedRecords()); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	hub := realtime.NewHub(16)
	srv := NewServer(store, hub, Options{
		PageSize: 2,
		Debounce: 10 * time.Millisecond,
		Location: time.UTC,
		Now:      fixedNow,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, hub, ts
}

func getJSON(t *testing.T, target string, out any) int {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", target, err)
		}
	}
	return resp.StatusCode
}

func send(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, target, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListRecords(t *testing.T) {
	_, _, ts := setupTestServer(t)

	tests := []struct {
		name    string
		query   string
		ids     []string
		count   int
		intent  string
		hasMore bool
	}{
		{name: "everything, first page", query: "", ids: []string{"r2", "r1"}, count: 3, intent: `text("")`, hasMore: true},
		{name: "second page", query: "page=2", ids: []string{"r3"}, count: 3, intent: `text("")`},
		{name: "text", query: "q=CAT", ids: []string{"r1", "r3"}, count: 2, intent: `text("CAT")`},
		{name: "month is this year only", query: "q=" + url.QueryEscape("3月"), ids: []string{"r1"}, count: 1, intent: "month(3)"},
		{name: "year", query: "q=2023", ids: []string{"r3"}, count: 1, intent: "year(2023)"},
		{name: "category", query: "q=" + url.QueryEscape("时空"), ids: []string{"r2"}, count: 1, intent: `text("时空")`},
		{name: "no match", query: "q=" + url.QueryEscape("银河"), ids: []string{}, count: 0, intent: `text("银河")`},
		{name: "custom limit", query: "limit=10", ids: []string{"r2", "r1", "r3"}, count: 3, intent: `text("")`},
		{name: "page past the end", query: "page=9", ids: []string{}, count: 3, intent: `text("")`},
		{name: "huge page", query: "limit=2&page=4611686018427387905", ids: []string{}, count: 3, intent: `text("")`},
		{name: "huge limit", query: "limit=9223372036854775807", ids: []string{"r2", "r1", "r3"}, count: 3, intent: `text("")`},
		{name: "huge limit and page", query: "limit=9223372036854775807&page=9223372036854775807", ids: []string{}, count: 3, intent: `text("")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp ListRecordsResponse
			if code := getJSON(t, ts.URL+"/api/records?"+tt.query, &resp); code != http.StatusOK {
				t.Fatalf("expected 200, got %d", code)
			}
			if resp.Count != tt.count || resp.HasMore != tt.hasMore {
				t.Errorf("count=%d hasMore=%v, expected %d/%v", resp.Count, resp.HasMore, tt.count, tt.hasMore)
			}
			if resp.Intent != tt.intent {
				t.Errorf("expected intent %s, got %s", tt.intent, resp.Intent)
			}
			if resp.Records == nil {
				t.Fatal("records must be an array, got null")
			}
			got := make([]string, len(resp.Records))
			for i, r := range resp.Records {
				got[i] = r.ID
			}
			if strings.Join(got, ",") != strings.Join(tt.ids, ",") {
				t.Errorf("expected ids %v, got %v", tt.ids, got)
			}
		})
	}
}

func TestCreateRecord(t *testing.T) {
	_, hub, ts := setupTestServer(t)
	_, events := hub.Register()

	resp := send(t, http.MethodPost, ts.URL+"/api/records", RecordInput{
		Photo:    testPhoto,
		Category: core.CategorySpacetime,
		Mood:     "  新的一天  ",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var rec core.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.Mood != "新的一天" || rec.Reaction == "" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.CreatedAt != "2024-06-01T12:00:00.000Z" {
		t.Errorf("expected server clock timestamp, got %s", rec.CreatedAt)
	}

	select {
	case ev := <-events:
		if ev.Type != realtime.RecordCreated || ev.ID != rec.ID {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Error("no realtime event for create")
	}

	var fetched core.Record
	if code := getJSON(t, ts.URL+"/api/records/"+rec.ID, &fetched); code != http.StatusOK || fetched != rec {
		t.Errorf("GET after create: code=%d record=%+v", code, fetched)
	}
}

func TestCreateRecordValidation(t *testing.T) {
	_, _, ts := setupTestServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing photo", RecordInput{Category: core.CategoryCosmos, Mood: "hi"}, http.StatusBadRequest},
		{"gif photo", RecordInput{Photo: "data:image/gif;base64,AAAA", Category: core.CategoryCosmos, Mood: "hi"}, http.StatusBadRequest},
		{"bad category", RecordInput{Photo: testPhoto, Category: "地球", Mood: "hi"}, http.StatusBadRequest},
		{"blank mood", RecordInput{Photo: testPhoto, Category: core.CategoryCosmos, Mood: "   "}, http.StatusBadRequest},
		{"long mood", RecordInput{Photo: testPhoto, Category: core.CategoryCosmos, Mood: strings.Repeat("字", 201)}, http.StatusBadRequest},
		{"unknown field", map[string]string{"photo": testPhoto, "colour": "red"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := send(t, http.MethodPost, ts.URL+"/api/records", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
			var e ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
				t.Errorf("expected an error body, got %+v (%v)", e, err)
			}
		})
	}
}

func TestUpdateRecordKeepsIdentity(t *testing.T) {
	_, _, ts := setupTestServer(t)

	resp := send(t, http.MethodPut, ts.URL+"/api/records/r1", RecordInput{
		Photo:    testPhoto,
		Category: core.CategorySpacetime,
		Mood:     "edited",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var rec core.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	orig := seedRecords()[0]
	if rec.ID != orig.ID || rec.CreatedAt != orig.CreatedAt || rec.Reaction != orig.Reaction {
		t.Errorf("identity changed: %+v", rec)
	}
	if rec.Mood != "edited" || rec.Category != core.CategorySpacetime || rec.UpdatedAt != "2024-06-01T12:00:00.000Z" {
		t.Errorf("content not updated: %+v", rec)
	}

	resp = send(t, http.MethodPut, ts.URL+"/api/records/nope", RecordInput{Photo: testPhoto, Category: core.CategoryCosmos, Mood: "x"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", resp.StatusCode)
	}
}

func TestDeleteRecord(t *testing.T) {
	_, hub, ts := setupTestServer(t)
	_, events := hub.Register()

	resp := send(t, http.MethodDelete, ts.URL+"/api/records/r2", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if ev := <-events; ev.Type != realtime.RecordDeleted || ev.ID != "r2" {
		t.Errorf("unexpected event %+v", ev)
	}

	if code := getJSON(t, ts.URL+"/api/records/r2", nil); code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", code)
	}
	resp = send(t, http.MethodDelete, ts.URL+"/api/records/r2", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice, got %d", resp.StatusCode)
	}
}

func TestStatsAndHealth(t *testing.T) {
	_, _, ts := setupTestServer(t)

	var stats StatsResponse
	if code := getJSON(t, ts.URL+"/api/stats", &stats); code != http.StatusOK {
		t.Fatalf("stats: %d", code)
	}
	if stats.Records != 3 || stats.ByCategory["宇宙"] != 2 || stats.Newest != "2024-05-02T08:00:00.000Z" {
		t.Errorf("unexpected stats %+v", stats)
	}

	var health HealthResponse
	if code := getJSON(t, ts.URL+"/health", &health); code != http.StatusOK || health.Status != "ok" || health.Version == "" {
		t.Errorf("unexpected health %d %+v", code, health)
	}
}

func getPage(t *testing.T, target string) (string, *http.Response) {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return buf.String(), resp
}

func TestIndexPage(t *testing.T) {
	_, _, ts := setupTestServer(t)

	html, resp := getPage(t, ts.URL+"/?q=cat")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %s", ct)
	}
	for _, want := range []string{`<mark class="highlight">Cat</mark>`, "找到 2 条记录", "2024年3月", "2023年3月"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	html, _ = getPage(t, ts.URL+"/")
	if strings.Contains(html, "<彩虹>") || !strings.Contains(html, "&lt;彩虹&gt;") {
		t.Error("mood text was not escaped")
	}

	html, resp = getPage(t, ts.URL+"/?page=4611686018427387905")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("huge page: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(html, "2023年3月") {
		t.Error("huge page should show every record")
	}

	if code := getJSON(t, ts.URL+"/nothing-here", nil); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", code)
	}
}

func TestCorsPreflight(t *testing.T) {
	_, _, ts := setupTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/records", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("unexpected preflight response %d %v", resp.StatusCode, resp.Header)
	}
}
