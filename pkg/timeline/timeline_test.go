package timeline

import (
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
)

// newestFirst builds n records one day apart, newest first, starting at start.
func newestFirst(n int, start time.Time) []core.Record {
	out := make([]core.Record, n)
	for i := range out {
		out[i] = core.Record{
			ID:        fmt.Sprintf("r%02d", i),
			CreatedAt: core.FormatTimestamp(start.AddDate(0, 0, -i)),
		}
	}
	return out
}

func TestGroupWindowing(t *testing.T) {
	records := newestFirst(45, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		pageCount   int
		wantVisible int
		wantMore    bool
	}{
		{1, 20, true},
		{2, 40, true},
		{3, 45, false},
		{4, 45, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pages=%d", tt.pageCount), func(t *testing.T) {
			tl := GroupIn(records, 20, tt.pageCount, time.UTC)
			if tl.Visible != tt.wantVisible {
				t.Errorf("Visible: expected %d, got %d", tt.wantVisible, tl.Visible)
			}
			if tl.HasMore != tt.wantMore {
				t.Errorf("HasMore: expected %v, got %v", tt.wantMore, tl.HasMore)
			}
			if tl.Total != 45 {
				t.Errorf("Total: expected 45, got %d", tl.Total)
			}
			n := 0
			for _, g := range tl.Groups {
				n += len(g.Records)
			}
			if n != tt.wantVisible {
				t.Errorf("grouped %d records, expected %d", n, tt.wantVisible)
			}
		})
	}
}

func TestGroupWindowIsPrefix(t *testing.T) {
	records := newestFirst(30, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC))
	tl := GroupIn(records, 10, 1, time.UTC)

	var got []string
	for _, g := range tl.Groups {
		for _, r := range g.Records {
			got = append(got, r.ID)
		}
	}
	want := []string{"r00", "r01", "r02", "r03", "r04", "r05", "r06", "r07", "r08", "r09"}
	if !slices.Equal(got, want) {
		t.Errorf("expected prefix %v, got %v", want, got)
	}
}

func TestGroupOrdering(t *testing.T) {
	records := []core.Record{
		{ID: "a", CreatedAt: "2023-12-05T00:00:00Z"},
		{ID: "b", CreatedAt: "2024-02-10T00:00:00Z"},
		{ID: "c", CreatedAt: "2023-12-20T00:00:00Z"},
		{ID: "d", CreatedAt: "2024-11-01T00:00:00Z"},
		{ID: "e", CreatedAt: "2024-02-01T00:00:00Z"},
	}

	tl := GroupIn(records, 20, 1, time.UTC)

	type bucket struct {
		year, month int
		ids         string
	}
	var got []bucket
	for _, g := range tl.Groups {
		s := ""
		for _, r := range g.Records {
			s += r.ID
		}
		got = append(got, bucket{g.Year, g.Month, s})
	}
	want := []bucket{
		{2024, 11, "d"},
		{2024, 2, "be"},
		{2023, 12, "ac"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGroupUnparsableTimestampsSortLast(t *testing.T) {
	records := []core.Record{
		{ID: "bad", CreatedAt: "???"},
		{ID: "ok", CreatedAt: "2020-01-01T00:00:00Z"},
	}
	tl := GroupIn(records, 20, 1, time.UTC)

	if len(tl.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(tl.Groups))
	}
	last := tl.Groups[1]
	if last.Year != 0 || last.Month != 0 || last.Records[0].ID != "bad" {
		t.Errorf("expected zero bucket last, got %+v", last)
	}
}

func TestGroupEmpty(t *testing.T) {
	tl := Group(nil, 20, 1)
	if !tl.Empty() {
		t.Error("expected empty timeline")
	}
	if tl.HasMore || len(tl.Groups) != 0 {
		t.Errorf("unexpected empty timeline contents: %+v", tl)
	}
}

func TestGroupClampsArguments(t *testing.T) {
	records := newestFirst(25, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC))

	tl := GroupIn(records, 0, 0, time.UTC)
	if tl.Visible != DefaultPageSize || !tl.HasMore {
		t.Errorf("expected default page size window, got visible=%d more=%v", tl.Visible, tl.HasMore)
	}
}

func TestGroupHugePageCount(t *testing.T) {
	records := newestFirst(25, time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		pageSize  int
		pageCount int
	}{
		{2, math.MaxInt/2 + 2},
		{20, math.MaxInt},
		{math.MaxInt, 2},
		{math.MaxInt, math.MaxInt},
		{25, 1},
		{5, 5},
	}
	for _, tt := range tests {
		tl := GroupIn(records, tt.pageSize, tt.pageCount, time.UTC)
		if tl.Visible != len(records) || tl.HasMore {
			t.Errorf("Group(size=%d, count=%d): expected all %d visible, got visible=%d more=%v",
				tt.pageSize, tt.pageCount, len(records), tl.Visible, tl.HasMore)
		}
	}
}
