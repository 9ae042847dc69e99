// Package timeline buckets a record sequence into month groups for display.
package timeline

import (
	"sort"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
)

// DefaultPageSize is used when a caller passes a page size below 1.
const DefaultPageSize = 20

// MonthGroup holds the visible records created in one calendar month.
// Records with unreadable timestamps share the zero key (0, 0).
type MonthGroup struct {
	Year    int
	Month   int
	Records []core.Record
}

// Timeline is the grouped, windowed view of a filtered record sequence.
type Timeline struct {
	Groups []MonthGroup
	// Visible is the number of records inside the window.
	Visible int
	// Total is the length of the full filtered sequence.
	Total int
	// HasMore is true when Total exceeds the window size.
	HasMore bool
}

// Empty reports the empty-state outcome: nothing to show in the window.
func (t Timeline) Empty() bool {
	return t.Visible == 0
}

// Group windows records to the first pageSize*pageCount entries and buckets
// them by creation year and month using local time.
func Group(records []core.Record, pageSize, pageCount int) Timeline {
	return GroupIn(records, pageSize, pageCount, time.Local)
}

// GroupIn is Group with timestamps read in loc.
//
// Groups are ordered newest month first. Inside a group the input order is
// kept, so callers control record order and Group controls group order.
func GroupIn(records []core.Record, pageSize, pageCount int, loc *time.Location) Timeline {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageCount < 1 {
		pageCount = 1
	}

	// pageCount past the last page shows everything; comparing before
	// multiplying keeps huge page counts from overflowing.
	window := records
	if pageCount <= len(records)/pageSize {
		if limit := pageSize * pageCount; len(records) > limit {
			window = records[:limit]
		}
	}

	type key struct{ year, month int }
	index := make(map[key]int)
	var groups []MonthGroup
	for _, rec := range window {
		var k key
		if created, ok := rec.Created(loc); ok {
			k = key{created.Year(), int(created.Month())}
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, MonthGroup{Year: k.year, Month: k.month})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year > groups[j].Year
		}
		return groups[i].Month > groups[j].Month
	})

	return Timeline{
		Groups:  groups,
		Visible: len(window),
		Total:   len(records),
		HasMore: len(records) > len(window),
	}
}
