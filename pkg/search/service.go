package search

import (
	"strings"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
)

// Engine evaluates intents with record timestamps read in Location.
type Engine struct {
	// Location is the zone creation timestamps are converted to before their
	// year, month, day and weekday are compared. Nil means time.Local.
	Location *time.Location
}

// NewEngine creates an engine reading timestamps in loc.
func NewEngine(loc *time.Location) *Engine {
	return &Engine{Location: loc}
}

var defaultEngine = &Engine{}

// Match reports whether rec satisfies intent using local time.
func Match(intent query.Intent, rec core.Record, referenceYear int) bool {
	return defaultEngine.Match(intent, rec, referenceYear)
}

// Search filters records using local time. See (*Engine).Search.
func Search(records []core.Record, rawQuery string, referenceYear int) ([]core.Record, int) {
	return defaultEngine.Search(records, rawQuery, referenceYear)
}

func (e *Engine) location() *time.Location {
	if e == nil || e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Match reports whether rec satisfies intent.
//
// Month and MonthDay only match records from referenceYear; Weekday matches
// across all years; Year and YearMonth carry their own year.
func (e *Engine) Match(intent query.Intent, rec core.Record, referenceYear int) bool {
	if intent.Kind == query.KindText {
		return matchText(intent.Raw, rec)
	}

	created, ok := rec.Created(e.location())
	if !ok {
		return false
	}

	switch intent.Kind {
	case query.KindYear:
		return created.Year() == intent.Year
	case query.KindMonth:
		return created.Year() == referenceYear && int(created.Month()) == intent.Month
	case query.KindMonthDay:
		return created.Year() == referenceYear &&
			int(created.Month()) == intent.Month &&
			created.Day() == intent.Day
	case query.KindYearMonth:
		return created.Year() == intent.Year && int(created.Month()) == intent.Month
	case query.KindWeekday:
		return created.Weekday() == intent.Weekday
	}
	return false
}

// Search classifies rawQuery once and returns the records that match it in
// their original order, along with the match count.
//
// A query that is blank after trimming returns records unchanged. The
// returned slice is a new slice unless the query is blank.
func (e *Engine) Search(records []core.Record, rawQuery string, referenceYear int) ([]core.Record, int) {
	if strings.TrimSpace(rawQuery) == "" {
		return records, len(records)
	}

	intent := query.Classify(rawQuery)
	filtered := make([]core.Record, 0, len(records))
	for _, rec := range records {
		if e.Match(intent, rec, referenceYear) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, len(filtered)
}

// matchText checks mood (ASCII case-insensitive), then the category name
// and glyph (exact).
func matchText(q string, rec core.Record) bool {
	if strings.Contains(asciiLower(rec.Mood), asciiLower(q)) {
		return true
	}
	if strings.Contains(string(rec.Category), q) {
		return true
	}
	if glyph := rec.Category.Glyph(); glyph != "" && strings.Contains(glyph, q) {
		return true
	}
	return false
}

// asciiLower folds A-Z only; every other byte is left untouched.
func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
