// Package search evaluates classified queries against a record collection.
//
// # Overview
//
// The engine is a pure predicate pass over records that callers already
// hold: it never sorts, never mutates the records it is given, and keeps
// their relative order. Storage hands records over newest first, so results
// come back newest first too.
//
// # Intents
//
// Queries are classified by pkg/query. Each intent matches differently:
//
//   - Text: substring of the mood (ASCII case-insensitive), or of the
//     category name or glyph
//   - Year and YearMonth: carry their own year
//   - Month and MonthDay: scoped to the reference year the caller supplies
//   - Weekday: any year
//
// Records whose createdAt cannot be parsed never match a date intent; they
// remain searchable by text.
//
// # Usage
//
//	engine := search.NewEngine(loc)
//	results, count := engine.Search(records, "三月", time.Now().In(loc).Year())
//
// Parsing HTTP parameters:
//
//	params := search.ParseParams(r.URL.Query(), cfg.PageSize)
//	results, count := engine.Search(records, params.Query, year)
package search
