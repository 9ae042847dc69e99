// Package view holds the per-client browsing state: the current query, how
// many pages are visible and the debounced search input. Everything it
// shows is computed by the stateless search, timeline and render packages
// from parameters passed in on each call.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/debounce"
	"github.com/rubiojr/ssworld/pkg/log"
	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/render"
	"github.com/rubiojr/ssworld/pkg/search"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

// Source supplies records, newest first.
type Source interface {
	List(ctx context.Context) ([]core.Record, error)
}

// Options configures a Session. Zero values pick the defaults.
type Options struct {
	PageSize int
	Debounce time.Duration
	Location *time.Location
	// Now supplies the wall clock; the reference year is Now().Year() in
	// Location.
	Now func() time.Time
	// OnUpdate receives the page produced by a debounced query.
	OnUpdate func(render.Page)
}

const defaultDebounce = 300 * time.Millisecond

// Session is safe for concurrent use.
type Session struct {
	source   Source
	engine   *search.Engine
	loc      *time.Location
	pageSize int
	now      func() time.Time
	onUpdate func(render.Page)
	typing   *debounce.Debouncer[string]
	logger   *log.Logger

	mu        sync.Mutex
	records   []core.Record
	query     string
	pageCount int
}

// NewSession creates a session over source. Call Refresh before the first
// Page to load records.
func NewSession(source Source, opts Options) *Session {
	if opts.PageSize < 1 {
		opts.PageSize = timeline.DefaultPageSize
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		source:    source,
		engine:    search.NewEngine(opts.Location),
		loc:       opts.Location,
		pageSize:  opts.PageSize,
		now:       opts.Now,
		onUpdate:  opts.OnUpdate,
		logger:    log.ForService("view"),
		pageCount: 1,
	}
	s.typing = debounce.New(opts.Debounce, s.applyTyped)
	return s
}

// Refresh reloads records from the source, keeps the current query and
// goes back to the first page.
func (s *Session) Refresh(ctx context.Context) (render.Page, error) {
	records, err := s.source.List(ctx)
	if err != nil {
		return render.Page{}, fmt.Errorf("loading records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.pageCount = 1
	return s.pageLocked(), nil
}

// SetQuery applies rawQuery immediately and resets paging.
func (s *Session) SetQuery(rawQuery string) render.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = rawQuery
	s.pageCount = 1
	s.logger.Debugf("query %q -> %v", rawQuery, query.Classify(rawQuery))
	return s.pageLocked()
}

// Type feeds one keystroke's worth of input. The query is applied once the
// input has been quiet for the debounce period, and the resulting page is
// sent to Options.OnUpdate.
func (s *Session) Type(rawQuery string) {
	s.typing.Trigger(rawQuery)
}

func (s *Session) applyTyped(rawQuery string) {
	p := s.SetQuery(rawQuery)
	if s.onUpdate != nil {
		s.onUpdate(p)
	}
}

// LoadMore extends the visible window by one page.
func (s *Session) LoadMore() render.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageCount++
	return s.pageLocked()
}

// Clear drops the query, any pending typed input and extra pages.
func (s *Session) Clear() render.Page {
	s.typing.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.pageCount = 1
	return s.pageLocked()
}

// Page renders the current state without changing it.
func (s *Session) Page() render.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageLocked()
}

// Query returns the current raw query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Close stops the debouncer; pending input is discarded.
func (s *Session) Close() {
	s.typing.Stop()
}

func (s *Session) pageLocked() render.Page {
	return Compute(s.engine, s.records, s.query, s.pageSize, s.pageCount, s.now().In(s.loc).Year(), s.loc)
}

// Compute runs the full pipeline: search, window and group, then render.
func Compute(engine *search.Engine, records []core.Record, rawQuery string, pageSize, pageCount, referenceYear int, loc *time.Location) render.Page {
	filtered, count := engine.Search(records, rawQuery, referenceYear)
	tl := timeline.GroupIn(filtered, pageSize, pageCount, loc)
	return render.BuildPage(tl, rawQuery, query.Classify(rawQuery), count, max(pageCount, 1), loc)
}
