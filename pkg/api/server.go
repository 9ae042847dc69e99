// Package api serves the journal over HTTP: a JSON record API, a live
// websocket that pushes rendered timeline pages, and the HTML page itself.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rubiojr/ssworld/pkg/log"
	"github.com/rubiojr/ssworld/pkg/realtime"
	"github.com/rubiojr/ssworld/pkg/search"
	"github.com/rubiojr/ssworld/pkg/storage"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

// Options are the display settings a running server can change on config
// reload.
type Options struct {
	PageSize int
	Debounce time.Duration
	Location *time.Location
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PageSize < 1 {
		o.PageSize = timeline.DefaultPageSize
	}
	if o.Debounce <= 0 {
		o.Debounce = 300 * time.Millisecond
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Server struct {
	store  storage.Store
	hub    *realtime.Hub
	logger *log.Logger

	mu   sync.RWMutex
	opts Options
}

// NewServer wires the API to a store. Mutations are announced on hub; a
// nil hub gets a private one.
func NewServer(store storage.Store, hub *realtime.Hub, opts Options) *Server {
	if hub == nil {
		hub = realtime.NewHub(0)
	}
	return &Server{
		store:  store,
		hub:    hub,
		logger: log.ForService("api"),
		opts:   opts.withDefaults(),
	}
}

// SetOptions replaces the display settings. Open live sessions keep the
// settings they started with.
func (s *Server) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts.withDefaults()
}

func (s *Server) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

func (s *Server) engine(o Options) *search.Engine {
	return search.NewEngine(o.Location)
}

func (s *Server) referenceYear(o Options) int {
	return o.Now().In(o.Location).Year()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
