package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/records", s.HandleListRecords)
	mux.HandleFunc("POST /api/records", s.HandleCreateRecord)
	mux.HandleFunc("GET /api/records/{id}", s.HandleGetRecord)
	mux.HandleFunc("PUT /api/records/{id}", s.HandleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.HandleDeleteRecord)
	mux.HandleFunc("GET /api/stats", s.HandleStats)
	mux.HandleFunc("GET /api/live", s.HandleLive)
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /{$}", s.HandleIndex)
}

// Handler returns the routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return CorsMiddleware(mux)
}
