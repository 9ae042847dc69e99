package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/realtime"
	"github.com/rubiojr/ssworld/pkg/render"
	"github.com/rubiojr/ssworld/pkg/search"
	"github.com/rubiojr/ssworld/pkg/storage"
	"github.com/rubiojr/ssworld/pkg/version"
	"github.com/rubiojr/ssworld/pkg/view"
)

// maxBodyBytes bounds record bodies; photos travel inline as data URLs.
const maxBodyBytes = 16 << 20

func (s *Server) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	o := s.options()
	params := search.ParseParams(r.URL.Query(), o.PageSize)

	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list records", err.Error())
		return
	}

	filtered, count := s.engine(o).Search(records, params.Query, s.referenceYear(o))

	// Compare before multiplying so huge page or limit values cannot
	// overflow into a negative slice bound.
	start := len(filtered)
	if params.Page-1 <= len(filtered)/params.Limit {
		start = min((params.Page-1)*params.Limit, len(filtered))
	}
	end := start + min(params.Limit, len(filtered)-start)
	totalPages := count / params.Limit
	if count%params.Limit != 0 {
		totalPages++
	}
	window := filtered[start:end]
	if window == nil {
		window = []core.Record{}
	}

	s.writeJSON(w, http.StatusOK, ListRecordsResponse{
		Query:      params.Query,
		Intent:     query.Classify(params.Query).String(),
		Records:    window,
		Count:      count,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasMore:    end < len(filtered),
	})
}

func (s *Server) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	rec, err := core.NewRecord(in.Photo, in.Category, in.Mood, s.options().Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.logger.Debugf("created record %s", rec.ID)
	s.hub.Publish(realtime.RecordEvent{Type: realtime.RecordCreated, ID: rec.ID})
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) HandleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	existing, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	rec, err := existing.Edit(in.Photo, in.Category, in.Mood, s.options().Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.hub.Publish(realtime.RecordEvent{Type: realtime.RecordUpdated, ID: rec.ID})
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	s.hub.Publish(realtime.RecordEvent{Type: realtime.RecordDeleted, ID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	st := storage.Summarize(records)
	byCategory := make(map[string]int, len(st.ByCategory))
	for c, n := range st.ByCategory {
		byCategory[string(c)] = n
	}
	s.writeJSON(w, http.StatusOK, StatsResponse{
		Records:    st.Records,
		ByCategory: byCategory,
		Oldest:     st.Oldest,
		Newest:     st.Newest,
		Listeners:  s.hub.Size(),
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	})
}

// HandleIndex serves the server-rendered page. It works without
// JavaScript: q filters and page sets how many pages are shown.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	o := s.options()
	params := search.ParseParams(r.URL.Query(), o.PageSize)

	records, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Errorf("listing records: %v", err)
		http.Error(w, "failed to load records", http.StatusInternalServerError)
		return
	}

	page := view.Compute(s.engine(o), records, params.Query, o.PageSize, params.Page, s.referenceYear(o), o.Location)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WritePage(w, page); err != nil {
		s.logger.Errorf("rendering page: %v", err)
	}
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (RecordInput, bool) {
	var in RecordInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return in, false
	}
	return in, true
}

var invalidInput = []error{
	core.ErrMissingPhoto,
	core.ErrUnsupportedPhoto,
	core.ErrUnknownCategory,
	core.ErrEmptyMood,
	core.ErrMoodTooLong,
	core.ErrMissingID,
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Record not found", err.Error())
		return
	}
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			s.writeError(w, http.StatusBadRequest, "Invalid record", err.Error())
			return
		}
	}
	s.logger.Errorf("storage error: %v", err)
	s.writeError(w, http.StatusInternalServerError, "Storage error", err.Error())
}
