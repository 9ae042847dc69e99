package api

import (
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/render"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RecordInput is the body of POST and PUT record requests. Photo is a data
// URL or an http(s) link.
type RecordInput struct {
	Photo    string        `json:"photo"`
	Category core.Category `json:"category"`
	Mood     string        `json:"mood"`
}

type ListRecordsResponse struct {
	Query      string        `json:"query"`
	Intent     string        `json:"intent"`
	Records    []core.Record `json:"records"`
	Count      int           `json:"count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
}

type StatsResponse struct {
	Records    int            `json:"records"`
	ByCategory map[string]int `json:"by_category"`
	Oldest     string         `json:"oldest,omitempty"`
	Newest     string         `json:"newest,omitempty"`
	Listeners  int            `json:"listeners"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Live websocket message types.
const (
	liveQuery = "query"
	liveMore  = "more"
	liveClear = "clear"
	livePage  = "page"
	liveError = "error"
)

// LiveRequest is sent by the browser: {"type":"query","q":"..."},
// {"type":"more"} or {"type":"clear"}.
type LiveRequest struct {
	Type  string `json:"type"`
	Query string `json:"q,omitempty"`
}

// LiveMessage is pushed to the browser.
type LiveMessage struct {
	Type    string       `json:"type"`
	Page    *render.Page `json:"page,omitempty"`
	Message string       `json:"message,omitempty"`
}
