package search

import "strconv"

// Params is the paging and query state a UI sends with each request.
type Params struct {
	// Query is the raw search text, untrimmed. Empty means "show everything".
	Query string

	// Page is how many pages of the timeline are visible (1-based). "Load
	// more" increments it; a new query resets it to 1.
	Page int

	// Limit is the page size.
	Limit int
}

// ParseParams reads q, page and limit from URL query values. Missing or
// invalid numbers fall back to page 1 and defaultLimit.
func ParseParams(values map[string][]string, defaultLimit int) Params {
	params := Params{
		Page:  1,
		Limit: defaultLimit,
	}

	if q := values["q"]; len(q) > 0 {
		params.Query = q[0]
	}

	if limit := values["limit"]; len(limit) > 0 && limit[0] != "" {
		if parsed, err := strconv.Atoi(limit[0]); err == nil && parsed > 0 {
			params.Limit = parsed
		}
	}

	if page := values["page"]; len(page) > 0 && page[0] != "" {
		if parsed, err := strconv.Atoi(page[0]); err == nil && parsed > 0 {
			params.Page = parsed
		}
	}

	return params
}
