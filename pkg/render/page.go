package render

import (
	_ "embed"
	"html/template"
	"io"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

// Card is one record prepared for display. Mood is trusted markup: escaped,
// and highlighted when a text query is active.
type Card struct {
	ID        string        `json:"id"`
	Category  string        `json:"category"`
	Glyph     string        `json:"glyph"`
	Date      string        `json:"date"`
	CreatedAt string        `json:"created_at"`
	Photo     template.URL  `json:"photo"`
	Mood      template.HTML `json:"mood_html"`
	Reaction  string        `json:"reaction"`
}

// Section is a month group with its header.
type Section struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Header string `json:"header"`
	Cards  []Card `json:"cards"`
}

// Page is everything a UI needs to draw the timeline for one query state.
type Page struct {
	Query     string    `json:"query"`
	Intent    string    `json:"intent"`
	Status    string    `json:"status"`
	Count     int       `json:"count"`
	PageCount int       `json:"page"`
	HasMore   bool      `json:"has_more"`
	Empty     bool      `json:"empty"`
	Sections  []Section `json:"sections"`
}

// BuildPage turns a grouped timeline into display sections. Mood text is
// highlighted only for text intents with a non-empty query.
func BuildPage(tl timeline.Timeline, rawQuery string, intent query.Intent, count, pageCount int, loc *time.Location) Page {
	highlight := intent.IsText() && intent.Raw != ""

	p := Page{
		Query:     rawQuery,
		Intent:    intent.String(),
		Status:    StatusText(rawQuery, count),
		Count:     count,
		PageCount: pageCount,
		HasMore:   tl.HasMore,
		Empty:     tl.Empty(),
		Sections:  make([]Section, 0, len(tl.Groups)),
	}
	for _, g := range tl.Groups {
		s := Section{Year: g.Year, Month: g.Month, Header: MonthHeader(g.Year, g.Month)}
		for _, rec := range g.Records {
			s.Cards = append(s.Cards, buildCard(rec, rawQuery, highlight, loc))
		}
		p.Sections = append(p.Sections, s)
	}
	return p
}

func buildCard(rec core.Record, rawQuery string, highlight bool, loc *time.Location) Card {
	mood := template.HTML(EscapeHTML(rec.Mood))
	if highlight {
		mood = Highlight(rec.Mood, rawQuery)
	}
	return Card{
		ID:        rec.ID,
		Category:  string(rec.Category),
		Glyph:     rec.Category.Glyph(),
		Date:      DateLabel(rec.CreatedAt, loc),
		CreatedAt: rec.CreatedAt,
		Photo:     PhotoURL(rec.Photo),
		Mood:      mood,
		Reaction:  rec.Reaction,
	}
}

//go:embed templates/page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"next":       func(n int) int { return n + 1 },
	"emptyTitle": func() string { return EmptyStateTitle },
	"emptyText":  func() string { return EmptyStateText },
	"categories": core.Categories,
}).Parse(pageHTML))

// WritePage renders the full HTML timeline page.
func WritePage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
