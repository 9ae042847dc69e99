package render

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes the characters that could open markup in element text.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Highlight escapes text and wraps every case-insensitive occurrence of the
// trimmed query in <mark class="highlight">. Matches never overlap and the
// query is always treated as a literal.
//
// Matching runs on the unescaped text and each piece is escaped before the
// markers are added, so a marker never lands inside an entity such as &lt;.
func Highlight(text, rawQuery string) template.HTML {
	return template.HTML(mark(text, rawQuery, EscapeHTML, func(s string) string {
		return `<mark class="highlight">` + s + `</mark>`
	}))
}

var terminalMark = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(lipgloss.Color("220"))

// HighlightTerminal is Highlight for terminal output: no escaping, matches
// styled with a highlighted background.
func HighlightTerminal(text, rawQuery string) string {
	return mark(text, rawQuery, func(s string) string { return s }, func(s string) string {
		return terminalMark.Render(s)
	})
}

func mark(text, rawQuery string, escape, wrap func(string) string) string {
	q := strings.TrimSpace(rawQuery)
	if q == "" {
		return escape(text)
	}

	re := literalPattern(q)
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(escape(text[last:loc[0]]))
		b.WriteString(wrap(escape(text[loc[0]:loc[1]])))
		last = loc[1]
	}
	b.WriteString(escape(text[last:]))
	return b.String()
}

// literalPattern compiles q as a case-insensitive literal. QuoteMeta output
// is always a valid expression, so MustCompile cannot panic here.
func literalPattern(q string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
}
