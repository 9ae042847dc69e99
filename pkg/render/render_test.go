package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{
			name:  "escapes before marking",
			text:  "a<b>c",
			query: "b",
			want:  `a&lt;<mark class="highlight">b</mark>&gt;c`,
		},
		{
			name:  "empty query only escapes",
			text:  "<i>x</i> & y",
			query: "  ",
			want:  "&lt;i&gt;x&lt;/i&gt; &amp; y",
		},
		{
			name:  "case-insensitive and global",
			text:  "Cat cat CAT",
			query: "cat",
			want:  `<mark class="highlight">Cat</mark> <mark class="highlight">cat</mark> <mark class="highlight">CAT</mark>`,
		},
		{
			name:  "metacharacters are literal",
			text:  "price (a+b)* or ab",
			query: "(a+b)*",
			want:  `price <mark class="highlight">(a+b)*</mark> or ab`,
		},
		{
			name:  "query is trimmed",
			text:  "流星雨",
			query: " 流星 ",
			want:  `<mark class="highlight">流星</mark>雨`,
		},
		{
			name:  "never marks inside an entity",
			text:  "a<b",
			query: "lt",
			want:  "a&lt;b",
		},
		{
			name:  "markup characters in the query",
			text:  "x<y",
			query: "<",
			want:  `x<mark class="highlight">&lt;</mark>y`,
		},
		{
			name:  "non-overlapping",
			text:  "aaaa",
			query: "aa",
			want:  `<mark class="highlight">aa</mark><mark class="highlight">aa</mark>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Highlight(tt.text, tt.query)); got != tt.want {
				t.Errorf("Highlight(%q, %q):\nexpected %s\ngot      %s", tt.text, tt.query, tt.want, got)
			}
		})
	}
}

func TestHighlightNeverPanics(t *testing.T) {
	queries := []string{`\`, `[`, `(?`, `$^`, `.*`, "\x00", `\E`, `)`}
	for _, q := range queries {
		out := Highlight("some text with \\ [ ( ) $ ^ .*", q)
		if strings.Contains(string(out), "<script") {
			t.Errorf("unexpected markup for query %q", q)
		}
	}
}

func TestHighlightTerminalKeepsText(t *testing.T) {
	out := HighlightTerminal("look a<b>", "a<b")
	if !strings.Contains(out, "look ") || !strings.Contains(out, "a<b") {
		t.Errorf("terminal highlight lost text: %q", out)
	}
}

func TestDateLabel(t *testing.T) {
	if got := DateLabel("2024-03-14T10:00:00Z", time.UTC); got != "03-14 周四" {
		t.Errorf("expected 03-14 周四, got %q", got)
	}
	if got := DateLabel("2024-03-16T23:00:00Z", time.FixedZone("CST", 8*3600)); got != "03-17 周日" {
		t.Errorf("expected 03-17 周日, got %q", got)
	}
	if got := DateLabel("nope", time.UTC); got != "" {
		t.Errorf("expected empty label, got %q", got)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		query string
		count int
		want  string
	}{
		{"", 10, ""},
		{"  ", 0, ""},
		{"cat", 0, "没有找到相关记录 🌿 换个关键词试试？"},
		{"cat", 3, "找到 3 条记录 📸"},
	}
	for _, tt := range tests {
		if got := StatusText(tt.query, tt.count); got != tt.want {
			t.Errorf("StatusText(%q, %d): expected %q, got %q", tt.query, tt.count, tt.want, got)
		}
	}
}

func TestPhotoURL(t *testing.T) {
	tests := map[string]bool{
		"data:image/png;base64,AAAA":  true,
		"data:image/jpeg;base64,AAAA": true,
		"https://example.com/a.png":   true,
		"javascript:alert(1)":         false,
		"data:text/html;base64,AAAA":  false,
		"":                            false,
	}
	for photo, ok := range tests {
		if got := PhotoURL(photo) != ""; got != ok {
			t.Errorf("PhotoURL(%q): expected allowed=%v", photo, ok)
		}
	}
}

func sampleTimeline() timeline.Timeline {
	records := []core.Record{
		{ID: "1", Category: core.CategoryCosmos, Mood: "Cat <3", CreatedAt: "2024-03-14T10:00:00Z", Reaction: "🐱 喵呜～", Photo: "data:image/png;base64,AAAA"},
		{ID: "2", Category: core.CategorySpacetime, Mood: "cat again", CreatedAt: "2024-02-01T10:00:00Z"},
	}
	return timeline.GroupIn(records, 20, 1, time.UTC)
}

func TestBuildPageHighlightsTextIntents(t *testing.T) {
	p := BuildPage(sampleTimeline(), "cat", query.Classify("cat"), 2, 1, time.UTC)

	if p.Status != "找到 2 条记录 📸" {
		t.Errorf("unexpected status %q", p.Status)
	}
	if len(p.Sections) != 2 || p.Sections[0].Header != "2024年3月" {
		t.Fatalf("unexpected sections: %+v", p.Sections)
	}
	card := p.Sections[0].Cards[0]
	if card.Mood != `<mark class="highlight">Cat</mark> &lt;3` {
		t.Errorf("unexpected mood markup %q", card.Mood)
	}
	if card.Glyph != "🪐" || card.Date != "03-14 周四" {
		t.Errorf("unexpected card %+v", card)
	}
}

func TestBuildPageNoHighlightForDateIntents(t *testing.T) {
	p := BuildPage(sampleTimeline(), "2024", query.Classify("2024"), 2, 1, time.UTC)

	mood := p.Sections[0].Cards[0].Mood
	if strings.Contains(string(mood), "<mark") {
		t.Errorf("date intent must not highlight, got %q", mood)
	}
	if mood != "Cat &lt;3" {
		t.Errorf("mood should still be escaped, got %q", mood)
	}
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	p := BuildPage(sampleTimeline(), "cat", query.Classify("cat"), 2, 1, time.UTC)
	if err := WritePage(&buf, p); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"2024年3月", `<mark class="highlight">Cat</mark>`, "找到 2 条记录"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}

	buf.Reset()
	empty := BuildPage(timeline.Group(nil, 20, 1), "", query.Classify(""), 0, 1, time.UTC)
	if err := WritePage(&buf, empty); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if !strings.Contains(buf.String(), EmptyStateTitle) {
		t.Error("empty page should show the empty state")
	}
}
