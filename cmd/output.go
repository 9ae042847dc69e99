package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
	"github.com/rubiojr/ssworld/pkg/render"
	"github.com/rubiojr/ssworld/pkg/timeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	monthStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	reactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("176"))

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// formatTimeline renders a windowed timeline for the terminal. Mood text is
// highlighted only for free-text queries.
func formatTimeline(tl timeline.Timeline, rawQuery string, intent query.Intent, count int, loc *time.Location) string {
	var b strings.Builder

	if status := render.StatusText(rawQuery, count); status != "" {
		b.WriteString(titleStyle.Render(status))
		b.WriteString("\n")
	}

	if tl.Empty() {
		b.WriteString(noDataStyle.Render(render.EmptyStateTitle + "\n" + render.EmptyStateText))
		b.WriteString("\n")
		return b.String()
	}

	highlight := intent.IsText() && strings.TrimSpace(rawQuery) != ""
	for _, g := range tl.Groups {
		header := render.MonthHeader(g.Year, g.Month)
		if g.Year == 0 {
			header = "?"
		}
		b.WriteString(monthStyle.Render(header))
		b.WriteString("\n")
		for _, rec := range g.Records {
			b.WriteString(formatCard(rec, rawQuery, highlight, loc))
			b.WriteString("\n")
		}
	}

	if tl.HasMore {
		b.WriteString(metaStyle.Render(fmt.Sprintf("显示 %d / %d 条，使用 --page 查看更多", tl.Visible, tl.Total)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatCard(rec core.Record, rawQuery string, highlight bool, loc *time.Location) string {
	mood := rec.Mood
	if highlight {
		mood = render.HighlightTerminal(mood, rawQuery)
	}

	lines := []string{
		metaStyle.Render(fmt.Sprintf("%s %s  %s  %s", rec.Category.Glyph(), rec.Category, render.DateLabel(rec.CreatedAt, loc), rec.ID)),
		mood,
	}
	if rec.Reaction != "" {
		lines = append(lines, reactionStyle.Render(rec.Reaction))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func formatStats(st statsView) string {
	var b strings.Builder
	b.WriteString(summaryStyle.Render(fmt.Sprintf("共 %d 条记录", st.Records)))
	b.WriteString("\n")
	for _, c := range core.Categories() {
		fmt.Fprintf(&b, "  %s %s  %d\n", c.Glyph(), c, st.ByCategory[c])
	}
	if st.Records > 0 {
		b.WriteString(metaStyle.Render(fmt.Sprintf("%s  →  %s", st.Oldest, st.Newest)))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n", metaStyle.Render(st.Backend+": "+st.Path))
	return b.String()
}
