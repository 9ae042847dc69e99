package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/rubiojr/ssworld/pkg/core"
	"github.com/rubiojr/ssworld/pkg/query"
)

// DateLabel renders a record date as "MM-DD 周X". Unreadable timestamps
// give an empty label.
func DateLabel(createdAt string, loc *time.Location) string {
	t, ok := core.ParseTimestamp(createdAt, loc)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d-%02d 周%s", int(t.Month()), t.Day(), query.WeekdayName(t.Weekday()))
}

// MonthHeader renders a group header such as "2024年3月".
func MonthHeader(year, month int) string {
	return fmt.Sprintf("%d年%d月", year, month)
}

const (
	emptySearchText = "没有找到相关记录 🌿 换个关键词试试？"
	EmptyStateTitle = "还没有记录哦～"
	EmptyStateText  = "点击上方按钮开始记录你的第一个游戏时刻吧 🌿"
)

// StatusText is the search status line. It is empty when no query is active.
func StatusText(rawQuery string, count int) string {
	if strings.TrimSpace(rawQuery) == "" {
		return ""
	}
	if count == 0 {
		return emptySearchText
	}
	return fmt.Sprintf("找到 %d 条记录 📸", count)
}

// PhotoURL returns photo as a URL the page may load: JPEG/PNG data URLs and
// http(s) links. Anything else renders as no photo.
func PhotoURL(photo string) template.URL {
	switch {
	case strings.HasPrefix(photo, "data:image/jpeg;"), strings.HasPrefix(photo, "data:image/png;"):
		return template.URL(photo)
	case strings.HasPrefix(photo, "https://"), strings.HasPrefix(photo, "http://"):
		return template.URL(photo)
	}
	return ""
}
