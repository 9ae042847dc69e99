// Package query turns a raw search string into a structured intent.
//
// The grammar is fixed and anchored on the whole (trimmed) input. Rules are
// tried in order and the first one that fully succeeds wins:
//
//	2024, 2024年          Year
//	3月, 十二月           Month (current year only when matched)
//	1月15, 1.15           MonthDay (current year only when matched)
//	2024年3月             YearMonth
//	周四, 星期日, 周天     Weekday
//	anything else         Text
//
// A rule whose shape matches but whose value is out of range (for example
// 十三月 or 0月) does not produce a partial result; classification falls
// through to the next rule and ultimately to Text. Classify is total and
// has no hidden state.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which case of Intent is populated.
type Kind int

const (
	KindText Kind = iota
	KindYear
	KindMonth
	KindMonthDay
	KindYearMonth
	KindWeekday
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindYear:
		return "year"
	case KindMonth:
		return "month"
	case KindMonthDay:
		return "month-day"
	case KindYearMonth:
		return "year-month"
	case KindWeekday:
		return "weekday"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Intent is the classified meaning of a query. Only the fields relevant to
// Kind are set.
type Intent struct {
	Kind    Kind
	Raw     string // trimmed input, always set
	Year    int
	Month   int
	Day     int
	Weekday time.Weekday
}

func Text(raw string) Intent { return Intent{Kind: KindText, Raw: raw} }

func Year(raw string, year int) Intent { return Intent{Kind: KindYear, Raw: raw, Year: year} }

func Month(raw string, month int) Intent { return Intent{Kind: KindMonth, Raw: raw, Month: month} }

func MonthDay(raw string, month, day int) Intent {
	return Intent{Kind: KindMonthDay, Raw: raw, Month: month, Day: day}
}

func YearMonth(raw string, year, month int) Intent {
	return Intent{Kind: KindYearMonth, Raw: raw, Year: year, Month: month}
}

func Weekday(raw string, day time.Weekday) Intent {
	return Intent{Kind: KindWeekday, Raw: raw, Weekday: day}
}

// IsText reports whether the intent is a plain text search.
func (i Intent) IsText() bool {
	return i.Kind == KindText
}

func (i Intent) String() string {
	switch i.Kind {
	case KindYear:
		return fmt.Sprintf("year(%d)", i.Year)
	case KindMonth:
		return fmt.Sprintf("month(%d)", i.Month)
	case KindMonthDay:
		return fmt.Sprintf("month-day(%d,%d)", i.Month, i.Day)
	case KindYearMonth:
		return fmt.Sprintf("year-month(%d,%d)", i.Year, i.Month)
	case KindWeekday:
		return fmt.Sprintf("weekday(%d)", int(i.Weekday))
	}
	return fmt.Sprintf("text(%q)", i.Raw)
}

var (
	yearPattern      = regexp.MustCompile(`^(\d{4})年?$`)
	monthPattern     = regexp.MustCompile(`^([一二三四五六七八九十\d]{1,2})月$`)
	monthDayPattern  = regexp.MustCompile(`^(\d{1,2})[月.](\d{1,2})$`)
	yearMonthPattern = regexp.MustCompile(`^(\d{4})年(\d{1,2})月$`)
)

type rule func(q string) (Intent, bool)

var rules = []rule{
	matchYear,
	matchMonth,
	matchMonthDay,
	matchYearMonth,
	matchWeekday,
}

// Classify returns the intent for raw. It never fails: anything the grammar
// does not recognize is a Text intent carrying the trimmed input.
func Classify(raw string) Intent {
	q := strings.TrimSpace(raw)
	if q == "" {
		return Text("")
	}
	for _, r := range rules {
		if intent, ok := r(q); ok {
			return intent
		}
	}
	return Text(q)
}

func matchYear(q string) (Intent, bool) {
	m := yearPattern.FindStringSubmatch(q)
	if m == nil {
		return Intent{}, false
	}
	y, _ := strconv.Atoi(m[1])
	return Year(q, y), true
}

func matchMonth(q string) (Intent, bool) {
	m := monthPattern.FindStringSubmatch(q)
	if m == nil {
		return Intent{}, false
	}
	month, ok := parseMonth(m[1])
	if !ok {
		return Intent{}, false
	}
	return Month(q, month), true
}

// parseMonth reads either ASCII digits or a numeral from the month table.
// Mixed input such as "1十" is rejected.
func parseMonth(s string) (int, bool) {
	if isDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return 0, false
		}
		return n, true
	}
	return MonthNumeral(s)
}

func matchMonthDay(q string) (Intent, bool) {
	m := monthDayPattern.FindStringSubmatch(q)
	if m == nil {
		return Intent{}, false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return MonthDay(q, month, day), true
}

func matchYearMonth(q string) (Intent, bool) {
	m := yearMonthPattern.FindStringSubmatch(q)
	if m == nil {
		return Intent{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return YearMonth(q, year, month), true
}

func matchWeekday(q string) (Intent, bool) {
	for _, marker := range weekMarkers {
		glyph, ok := strings.CutPrefix(q, marker)
		if !ok {
			continue
		}
		if day, ok := WeekdayGlyph(glyph); ok {
			return Weekday(q, day), true
		}
	}
	return Intent{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
