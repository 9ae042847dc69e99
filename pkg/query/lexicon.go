package query

import "time"

// Closed lookup tables for the Chinese numerals and weekday names accepted
// by the grammar. A miss is not an error; the calling rule just fails.

var monthNumerals = map[string]int{
	"一":  1,
	"二":  2,
	"三":  3,
	"四":  4,
	"五":  5,
	"六":  6,
	"七":  7,
	"八":  8,
	"九":  9,
	"十":  10,
	"十一": 11,
	"十二": 12,
}

// weekMarkers are interchangeable prefixes: 周四 and 星期四 are the same query.
var weekMarkers = []string{"周", "星期"}

var weekdayGlyphs = map[string]time.Weekday{
	"日": time.Sunday,
	"天": time.Sunday,
	"一": time.Monday,
	"二": time.Tuesday,
	"三": time.Wednesday,
	"四": time.Thursday,
	"五": time.Friday,
	"六": time.Saturday,
}

// MonthNumeral maps a month numeral (一 through 十二) to 1..12.
func MonthNumeral(s string) (int, bool) {
	n, ok := monthNumerals[s]
	return n, ok
}

// WeekdayGlyph maps a single weekday glyph to its weekday. 日 and 天 both
// mean Sunday.
func WeekdayGlyph(s string) (time.Weekday, bool) {
	d, ok := weekdayGlyphs[s]
	return d, ok
}

// WeekdayName returns the glyph used when displaying d, e.g. 四 for Thursday.
func WeekdayName(d time.Weekday) string {
	return [...]string{"日", "一", "二", "三", "四", "五", "六"}[d%7]
}
