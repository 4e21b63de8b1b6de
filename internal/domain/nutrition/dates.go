package nutrition

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date (YYYY-MM-DD) into UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight UTC of its calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = StartOfDay(t)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// DateRange is an inclusive range of calendar dates in DateLayout form.
type DateRange struct {
	From string
	To   string
}

func SingleDay(date string) DateRange { return DateRange{From: date, To: date} }

// Days returns the number of calendar days covered, or 0 when invalid.
func (r DateRange) Days() int {
	from, err := ParseDate(r.From)
	if err != nil {
		return 0
	}
	to, err := ParseDate(r.To)
	if err != nil || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
