package skema

import (
	"strings"
	"time"
)

// Date is a calendar date without a time of day. It is the canonical value
// of the Date kind.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses s using the date layouts accepted by the Date kind.
func ParseDate(s string) (Date, error) {
	t, err := parseTime(s, dateLayouts)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// String renders the date as YYYY-MM-DD.
func (d Date) String() string { return d.Time().Format(time.DateOnly) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Layouts tried in order; the first that parses wins.
var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05",
		time.RFC1123Z,
		time.RFC1123,
		time.DateOnly,
		"2006/01/02",
		"1/2/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
	}
	dateLayouts = []string{
		time.DateOnly,
		"2006/01/02",
		"1/2/2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
)

func parseTime(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// tolerate a dangling separator such as "1/1/2017/"
	s = strings.TrimRight(s, "/")
	var firstErr error
	for _, l := range layouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
