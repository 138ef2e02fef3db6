package utils

import (
	"fmt"
	"strings"
	"time"
)

const secondsPerDay = 86400

// ParseDate converts YYYY-MM-DD (optionally followed by THH:MM:SS) to a UTC time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "2006-01-02T15:04:05.000"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("ParseDate: invalid date %q (want YYYY-MM-DD)", s)
}

// MustParseDate is ParseDate for literals known to be valid; it panics otherwise.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Date builds a UTC midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the intraday component of t, keeping its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Serial returns the number of days between 1970-01-01 and the calendar date of t.
func Serial(t time.Time) int {
	return int(Day(t).Unix() / secondsPerDay)
}

// FromSerial is the inverse of Serial.
func FromSerial(serial int) time.Time {
	return time.Unix(int64(serial)*secondsPerDay, 0).UTC()
}

// DaysBetween returns the whole calendar days from start to end, ignoring time of day.
func DaysBetween(start, end time.Time) int {
	return Serial(end) - Serial(start)
}

// IntradayFraction returns the elapsed part of t's day as a fraction of 86400 seconds.
func IntradayFraction(t time.Time) float64 {
	h, m, s := t.Clock()
	secs := float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
	return secs / secondsPerDay
}

// HasIntraday reports whether t carries a time of day.
func HasIntraday(t time.Time) bool {
	h, m, s := t.Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeap(year) {
		return 366
	}
	return 365
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last calendar day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), DaysInMonth(t.Year(), t.Month()))
}

// IsEndOfMonth reports whether t is the last calendar day of its month.
func IsEndOfMonth(t time.Time) bool {
	return t.Day() == DaysInMonth(t.Year(), t.Month())
}

// IsLastOfFebruary reports whether t is Feb 28 in a common year or Feb 29 in a leap year.
func IsLastOfFebruary(t time.Time) bool {
	return t.Month() == time.February && IsEndOfMonth(t)
}

// AddMonth behaves like Excel's EDATE: the day of month is clamped to the
// length of the target month instead of spilling over as time.AddDate does.
func AddMonth(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	if dim := DaysInMonth(year, month); d > dim {
		d = dim
	}
	h, mi, s := t.Clock()
	return time.Date(year, month, d, h, mi, s, t.Nanosecond(), time.UTC)
}

// AddYears adds whole years with the same month-end clamp as AddMonth.
func AddYears(t time.Time, years int) time.Time {
	return AddMonth(t, 12*years)
}

// NthWeekday returns the n-th (1-based) given weekday of month in year.
func NthWeekday(n int, wd time.Weekday, month time.Month, year int) time.Time {
	first := Date(year, month, 1)
	skip := (int(wd) - int(first.Weekday()) + 7) % 7
	return Date(year, month, 1+skip+7*(n-1))
}

// MaxDate returns the later of a and b.
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
