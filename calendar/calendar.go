package calendar

import (
	"time"

	"github.com/meenmo/fincore/utils"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	Null         CalendarID = "NULL"
	WeekendsOnly CalendarID = "WEEKENDS"
	TARGET       CalendarID = "TARGET"
	USD          CalendarID = "USD"
	GBP          CalendarID = "GBP"
	JPN          CalendarID = "JPN"
	KRW          CalendarID = "KRW"
	BRL          CalendarID = "BRL"
)

// Calendar is an immutable market calendar. Copies share their holiday sets,
// which are never written after construction. The zero value behaves like the
// Null calendar: every day is a business day.
type Calendar struct {
	id      CalendarID
	name    string
	weekend func(time.Weekday) bool
	rule    func(day) bool
	added   map[int]struct{}
	removed map[int]struct{}
}

// day carries the fields most holiday rules test against.
type day struct {
	d  int
	m  time.Month
	y  int
	w  time.Weekday
	dd int // day of year
}

func newDay(t time.Time) day {
	y, m, d := t.Date()
	return day{d: d, m: m, y: y, w: t.Weekday(), dd: t.YearDay()}
}

// ID returns the market identifier the calendar was registered under.
func (c Calendar) ID() CalendarID {
	if c.id == "" {
		return Null
	}
	return c.id
}

// Name is the human readable calendar name; day counters embed it in their own names.
func (c Calendar) Name() string {
	if c.name == "" {
		return "Null"
	}
	return c.name
}

// WithHolidays returns a copy of c with extra holidays and extra business days.
func (c Calendar) WithHolidays(holidays, businessDays []time.Time) Calendar {
	out := c
	out.added = make(map[int]struct{}, len(c.added)+len(holidays))
	out.removed = make(map[int]struct{}, len(c.removed)+len(businessDays))
	for s := range c.added {
		out.added[s] = struct{}{}
	}
	for s := range c.removed {
		out.removed[s] = struct{}{}
	}
	for _, h := range holidays {
		s := utils.Serial(h)
		delete(out.removed, s)
		out.added[s] = struct{}{}
	}
	for _, b := range businessDays {
		s := utils.Serial(b)
		delete(out.added, s)
		out.removed[s] = struct{}{}
	}
	return out
}

// IsWeekend reports whether w is a weekend day for this market.
func (c Calendar) IsWeekend(w time.Weekday) bool {
	return c.weekend != nil && c.weekend(w)
}

// IsBusinessDay checks weekends and holiday sets.
func (c Calendar) IsBusinessDay(t time.Time) bool {
	s := utils.Serial(t)
	if _, ok := c.added[s]; ok {
		return false
	}
	if _, ok := c.removed[s]; ok {
		return true
	}
	if c.IsWeekend(t.Weekday()) {
		return false
	}
	if c.rule != nil && c.rule(newDay(t)) {
		return false
	}
	return true
}

// IsHoliday is the negation of IsBusinessDay; weekends count as holidays.
func (c Calendar) IsHoliday(t time.Time) bool {
	return !c.IsBusinessDay(t)
}

// Adjust moves t to a business day according to conv.
func (c Calendar) Adjust(t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Unadjusted:
		return t
	case Following, ModifiedFollowing, HalfMonthModifiedFollowing:
		d := t
		for c.IsHoliday(d) {
			d = d.AddDate(0, 0, 1)
		}
		if conv == ModifiedFollowing || conv == HalfMonthModifiedFollowing {
			if d.Month() != t.Month() {
				return c.Adjust(t, Preceding)
			}
			if conv == HalfMonthModifiedFollowing && t.Day() <= 15 && d.Day() > 15 {
				return c.Adjust(t, Preceding)
			}
		}
		return d
	case Preceding, ModifiedPreceding:
		d := t
		for c.IsHoliday(d) {
			d = d.AddDate(0, 0, -1)
		}
		if conv == ModifiedPreceding && d.Month() != t.Month() {
			return c.Adjust(t, Following)
		}
		return d
	case Nearest:
		up, down := t, t
		for c.IsHoliday(up) && c.IsHoliday(down) {
			up = up.AddDate(0, 0, 1)
			down = down.AddDate(0, 0, -1)
		}
		if c.IsHoliday(up) {
			return down
		}
		return up
	default:
		return t
	}
}

// Advance moves t by n units. Day steps count business days; week, month and
// year steps move on the plain calendar and then apply conv. With endOfMonth
// set and t at the end of its month, month and year steps land on the end of
// the target month.
func (c Calendar) Advance(t time.Time, n int, unit TimeUnit, conv BusinessDayConvention, endOfMonth bool) time.Time {
	if n == 0 {
		return c.Adjust(t, conv)
	}
	switch unit {
	case Days:
		return c.AddBusinessDays(t, n)
	case Weeks:
		return c.Adjust(t.AddDate(0, 0, 7*n), conv)
	default:
		months := n
		if unit == Years {
			months = 12 * n
		}
		target := utils.AddMonth(t, months)
		if endOfMonth {
			if conv == Unadjusted {
				if utils.IsEndOfMonth(t) {
					return utils.EndOfMonth(target)
				}
			} else if c.IsEndOfMonth(t) {
				return c.EndOfMonth(target)
			}
		}
		return c.Adjust(target, conv)
	}
}

// AdvancePeriod is Advance with the step given as a Period.
func (c Calendar) AdvancePeriod(t time.Time, p Period, conv BusinessDayConvention, endOfMonth bool) time.Time {
	return c.Advance(t, p.N, p.Unit, conv, endOfMonth)
}

// AddBusinessDays advances n business days (n can be negative).
func (c Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if c.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// EndOfMonth returns the last business day of the month containing t.
func (c Calendar) EndOfMonth(t time.Time) time.Time {
	return c.Adjust(utils.EndOfMonth(t), Preceding)
}

// StartOfMonth returns the first business day of the month containing t.
func (c Calendar) StartOfMonth(t time.Time) time.Time {
	return c.Adjust(utils.Date(t.Year(), t.Month(), 1), Following)
}

// IsEndOfMonth checks if t is the last business day of its month.
func (c Calendar) IsEndOfMonth(t time.Time) bool {
	return t.Month() != c.Adjust(t.AddDate(0, 0, 1), Following).Month()
}

// BusinessDaysBetween counts business days from from to to. The result is
// negative when to is before from.
func (c Calendar) BusinessDaysBetween(from, to time.Time, includeFirst, includeLast bool) int {
	from, to = utils.Day(from), utils.Day(to)
	if from.Equal(to) {
		if includeFirst && includeLast && c.IsBusinessDay(from) {
			return 1
		}
		return 0
	}
	lo, hi := from, to
	if to.Before(from) {
		lo, hi = to, from
	}
	wd := 0
	for d := lo; !d.After(hi); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			wd++
		}
	}
	if c.IsBusinessDay(from) && !includeFirst {
		wd--
	}
	if c.IsBusinessDay(to) && !includeLast {
		wd--
	}
	if to.Before(from) {
		wd = -wd
	}
	return wd
}

// HolidayList returns the holidays between from and to inclusive.
func (c Calendar) HolidayList(from, to time.Time, includeWeekends bool) []time.Time {
	var out []time.Time
	for d := utils.Day(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsHoliday(d) && (includeWeekends || !c.IsWeekend(d.Weekday())) {
			out = append(out, d)
		}
	}
	return out
}
