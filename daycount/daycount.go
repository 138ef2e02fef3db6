// Package daycount implements market day-count conventions: integer day
// counts and accrual year fractions between two dates.
package daycount

import (
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/schedule"
	"github.com/meenmo/fincore/utils"
)

// Convention identifies a day-count convention.
type Convention int

const (
	Actual360 Convention = iota
	Actual365Fixed
	Actual365Canadian
	Actual365NoLeap
	Actual366
	Actual36525
	Actual364
	Thirty360BondBasis
	Thirty360US
	Thirty360European
	Thirty360Italian
	Thirty360ISDA
	Thirty360NASD
	Business252
	ActualActualISDA
	ActualActualISMA
	ActualActualAFB
)

// DayCounter is a convention plus the read-only context some conventions
// need: a calendar for Business/252, a schedule for Actual/Actual ISMA.
type DayCounter struct {
	conv  Convention
	cal   calendar.Calendar
	sched *schedule.Schedule
	// quasi-coupon dates derived from sched
	refDates []time.Time
}

// Option configures a DayCounter at construction.
type Option func(*DayCounter)

// WithCalendar sets the business-day calendar used by Business/252.
func WithCalendar(cal calendar.Calendar) Option {
	return func(dc *DayCounter) { dc.cal = cal }
}

// WithSchedule attaches the coupon schedule Actual/Actual ISMA reads its
// reference periods from.
func WithSchedule(s *schedule.Schedule) Option {
	return func(dc *DayCounter) {
		dc.sched = s
		if s != nil {
			dc.refDates = quasiCouponDates(s)
		}
	}
}

// CallOption carries per-call inputs.
type CallOption func(*callArgs)

type callArgs struct {
	refStart, refEnd time.Time
	termination      time.Time
}

// WithReferencePeriod supplies the notional coupon period containing the
// accrual interval (Actual/Actual ISMA, Actual/365 Canadian).
func WithReferencePeriod(start, end time.Time) CallOption {
	return func(a *callArgs) {
		a.refStart, a.refEnd = utils.Day(start), utils.Day(end)
	}
}

// WithTerminationDate supplies the maturity used by 30E/360 ISDA: a last
// day of February equal to it is not moved to the 30th.
func WithTerminationDate(t time.Time) CallOption {
	return func(a *callArgs) { a.termination = utils.Day(t) }
}

func (a callArgs) hasReference() bool {
	return !a.refStart.IsZero() && !a.refEnd.IsZero()
}

// New builds a DayCounter. Business/252 defaults to the Brazil calendar.
func New(conv Convention, opts ...Option) DayCounter {
	dc := DayCounter{conv: conv}
	if conv == Business252 {
		dc.cal = calendar.MustBuiltin(calendar.BRL)
	}
	for _, opt := range opts {
		opt(&dc)
	}
	return dc
}

func (dc DayCounter) Convention() Convention       { return dc.conv }
func (dc DayCounter) Calendar() calendar.Calendar  { return dc.cal }
func (dc DayCounter) Schedule() *schedule.Schedule { return dc.sched }

// Name returns the market name of the convention; it is part of error text.
func (dc DayCounter) Name() string {
	if dc.conv == Business252 {
		return "Business/252(" + dc.cal.Name() + ")"
	}
	if n, ok := names[dc.conv]; ok {
		return n
	}
	return "unknown day counter"
}

func (dc DayCounter) String() string { return dc.Name() }

// DayCount returns the convention's whole-day count between d1 and d2. It is
// negative when d2 is before d1.
func (dc DayCounter) DayCount(d1, d2 time.Time, opts ...CallOption) int {
	d1, d2 = utils.Day(d1), utils.Day(d2)
	if d1.Equal(d2) {
		return 0
	}
	if d2.Before(d1) {
		return -dc.DayCount(d2, d1, opts...)
	}
	s, ok := strategies[dc.conv]
	if !ok {
		return 0
	}
	return s.dayCount(dc, d1, d2, collect(opts))
}

// YearFraction returns the accrual fraction between d1 and d2. Time of day
// is honoured: the fraction of each end day is weighted by that day's share
// of the year under the convention.
func (dc DayCounter) YearFraction(d1, d2 time.Time, opts ...CallOption) (float64, error) {
	if d1.Equal(d2) {
		return 0, nil
	}
	if d2.Before(d1) {
		yf, err := dc.YearFraction(d2, d1, opts...)
		return -yf, err
	}

	s, ok := strategies[dc.conv]
	if !ok {
		return 0, configErr(dc, "unsupported convention %d", int(dc.conv))
	}
	a := collect(opts)
	day1, day2 := utils.Day(d1), utils.Day(d2)

	var yf float64
	if !day1.Equal(day2) {
		var err error
		if yf, err = s.yearFraction(dc, day1, day2, a); err != nil {
			return 0, err
		}
	}
	if utils.HasIntraday(d1) || utils.HasIntraday(d2) {
		w1, err := s.dayWeight(dc, day1, a)
		if err != nil {
			return 0, err
		}
		w2, err := s.dayWeight(dc, day2, a)
		if err != nil {
			return 0, err
		}
		yf += utils.IntradayFraction(d2)*w2 - utils.IntradayFraction(d1)*w1
	}
	return yf, nil
}

func collect(opts []CallOption) callArgs {
	var a callArgs
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// strategy is one convention arm. dayCount and yearFraction are only called
// with day-normalized d1 < d2. dayWeight is the year fraction of the whole day
// starting at day.
type strategy struct {
	dayCount     func(dc DayCounter, d1, d2 time.Time, a callArgs) int
	yearFraction func(dc DayCounter, d1, d2 time.Time, a callArgs) (float64, error)
	dayWeight    func(dc DayCounter, day time.Time, a callArgs) (float64, error)
}

var strategies = map[Convention]strategy{
	Actual360:          simple(actualDays, 360),
	Actual365Fixed:     simple(actualDays, 365),
	Actual365NoLeap:    simple(noLeapDays, 365),
	Actual366:          simple(actualDays, 366),
	Actual36525:        simple(actualDays, 365.25),
	Actual364:          simple(actualDays, 364),
	Thirty360BondBasis: simple(thirty360(bondBasis), 360),
	Thirty360US:        simple(thirty360(us), 360),
	Thirty360European:  simple(thirty360(european), 360),
	Thirty360Italian:   simple(thirty360(italian), 360),
	Thirty360ISDA:      simple(thirty360(isda), 360),
	Thirty360NASD:      simple(thirty360(nasd), 360),
	Business252:        simple(businessDays, 252),
	Actual365Canadian: {
		dayCount:     actualDays,
		yearFraction: canadianYearFraction,
		dayWeight:    constantWeight(365),
	},
	ActualActualISDA: {
		dayCount:     actualDays,
		yearFraction: isdaYearFraction,
		dayWeight:    calendarYearWeight,
	},
	ActualActualAFB: {
		dayCount:     actualDays,
		yearFraction: afbYearFraction,
		dayWeight:    calendarYearWeight,
	},
	ActualActualISMA: {
		dayCount:     actualDays,
		yearFraction: ismaYearFraction,
		dayWeight: func(dc DayCounter, day time.Time, a callArgs) (float64, error) {
			return ismaYearFraction(dc, day, day.AddDate(0, 0, 1), a)
		},
	},
}

func simple(count func(DayCounter, time.Time, time.Time, callArgs) int, denominator float64) strategy {
	return strategy{
		dayCount: count,
		yearFraction: func(dc DayCounter, d1, d2 time.Time, a callArgs) (float64, error) {
			return float64(count(dc, d1, d2, a)) / denominator, nil
		},
		dayWeight: constantWeight(denominator),
	}
}

func constantWeight(denominator float64) func(DayCounter, time.Time, callArgs) (float64, error) {
	return func(DayCounter, time.Time, callArgs) (float64, error) { return 1 / denominator, nil }
}

func calendarYearWeight(_ DayCounter, day time.Time, _ callArgs) (float64, error) {
	return 1 / float64(utils.DaysInYear(day.Year())), nil
}

func actualDays(_ DayCounter, d1, d2 time.Time, _ callArgs) int {
	return utils.DaysBetween(d1, d2)
}

func businessDays(dc DayCounter, d1, d2 time.Time, _ callArgs) int {
	return dc.cal.BusinessDaysBetween(d1, d2, true, false)
}
