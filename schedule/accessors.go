package schedule

import (
	"slices"
	"sort"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/errs"
	"github.com/meenmo/fincore/utils"
)

// Size is the number of dates.
func (s *Schedule) Size() int { return len(s.dates) }

// Date returns the i-th adjusted date.
func (s *Schedule) Date(i int) time.Time { return s.dates[i] }

// Dates returns a copy of the adjusted dates.
func (s *Schedule) Dates() []time.Time { return slices.Clone(s.dates) }

// UnadjustedDates returns a copy of the dates before business-day adjustment.
func (s *Schedule) UnadjustedDates() []time.Time { return slices.Clone(s.unadjusted) }

func (s *Schedule) StartDate() time.Time { return s.dates[0] }
func (s *Schedule) EndDate() time.Time   { return s.dates[len(s.dates)-1] }

// HasIsRegular reports whether per-period regularity is known.
func (s *Schedule) HasIsRegular() bool { return len(s.isRegular) > 0 }

// IsRegular reports whether the i-th period, counted from 1, has the full
// tenor length. It returns false when regularity is unknown.
func (s *Schedule) IsRegular(i int) bool {
	if i < 1 || i >= len(s.dates) {
		panic("schedule: period index out of range")
	}
	if !s.HasIsRegular() {
		return false
	}
	return s.isRegular[i-1]
}

// Regularity returns a copy of the per-period flags, or nil when unknown.
func (s *Schedule) Regularity() []bool { return slices.Clone(s.isRegular) }

// HasTenor reports whether the schedule was generated with a known tenor.
func (s *Schedule) HasTenor() bool { return s.tenor.N != 0 || s.rule == Zero }

func (s *Schedule) Tenor() calendar.Period                     { return s.tenor }
func (s *Schedule) Calendar() calendar.Calendar                { return s.cal }
func (s *Schedule) Convention() calendar.BusinessDayConvention { return s.conv }
func (s *Schedule) TerminationConvention() calendar.BusinessDayConvention {
	return s.termConv
}
func (s *Schedule) Rule() Rule                { return s.rule }
func (s *Schedule) EndOfMonth() bool          { return s.eom }
func (s *Schedule) FirstDate() time.Time      { return s.firstDate }
func (s *Schedule) NextToLastDate() time.Time { return s.nextToLast }

// PreviousDate returns the latest date strictly before ref.
func (s *Schedule) PreviousDate(ref time.Time) (time.Time, bool) {
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(ref) })
	if i == 0 {
		return time.Time{}, false
	}
	return s.dates[i-1], true
}

// NextDate returns the earliest date on or after ref.
func (s *Schedule) NextDate(ref time.Time) (time.Time, bool) {
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(ref) })
	if i == len(s.dates) {
		return time.Time{}, false
	}
	return s.dates[i], true
}

// Periods lists the accrual intervals in order.
func (s *Schedule) Periods() []Period {
	out := make([]Period, 0, len(s.dates)-1)
	for i := 1; i < len(s.dates); i++ {
		out = append(out, Period{
			Start:           s.dates[i-1],
			End:             s.dates[i],
			UnadjustedStart: s.unadjusted[i-1],
			UnadjustedEnd:   s.unadjusted[i],
			Regular:         s.HasIsRegular() && s.isRegular[i-1],
		})
	}
	return out
}

func (s *Schedule) clone() *Schedule {
	c := *s
	c.dates = slices.Clone(s.dates)
	c.unadjusted = slices.Clone(s.unadjusted)
	c.isRegular = slices.Clone(s.isRegular)
	return &c
}

// Until truncates the schedule at d. d becomes the last date, flagged
// irregular, when it is not already a schedule date.
func (s *Schedule) Until(d time.Time) (*Schedule, error) {
	d = utils.Day(d)
	if !d.After(s.StartDate()) {
		return nil, errs.Configuration("Schedule.Until", "truncation date %s must be later than schedule first date %s",
			utils.FormatDate(d), utils.FormatDate(s.StartDate()))
	}
	c := s.clone()
	if !d.Before(c.EndDate()) {
		return c, nil
	}
	for c.EndDate().After(d) {
		c.dates = c.dates[:len(c.dates)-1]
		c.unadjusted = c.unadjusted[:len(c.unadjusted)-1]
		if len(c.isRegular) > 0 {
			c.isRegular = c.isRegular[:len(c.isRegular)-1]
		}
	}
	if !c.EndDate().Equal(d) {
		c.dates = append(c.dates, d)
		c.unadjusted = append(c.unadjusted, d)
		if s.isRegular != nil {
			c.isRegular = append(c.isRegular, false)
		}
		c.termConv = calendar.Unadjusted
	} else {
		c.termConv = c.conv
	}
	if !c.nextToLast.IsZero() && !c.nextToLast.Before(d) {
		c.nextToLast = time.Time{}
	}
	if !c.firstDate.IsZero() && !c.firstDate.Before(d) {
		c.firstDate = time.Time{}
	}
	return c, nil
}

// After truncates the schedule before d. d becomes the first date, flagged
// irregular, when it is not already a schedule date.
func (s *Schedule) After(d time.Time) (*Schedule, error) {
	d = utils.Day(d)
	if !d.Before(s.EndDate()) {
		return nil, errs.Configuration("Schedule.After", "truncation date %s must be earlier than schedule last date %s",
			utils.FormatDate(d), utils.FormatDate(s.EndDate()))
	}
	c := s.clone()
	if !d.After(c.StartDate()) {
		return c, nil
	}
	for c.StartDate().Before(d) {
		c.dates = c.dates[1:]
		c.unadjusted = c.unadjusted[1:]
		if len(c.isRegular) > 0 {
			c.isRegular = c.isRegular[1:]
		}
	}
	if !c.StartDate().Equal(d) {
		c.dates = append([]time.Time{d}, c.dates...)
		c.unadjusted = append([]time.Time{d}, c.unadjusted...)
		if s.isRegular != nil {
			c.isRegular = append([]bool{false}, c.isRegular...)
		}
	}
	if !c.firstDate.IsZero() && !c.firstDate.After(d) {
		c.firstDate = time.Time{}
	}
	if !c.nextToLast.IsZero() && !c.nextToLast.After(d) {
		c.nextToLast = time.Time{}
	}
	return c, nil
}
