package daycount

import (
	"math"
	"time"

	"github.com/meenmo/fincore/schedule"
	"github.com/meenmo/fincore/utils"
)

// isdaYearFraction splits the interval by calendar year and divides each
// piece by the length of its own year.
func isdaYearFraction(_ DayCounter, d1, d2 time.Time, _ callArgs) (float64, error) {
	y1, y2 := d1.Year(), d2.Year()
	sum := float64(y2 - y1 - 1)
	sum += float64(utils.DaysBetween(d1, utils.Date(y1+1, time.January, 1))) / float64(utils.DaysInYear(y1))
	sum += float64(utils.DaysBetween(utils.Date(y2, time.January, 1), d2)) / float64(utils.DaysInYear(y2))
	return sum, nil
}

// afbYearFraction counts whole years back from d2, then divides the
// remaining stub by 366 when it contains a Feb 29 and 365 otherwise.
func afbYearFraction(_ DayCounter, d1, d2 time.Time, _ callArgs) (float64, error) {
	newD2, temp := d2, d2
	sum := 0.0
	for temp.After(d1) {
		temp = utils.AddYears(newD2, -1)
		if temp.Day() == 28 && temp.Month() == time.February && utils.IsLeap(temp.Year()) {
			temp = temp.AddDate(0, 0, 1)
		}
		if !temp.Before(d1) {
			sum++
			newD2 = temp
		}
	}

	den := 365.0
	if utils.IsLeap(newD2.Year()) {
		feb29 := utils.Date(newD2.Year(), time.February, 29)
		if newD2.After(feb29) && !d1.After(feb29) {
			den++
		}
	} else if utils.IsLeap(d1.Year()) {
		feb29 := utils.Date(d1.Year(), time.February, 29)
		if newD2.After(feb29) && !d1.After(feb29) {
			den++
		}
	}
	return sum + float64(utils.DaysBetween(d1, newD2))/den, nil
}

// ismaYearFraction normalizes by the coupon reference period. Explicit
// reference dates win over an attached schedule; with neither, only a
// same-day interval is defined.
func ismaYearFraction(dc DayCounter, d1, d2 time.Time, a callArgs) (float64, error) {
	if a.hasReference() {
		return ismaWithReference(dc, d1, d2, a.refStart, a.refEnd)
	}
	if dc.sched != nil {
		return ismaWithSchedule(dc, d1, d2)
	}
	return 0, configErr(dc, "neither reference period nor schedule given for %s to %s",
		utils.FormatDate(d1), utils.FormatDate(d2))
}

func ismaWithReference(dc DayCounter, d1, d2, refStart, refEnd time.Time) (float64, error) {
	if !refEnd.After(refStart) || !refEnd.After(d1) {
		return 0, configErr(dc, "invalid reference period: date 1: %s, date 2: %s, reference period start: %s, reference period end: %s",
			utils.FormatDate(d1), utils.FormatDate(d2), utils.FormatDate(refStart), utils.FormatDate(refEnd))
	}

	months := int(math.Round(12 * float64(utils.DaysBetween(refStart, refEnd)) / 365))
	if months == 0 {
		// short reference periods are replaced by one year from d1
		refStart, refEnd = d1, utils.AddYears(d1, 1)
		months = 12
	}
	period := float64(months) / 12

	if !d2.After(refEnd) {
		if !d1.Before(refStart) {
			return period * float64(utils.DaysBetween(d1, d2)) / float64(utils.DaysBetween(refStart, refEnd)), nil
		}
		// long first coupon: d1 sits in the notional period before refStart
		previousRef := utils.AddMonth(refStart, -months)
		if d2.After(refStart) {
			head, err := ismaWithReference(dc, d1, refStart, previousRef, refStart)
			if err != nil {
				return 0, err
			}
			tail, err := ismaWithReference(dc, refStart, d2, refStart, refEnd)
			return head + tail, err
		}
		return ismaWithReference(dc, d1, d2, previousRef, refStart)
	}

	if refStart.After(d1) {
		return 0, configErr(dc, "invalid dates: d1 < reference period start < reference period end < d2")
	}
	sum, err := ismaWithReference(dc, d1, refEnd, refStart, refEnd)
	if err != nil {
		return 0, err
	}
	// whole notional periods after refEnd, then the remaining piece
	var newStart, newEnd time.Time
	for i := 0; ; i++ {
		newStart = utils.AddMonth(refEnd, months*i)
		newEnd = utils.AddMonth(refEnd, months*(i+1))
		if d2.Before(newEnd) {
			break
		}
		sum += period
	}
	if newStart.Equal(d2) {
		return sum, nil
	}
	tail, err := ismaWithReference(dc, newStart, d2, newStart, newEnd)
	return sum + tail, err
}

// maxQuasiExtension bounds how far the reference grid is walked past the schedule.
const maxQuasiExtension = 1200

func ismaWithSchedule(dc DayCounter, d1, d2 time.Time) (float64, error) {
	dates := dc.refDates
	if d1.Before(dates[0]) || d2.After(dates[len(dates)-1]) {
		var ok bool
		if dates, ok = extendQuasiDates(dc.sched, dates, d1, d2); !ok {
			return 0, configErr(dc, "dates out of range of schedule: date 1: %s, date 2: %s, first date: %s, last date: %s",
				utils.FormatDate(d1), utils.FormatDate(d2), utils.FormatDate(dates[0]), utils.FormatDate(dates[len(dates)-1]))
		}
	}

	sum := 0.0
	for i := 0; i+1 < len(dates); i++ {
		start, end := dates[i], dates[i+1]
		if d1.Before(end) && d2.After(start) {
			sum += referenceFraction(utils.MaxDate(d1, start), utils.MinDate(d2, end), start, end)
		}
	}
	return sum, nil
}

// referenceFraction is days / (reference days * coupons per year), the
// coupon frequency being inferred from the reference length.
func referenceFraction(d1, d2, refStart, refEnd time.Time) float64 {
	refDays := float64(utils.DaysBetween(refStart, refEnd))
	perYear := math.Round(365 / refDays)
	if perYear < 1 {
		perYear = 1
	}
	return float64(utils.DaysBetween(d1, d2)) / (refDays * perYear)
}

func stepper(s *schedule.Schedule) (func(time.Time, int) time.Time, bool) {
	if !s.HasTenor() || s.Tenor().IsZero() {
		return nil, false
	}
	cal, tenor, conv, eom := s.Calendar(), s.Tenor(), s.Convention(), s.EndOfMonth()
	return func(t time.Time, dir int) time.Time {
		return cal.AdvancePeriod(t, tenor.Times(dir), conv, eom)
	}, true
}

// quasiCouponDates replaces irregular first and last periods of s by
// notional regular ones, adding one more notional date for long stubs.
func quasiCouponDates(s *schedule.Schedule) []time.Time {
	dates := s.Dates()
	step, ok := stepper(s)
	if !ok {
		return dates
	}
	n := len(dates)
	issue, maturity := dates[0], dates[n-1]

	var head, tail []time.Time
	if !s.HasIsRegular() || !s.IsRegular(1) {
		notionalFirst := step(dates[1], -1)
		if notionalFirst.After(issue) {
			head = append(head, step(notionalFirst, -1))
		}
		head = append(head, notionalFirst)
	} else {
		head = append(head, issue)
	}
	if !s.HasIsRegular() || !s.IsRegular(n-1) {
		notionalLast := step(dates[n-2], 1)
		tail = append(tail, notionalLast)
		if notionalLast.Before(maturity) {
			tail = append(tail, step(notionalLast, 1))
		}
	} else {
		tail = append(tail, maturity)
	}

	if n == 2 {
		return append(head, maturity)
	}
	out := append(head, dates[1:n-1]...)
	return append(out, tail...)
}

// extendQuasiDates adds notional tenor steps before and after the grid until
// it covers [d1, d2].
func extendQuasiDates(s *schedule.Schedule, dates []time.Time, d1, d2 time.Time) ([]time.Time, bool) {
	step, ok := stepper(s)
	if !ok {
		return dates, false
	}
	var before []time.Time
	first := dates[0]
	for i := 0; d1.Before(first); i++ {
		prev := step(first, -1)
		if i == maxQuasiExtension || !prev.Before(first) {
			return dates, false
		}
		before = append(before, prev)
		first = prev
	}
	out := make([]time.Time, 0, len(before)+len(dates))
	for i := len(before) - 1; i >= 0; i-- {
		out = append(out, before[i])
	}
	out = append(out, dates...)
	last := out[len(out)-1]
	for i := 0; d2.After(last); i++ {
		next := step(last, 1)
		if i == maxQuasiExtension || !next.After(last) {
			return dates, false
		}
		out = append(out, next)
		last = next
	}
	return out, true
}
