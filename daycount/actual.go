package daycount

import (
	"math"
	"time"

	"github.com/meenmo/fincore/utils"
)

var monthOffset = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// noLeapDays counts days as if every year had 365 days; Feb 29 counts as Feb 28.
func noLeapDays(_ DayCounter, d1, d2 time.Time, _ callArgs) int {
	serial := func(t time.Time) int {
		s := t.Day() + monthOffset[t.Month()-1] + 365*t.Year()
		if t.Month() == time.February && t.Day() == 29 {
			s--
		}
		return s
	}
	return serial(d2) - serial(d1)
}

// canadianYearFraction is Actual/365 inside a regular coupon period and a
// fraction of the coupon frequency beyond it.
func canadianYearFraction(dc DayCounter, d1, d2 time.Time, a callArgs) (float64, error) {
	if !a.hasReference() {
		return 0, configErr(dc, "reference period required")
	}
	dcs := float64(utils.DaysBetween(d1, d2))
	dcc := float64(utils.DaysBetween(a.refStart, a.refEnd))
	months := int(math.Round(12 * dcc / 365))
	if months == 0 {
		return 0, configErr(dc, "invalid reference period; must be longer than a month")
	}
	freq := 12 / months
	if freq == 0 {
		return 0, configErr(dc, "invalid reference period; must not be longer than a year")
	}
	if dcs < float64(365/freq) {
		return dcs / 365, nil
	}
	return 1/float64(freq) - (dcc-dcs)/(365*float64(freq)), nil
}
