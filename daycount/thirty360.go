package daycount

import (
	"time"

	"github.com/meenmo/fincore/utils"
)

// ymd is a date split into the fields the 30/360 rules rewrite.
type ymd struct {
	y, m, d int
}

func split(t time.Time) ymd {
	y, m, d := t.Date()
	return ymd{y: y, m: int(m), d: d}
}

// thirty360Rule rewrites the day (and for NASD the month) of both ends.
type thirty360Rule func(d1, d2 time.Time, a callArgs) (ymd, ymd)

func thirty360(rule thirty360Rule) func(DayCounter, time.Time, time.Time, callArgs) int {
	return func(_ DayCounter, d1, d2 time.Time, a callArgs) int {
		s, e := rule(d1, d2, a)
		return 360*(e.y-s.y) + 30*(e.m-s.m) + (e.d - s.d)
	}
}

func bondBasis(d1, d2 time.Time, _ callArgs) (ymd, ymd) {
	s, e := split(d1), split(d2)
	if s.d == 31 {
		s.d = 30
	}
	if e.d == 31 && s.d == 30 {
		e.d = 30
	}
	return s, e
}

func us(d1, d2 time.Time, _ callArgs) (ymd, ymd) {
	s, e := split(d1), split(d2)
	if s.d == 31 {
		s.d = 30
	}
	if e.d == 31 && s.d >= 30 {
		e.d = 30
	}
	if utils.IsLastOfFebruary(d2) && utils.IsLastOfFebruary(d1) {
		e.d = 30
	}
	if utils.IsLastOfFebruary(d1) {
		s.d = 30
	}
	return s, e
}

func european(d1, d2 time.Time, _ callArgs) (ymd, ymd) {
	s, e := split(d1), split(d2)
	if s.d == 31 {
		s.d = 30
	}
	if e.d == 31 {
		e.d = 30
	}
	return s, e
}

func italian(d1, d2 time.Time, _ callArgs) (ymd, ymd) {
	s, e := european(d1, d2, callArgs{})
	if s.m == 2 && s.d > 27 {
		s.d = 30
	}
	if e.m == 2 && e.d > 27 {
		e.d = 30
	}
	return s, e
}

func isda(d1, d2 time.Time, a callArgs) (ymd, ymd) {
	s, e := european(d1, d2, a)
	if utils.IsLastOfFebruary(d1) {
		s.d = 30
	}
	if !d2.Equal(a.termination) && utils.IsLastOfFebruary(d2) {
		e.d = 30
	}
	return s, e
}

func nasd(d1, d2 time.Time, _ callArgs) (ymd, ymd) {
	s, e := split(d1), split(d2)
	if s.d == 31 {
		s.d = 30
	}
	if e.d == 31 {
		if s.d >= 30 {
			e.d = 30
		} else {
			e.d = 1
			e.m++
		}
	}
	return s, e
}
