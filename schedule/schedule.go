// Package schedule generates coupon date schedules between an effective and
// a termination date.
package schedule

import (
	"slices"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/errs"
	"github.com/meenmo/fincore/utils"
)

// Params describes a rule-based schedule. Zero FirstDate and NextToLastDate
// mean "not given". A zero Tenor forces the Zero rule.
type Params struct {
	EffectiveDate         time.Time
	TerminationDate       time.Time
	Tenor                 calendar.Period
	Calendar              calendar.Calendar
	Convention            calendar.BusinessDayConvention
	TerminationConvention calendar.BusinessDayConvention
	Rule                  Rule
	EndOfMonth            bool
	FirstDate             time.Time
	NextToLastDate        time.Time
}

// Meta carries the optional metadata of a schedule built from explicit dates.
// A zero Tenor means the tenor is unknown; a nil IsRegular means regularity is unknown.
type Meta struct {
	Calendar              calendar.Calendar
	Convention            calendar.BusinessDayConvention
	TerminationConvention calendar.BusinessDayConvention
	Tenor                 calendar.Period
	Rule                  Rule
	EndOfMonth            bool
	IsRegular             []bool
}

// Schedule is an immutable, strictly increasing sequence of adjusted dates
// with the unadjusted dates they came from.
type Schedule struct {
	dates      []time.Time
	unadjusted []time.Time
	isRegular  []bool

	tenor      calendar.Period
	cal        calendar.Calendar
	conv       calendar.BusinessDayConvention
	termConv   calendar.BusinessDayConvention
	rule       Rule
	eom        bool
	firstDate  time.Time
	nextToLast time.Time
}

// Period is one accrual interval of a schedule.
type Period struct {
	Start, End                     time.Time
	UnadjustedStart, UnadjustedEnd time.Time
	Regular                        bool
}

var null calendar.Calendar

// New generates a schedule from p.
func New(p Params) (*Schedule, error) {
	const op = "schedule.New"

	eff, term := p.EffectiveDate, p.TerminationDate
	if eff.IsZero() {
		return nil, errs.Configuration(op, "null effective date")
	}
	if term.IsZero() {
		return nil, errs.Configuration(op, "null termination date")
	}
	eff, term = utils.Day(eff), utils.Day(term)
	if !eff.Before(term) {
		return nil, errs.Configuration(op, "effective date (%s) later than or equal to termination date (%s)",
			utils.FormatDate(eff), utils.FormatDate(term))
	}
	if p.Tenor.N < 0 {
		return nil, errs.Configuration(op, "non positive tenor (%s) not allowed", p.Tenor)
	}

	rule := p.Rule
	if p.Tenor.N == 0 {
		rule = Zero
	}
	if rule == Explicit {
		return nil, errs.Configuration(op, "explicit rule requires FromDates")
	}
	if p.EndOfMonth && !rule.allowsEndOfMonth() {
		return nil, errs.Configuration(op, "end of month convention incompatible with %s date generation rule", rule)
	}

	first, ntl := p.FirstDate, p.NextToLastDate
	if !first.IsZero() {
		first = utils.Day(first)
		if err := checkInnerDate(op, "first date", first, eff, term, rule); err != nil {
			return nil, err
		}
	}
	if !ntl.IsZero() {
		ntl = utils.Day(ntl)
		if err := checkInnerDate(op, "next to last date", ntl, eff, term, rule); err != nil {
			return nil, err
		}
	}

	s := &Schedule{
		tenor:      p.Tenor,
		cal:        p.Calendar,
		conv:       p.Convention,
		termConv:   p.TerminationConvention,
		rule:       rule,
		eom:        p.EndOfMonth,
		firstDate:  first,
		nextToLast: ntl,
	}

	var seed time.Time
	switch rule {
	case Zero:
		s.tenor = calendar.NewPeriod(0, calendar.Years)
		s.dates = []time.Time{eff, term}
		s.isRegular = []bool{true}
	case Backward:
		seed = s.generateBackward(eff, term)
	default:
		seed = s.generateForward(eff, term)
	}

	switch rule {
	case ThirdWednesday:
		for i := 1; i < len(s.dates)-1; i++ {
			s.dates[i] = thirdWednesday(s.dates[i])
		}
	case ThirdWednesdayInclusive:
		for i := range s.dates {
			s.dates[i] = thirdWednesday(s.dates[i])
		}
	}
	s.unadjusted = slices.Clone(s.dates)

	s.adjust(seed)
	s.dedup()

	if len(s.dates) < 2 {
		return nil, errs.Configuration(op, "degenerate single date (%s) schedule", utils.FormatDate(s.dates[0]))
	}
	return s, nil
}

func checkInnerDate(op, what string, d, eff, term time.Time, rule Rule) error {
	switch rule {
	case Backward, Forward:
		if !d.After(eff) || !d.Before(term) {
			return errs.Configuration(op, "%s (%s) out of effective-termination date range (%s, %s)",
				what, utils.FormatDate(d), utils.FormatDate(eff), utils.FormatDate(term))
		}
	case ThirdWednesday, ThirdWednesdayInclusive:
		if !IsIMMDate(d, false) {
			return errs.Configuration(op, "%s (%s) is not an IMM date", what, utils.FormatDate(d))
		}
	default:
		return errs.Configuration(op, "%s incompatible with %s date generation rule", what, rule)
	}
	return nil
}

func (s *Schedule) generateBackward(eff, term time.Time) time.Time {
	// built in reverse, flipped at the end
	dates := []time.Time{term}
	var regular []bool
	last := func() time.Time { return dates[len(dates)-1] }

	seed := term
	if !s.nextToLast.IsZero() {
		dates = append(dates, s.nextToLast)
		temp := null.AdvancePeriod(seed, s.tenor.Neg(), s.conv, s.eom)
		regular = append(regular, temp.Equal(s.nextToLast))
		seed = s.nextToLast
	}

	exit := eff
	if !s.firstDate.IsZero() {
		exit = s.firstDate
	}
	for periods := 1; ; periods++ {
		temp := null.AdvancePeriod(seed, s.tenor.Times(-periods), s.conv, s.eom)
		if temp.Before(exit) {
			if !s.firstDate.IsZero() && !s.cal.Adjust(last(), s.conv).Equal(s.cal.Adjust(s.firstDate, s.conv)) {
				dates = append(dates, s.firstDate)
				regular = append(regular, false)
			}
			break
		}
		// skip dates that would collapse onto the previous one once adjusted
		if !s.cal.Adjust(last(), s.conv).Equal(s.cal.Adjust(temp, s.conv)) {
			dates = append(dates, temp)
			regular = append(regular, true)
		}
	}

	if !s.cal.Adjust(last(), s.conv).Equal(s.cal.Adjust(eff, s.conv)) {
		dates = append(dates, eff)
		regular = append(regular, false)
	}

	slices.Reverse(dates)
	slices.Reverse(regular)
	s.dates, s.isRegular = dates, regular
	return seed
}

func (s *Schedule) generateForward(eff, term time.Time) time.Time {
	var dates []time.Time
	var regular []bool
	last := func() time.Time { return dates[len(dates)-1] }
	rule := s.rule

	if rule == CDS || rule == CDS2015 {
		prev := previousTwentieth(eff, rule)
		if s.cal.Adjust(prev, s.conv).After(eff) {
			dates = append(dates, utils.AddMonth(prev, -3))
			regular = append(regular, true)
		}
		dates = append(dates, prev)
	} else {
		dates = append(dates, eff)
	}

	seed := last()
	if !s.firstDate.IsZero() {
		dates = append(dates, s.firstDate)
		temp := null.AdvancePeriod(seed, s.tenor, s.conv, s.eom)
		regular = append(regular, temp.Equal(s.firstDate))
		seed = s.firstDate
	} else if rule.isTwentieth() {
		next := nextTwentieth(eff, rule)
		if rule == OldCDS {
			// the first stub must be at least 30 days long
			if utils.DaysBetween(eff, next) < 30 {
				next = nextTwentieth(next.AddDate(0, 0, 1), rule)
			}
		}
		if !next.Equal(eff) {
			dates = append(dates, next)
			regular = append(regular, rule == CDS || rule == CDS2015)
			seed = next
		}
	}

	exit := term
	if !s.nextToLast.IsZero() {
		exit = s.nextToLast
	}
	for periods := 1; ; periods++ {
		temp := null.AdvancePeriod(seed, s.tenor.Times(periods), s.conv, s.eom)
		if temp.After(exit) {
			if !s.nextToLast.IsZero() && !s.cal.Adjust(last(), s.conv).Equal(s.cal.Adjust(s.nextToLast, s.conv)) {
				dates = append(dates, s.nextToLast)
				regular = append(regular, false)
			}
			break
		}
		if !s.cal.Adjust(last(), s.conv).Equal(s.cal.Adjust(temp, s.conv)) {
			dates = append(dates, temp)
			regular = append(regular, true)
		}
	}

	if !s.cal.Adjust(last(), s.termConv).Equal(s.cal.Adjust(term, s.termConv)) {
		if rule.isTwentieth() {
			dates = append(dates, nextTwentieth(term, rule))
			regular = append(regular, true)
		} else {
			dates = append(dates, term)
			regular = append(regular, false)
		}
	}

	s.dates, s.isRegular = dates, regular
	return seed
}

// adjust applies the business-day conventions to the generated dates. The
// termination date keeps its own convention and is left alone under Unadjusted.
func (s *Schedule) adjust(seed time.Time) {
	n := len(s.dates)
	if s.conv != calendar.Unadjusted && s.rule != OldCDS {
		s.dates[0] = s.cal.Adjust(s.dates[0], s.conv)
	}
	if s.termConv != calendar.Unadjusted && s.rule != CDS && s.rule != CDS2015 {
		s.dates[n-1] = s.cal.Adjust(s.dates[n-1], s.termConv)
	}

	if s.eom && s.rule != Zero && s.cal.IsEndOfMonth(seed) {
		for i := 1; i < n-1; i++ {
			if s.conv == calendar.Unadjusted {
				s.dates[i] = utils.EndOfMonth(s.dates[i])
			} else {
				s.dates[i] = s.cal.EndOfMonth(s.dates[i])
			}
		}
		d1 := s.snapEnd(s.unadjusted[0], s.dates[0], s.conv)
		d2 := s.snapEnd(s.unadjusted[n-1], s.dates[n-1], s.termConv)
		if !d1.Equal(d2) {
			s.dates[0], s.dates[n-1] = d1, d2
		}
		return
	}
	for i := 1; i < n-1; i++ {
		s.dates[i] = s.cal.Adjust(s.dates[i], s.conv)
	}
}

// snapEnd moves an end-point that sits on a month end onto the last business
// day of that month. Unadjusted end-points are never moved.
func (s *Schedule) snapEnd(unadj, adjusted time.Time, conv calendar.BusinessDayConvention) time.Time {
	if conv == calendar.Unadjusted {
		return adjusted
	}
	if utils.IsEndOfMonth(unadj) || s.cal.IsEndOfMonth(unadj) {
		return s.cal.EndOfMonth(unadj)
	}
	return adjusted
}

// dedup drops dates that collapsed onto a neighbour after adjustment.
func (s *Schedule) dedup() {
	n := len(s.dates)
	if n >= 2 && !s.dates[n-2].Before(s.dates[n-1]) {
		// the next-to-last date reached or passed the termination date
		if len(s.isRegular) >= 2 {
			s.isRegular[n-3] = s.dates[n-2].Equal(s.dates[n-1])
		}
		s.dates[n-2] = s.dates[n-1]
		s.unadjusted[n-2] = s.unadjusted[n-1]
		s.dates = s.dates[:n-1]
		s.unadjusted = s.unadjusted[:n-1]
		if len(s.isRegular) > 0 {
			s.isRegular = s.isRegular[:len(s.isRegular)-1]
		}
	}
	if len(s.dates) >= 2 && !s.dates[1].After(s.dates[0]) {
		if len(s.isRegular) >= 2 {
			s.isRegular[1] = s.dates[1].Equal(s.dates[0])
		}
		s.dates[1] = s.dates[0]
		s.unadjusted[1] = s.unadjusted[0]
		s.dates = s.dates[1:]
		s.unadjusted = s.unadjusted[1:]
		if len(s.isRegular) > 0 {
			s.isRegular = s.isRegular[1:]
		}
	}

	// interior collisions can appear under Unadjusted end-points combined with EOM
	dates := []time.Time{s.dates[0]}
	unadj := []time.Time{s.unadjusted[0]}
	var regular []bool
	for i := 1; i < len(s.dates); i++ {
		if !s.dates[i].After(dates[len(dates)-1]) {
			continue
		}
		dates = append(dates, s.dates[i])
		unadj = append(unadj, s.unadjusted[i])
		if len(s.isRegular) == len(s.dates)-1 {
			regular = append(regular, s.isRegular[i-1])
		}
	}
	if len(dates) != len(s.dates) {
		s.dates, s.unadjusted = dates, unadj
		if s.isRegular != nil {
			s.isRegular = regular
		}
	}
}

// FromDates wraps an explicit list of dates. The dates must be strictly increasing.
func FromDates(dates []time.Time, meta Meta) (*Schedule, error) {
	const op = "schedule.FromDates"
	if len(dates) < 2 {
		return nil, errs.Configuration(op, "at least two dates required, got %d", len(dates))
	}
	ds := make([]time.Time, len(dates))
	for i, d := range dates {
		ds[i] = utils.Day(d)
		if i > 0 && !ds[i].After(ds[i-1]) {
			return nil, errs.Configuration(op, "dates not strictly increasing at %s", utils.FormatDate(ds[i]))
		}
	}
	if meta.IsRegular != nil && len(meta.IsRegular) != len(ds)-1 {
		return nil, errs.Configuration(op, "regularity flags (%d) do not match periods (%d)", len(meta.IsRegular), len(ds)-1)
	}
	return &Schedule{
		dates:      ds,
		unadjusted: slices.Clone(ds),
		isRegular:  slices.Clone(meta.IsRegular),
		tenor:      meta.Tenor,
		cal:        meta.Calendar,
		conv:       meta.Convention,
		termConv:   meta.TerminationConvention,
		rule:       meta.Rule,
		eom:        meta.EndOfMonth,
	}, nil
}
