package daycount_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/errs"
	"github.com/meenmo/fincore/schedule"
	"github.com/meenmo/fincore/utils"
)

func d(s string) time.Time { return utils.MustParseDate(s) }

func TestThirty360DayCounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		conv   daycount.Convention
		d1, d2 string
		want   int
	}{
		{daycount.Thirty360BondBasis, "2006-08-20", "2007-02-20", 180},
		{daycount.Thirty360BondBasis, "2006-08-31", "2007-02-28", 178},
		{daycount.Thirty360BondBasis, "2024-01-15", "2024-03-31", 76},
		{daycount.Thirty360BondBasis, "2024-02-29", "2024-03-31", 32},
		{daycount.Thirty360European, "2024-01-15", "2024-03-31", 75},
		{daycount.Thirty360US, "2024-02-29", "2024-03-31", 31},
		{daycount.Thirty360Italian, "2024-02-28", "2024-03-31", 30},
		{daycount.Thirty360NASD, "2024-01-15", "2024-03-31", 76},
		{daycount.Thirty360NASD, "2024-01-30", "2024-03-31", 60},
		{daycount.Thirty360ISDA, "2008-02-29", "2009-02-28", 360},
	}
	for _, c := range cases {
		dc := daycount.New(c.conv)
		assert.Equal(t, c.want, dc.DayCount(d(c.d1), d(c.d2)), "%s %s..%s", dc.Name(), c.d1, c.d2)
	}
}

func TestThirty360ISDATerminationDate(t *testing.T) {
	t.Parallel()

	dc := daycount.New(daycount.Thirty360ISDA)
	// 2009-02-29 does not exist and normalizes to 2009-03-01, so the Feb end still clamps
	termination := time.Date(2009, time.February, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 360, dc.DayCount(d("2008-02-29"), d("2009-02-28"), daycount.WithTerminationDate(termination)))

	// at maturity the last day of February is kept as is
	assert.Equal(t, 358, dc.DayCount(d("2008-02-29"), d("2009-02-28"), daycount.WithTerminationDate(d("2009-02-28"))))

	yf, err := dc.YearFraction(d("2008-02-29"), d("2009-02-28"), daycount.WithTerminationDate(d("2009-02-28")))
	require.NoError(t, err)
	assert.InDelta(t, 358.0/360.0, yf, 1e-15)
}

func TestSimpleYearFractions(t *testing.T) {
	t.Parallel()

	d1, d2 := d("2024-01-01"), d("2024-07-01")
	cases := []struct {
		conv daycount.Convention
		want float64
	}{
		{daycount.Actual360, 182.0 / 360},
		{daycount.Actual365Fixed, 182.0 / 365},
		{daycount.Actual366, 182.0 / 366},
		{daycount.Actual36525, 182.0 / 365.25},
		{daycount.Actual364, 182.0 / 364},
		{daycount.Actual365NoLeap, 181.0 / 365},
	}
	for _, c := range cases {
		yf, err := daycount.New(c.conv).YearFraction(d1, d2)
		require.NoError(t, err)
		assert.InDelta(t, c.want, yf, 1e-15, c.conv.String())
	}

	nl := daycount.New(daycount.Actual365NoLeap)
	assert.Equal(t, 1, nl.DayCount(d("2024-02-28"), d("2024-03-01")))
}

func TestBusiness252(t *testing.T) {
	t.Parallel()

	dc := daycount.New(daycount.Business252)
	assert.Equal(t, "Business/252(Brazil settlement)", dc.Name())

	yf, err := dc.YearFraction(d("2002-02-01"), d("2002-02-04"))
	require.NoError(t, err)
	assert.InDelta(t, 0.0039682539683, yf, 1e-12)

	back, err := dc.YearFraction(d("2002-02-04"), d("2002-02-01"))
	require.NoError(t, err)
	assert.Equal(t, -yf, back)

	// carnival 2002-02-11/12 is skipped
	assert.Equal(t, 2, dc.DayCount(d("2002-02-08"), d("2002-02-14")))

	target := daycount.New(daycount.Business252, daycount.WithCalendar(calendar.MustBuiltin(calendar.TARGET)))
	assert.Equal(t, "Business/252(TARGET)", target.Name())
	assert.Equal(t, 5, target.DayCount(d("2002-02-08"), d("2002-02-15")))
}

func TestActualActual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name               string
		d1, d2, ref1, ref2 string
		isda, isma, afb    float64
	}{
		{"first example", "2003-11-01", "2004-05-01", "2003-11-01", "2004-05-01", 0.497724380567, 0.500000000000, 0.497267759563},
		{"short first", "1999-02-01", "1999-07-01", "1998-07-01", "1999-07-01", 0.410958904110, 0.410958904110, 0.410958904110},
		{"regular annual", "1999-07-01", "2000-07-01", "1999-07-01", "2000-07-01", 1.001377348600, 1.000000000000, 1.000000000000},
		{"long first", "2002-08-15", "2003-07-15", "2003-01-15", "2003-07-15", 0.915068493151, 0.915760869565, 0.915068493151},
		{"after long first", "2003-07-15", "2004-01-15", "2003-07-15", "2004-01-15", 0.504004790778, 0.500000000000, 0.504109589041},
		{"short final", "1999-07-30", "2000-01-30", "1999-07-30", "2000-01-30", 0.503892506924, 0.500000000000, 0.504109589041},
		{"final stub", "2000-01-30", "2000-06-30", "2000-01-30", "2000-07-30", 0.415300546448, 0.417582417582, 0.415300546448},
	}

	isda := daycount.New(daycount.ActualActualISDA)
	isma := daycount.New(daycount.ActualActualISMA)
	afb := daycount.New(daycount.ActualActualAFB)
	for _, c := range cases {
		ref := daycount.WithReferencePeriod(d(c.ref1), d(c.ref2))

		got, err := isda.YearFraction(d(c.d1), d(c.d2))
		require.NoError(t, err)
		assert.InDelta(t, c.isda, got, 1e-10, "ISDA %s", c.name)

		got, err = isma.YearFraction(d(c.d1), d(c.d2), ref)
		require.NoError(t, err)
		assert.InDelta(t, c.isma, got, 1e-10, "ISMA %s", c.name)

		got, err = afb.YearFraction(d(c.d1), d(c.d2))
		require.NoError(t, err)
		assert.InDelta(t, c.afb, got, 1e-10, "AFB %s", c.name)
	}

	half, err := isma.YearFraction(d("2003-11-01"), d("2004-05-01"), daycount.WithReferencePeriod(d("2003-11-01"), d("2004-05-01")))
	require.NoError(t, err)
	assert.Equal(t, 0.5, half)
}

func TestActualActualISMAWithSchedule(t *testing.T) {
	t.Parallel()

	sched, err := schedule.New(schedule.Params{
		EffectiveDate:         d("2024-01-15"),
		TerminationDate:       d("2029-01-15"),
		Tenor:                 calendar.MustParsePeriod("6M"),
		Convention:            calendar.Unadjusted,
		TerminationConvention: calendar.Unadjusted,
		Rule:                  schedule.Backward,
	})
	require.NoError(t, err)
	dc := daycount.New(daycount.ActualActualISMA, daycount.WithSchedule(sched))

	// spans two coupon periods of 182 and 184 days
	got, err := dc.YearFraction(d("2024-03-01"), d("2024-09-01"))
	require.NoError(t, err)
	assert.InDelta(t, 136.0/364+48.0/368, got, 1e-14)

	// a whole coupon period is exactly half a year
	got, err = dc.YearFraction(d("2025-01-15"), d("2025-07-15"))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-15)

	// before the schedule starts the grid is extended by one tenor
	got, err = dc.YearFraction(d("2023-12-01"), d("2024-02-01"))
	require.NoError(t, err)
	assert.InDelta(t, 45.0/368+17.0/364, got, 1e-14)

	stub, err := schedule.New(schedule.Params{
		EffectiveDate:         d("2024-03-01"),
		TerminationDate:       d("2026-01-15"),
		Tenor:                 calendar.MustParsePeriod("6M"),
		Convention:            calendar.Unadjusted,
		TerminationConvention: calendar.Unadjusted,
		Rule:                  schedule.Backward,
	})
	require.NoError(t, err)
	require.False(t, stub.IsRegular(1))
	got, err = daycount.New(daycount.ActualActualISMA, daycount.WithSchedule(stub)).YearFraction(d("2024-03-01"), d("2024-07-15"))
	require.NoError(t, err)
	assert.InDelta(t, 136.0/364, got, 1e-14)
}

func TestActualActualISMARequiresReference(t *testing.T) {
	t.Parallel()

	dc := daycount.New(daycount.ActualActualISMA)
	_, err := dc.YearFraction(d("2003-11-01"), d("2004-05-01"))
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "Actual/Actual (ISMA)")

	yf, err := dc.YearFraction(d("2003-11-01"), d("2003-11-01"))
	require.NoError(t, err)
	assert.Zero(t, yf)
}

func TestActual365Canadian(t *testing.T) {
	t.Parallel()

	dc := daycount.New(daycount.Actual365Canadian)
	ref := daycount.WithReferencePeriod(d("2024-01-15"), d("2024-07-15"))

	yf, err := dc.YearFraction(d("2024-01-15"), d("2024-04-15"), ref)
	require.NoError(t, err)
	assert.InDelta(t, 91.0/365, yf, 1e-15)

	// beyond 365/frequency days the fraction is measured back from a full coupon
	yf, err = dc.YearFraction(d("2024-01-15"), d("2024-07-15"), ref)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, yf, 1e-15)

	_, err = dc.YearFraction(d("2024-01-15"), d("2024-04-15"))
	assert.True(t, errs.IsConfiguration(err))

	_, err = dc.YearFraction(d("2024-01-15"), d("2024-01-20"), daycount.WithReferencePeriod(d("2024-01-15"), d("2024-01-25")))
	assert.True(t, errs.IsConfiguration(err))
}

func TestIntradayFraction(t *testing.T) {
	t.Parallel()

	at := func(s string, hour int) time.Time { return d(s).Add(time.Duration(hour) * time.Hour) }

	act365 := daycount.New(daycount.Actual365Fixed)
	yf, err := act365.YearFraction(at("2024-01-01", 0), at("2024-01-02", 12))
	require.NoError(t, err)
	assert.InDelta(t, 1.5/365, yf, 1e-15)

	act360 := daycount.New(daycount.Actual360)
	yf, err = act360.YearFraction(at("2024-01-01", 6), at("2024-01-01", 18))
	require.NoError(t, err)
	assert.InDelta(t, 0.5/360, yf, 1e-15)
	assert.Equal(t, 0, act360.DayCount(at("2024-01-01", 6), at("2024-01-01", 18)))

	isda := daycount.New(daycount.ActualActualISDA)
	yf, err = isda.YearFraction(at("2023-12-31", 12), at("2024-01-01", 6))
	require.NoError(t, err)
	assert.InDelta(t, 1.0/365+0.25/366-0.5/365, yf, 1e-15)
}

func TestZeroAndAntisymmetry(t *testing.T) {
	t.Parallel()

	sched, err := schedule.New(schedule.Params{
		EffectiveDate:   d("2015-06-30"),
		TerminationDate: d("2025-06-30"),
		Tenor:           calendar.MustParsePeriod("6M"),
		Calendar:        calendar.MustBuiltin(calendar.TARGET),
		Convention:      calendar.ModifiedFollowing,
		Rule:            schedule.Backward,
		EndOfMonth:      true,
	})
	require.NoError(t, err)

	counters := map[daycount.Convention][]daycount.CallOption{}
	for c := daycount.Actual360; c <= daycount.ActualActualAFB; c++ {
		counters[c] = nil
	}
	counters[daycount.Actual365Canadian] = []daycount.CallOption{daycount.WithReferencePeriod(d("2020-01-01"), d("2020-07-01"))}

	rng := rand.New(rand.NewSource(7))
	base := d("2012-01-01")
	for conv, opts := range counters {
		dc := daycount.New(conv, daycount.WithSchedule(sched))
		for i := 0; i < 200; i++ {
			d1 := base.Add(time.Duration(rng.Int63n(int64(16 * 365 * 24 * time.Hour))))
			d2 := base.Add(time.Duration(rng.Int63n(int64(16 * 365 * 24 * time.Hour))))
			if i%3 == 0 {
				d1, d2 = utils.Day(d1), utils.Day(d2)
			}

			zero, err := dc.YearFraction(d1, d1, opts...)
			require.NoError(t, err)
			require.Zero(t, zero, dc.Name())

			fwd, err := dc.YearFraction(d1, d2, opts...)
			require.NoError(t, err, "%s %s %s", dc.Name(), d1, d2)
			back, err := dc.YearFraction(d2, d1, opts...)
			require.NoError(t, err)
			require.Equal(t, fwd, -back, "%s %s %s", dc.Name(), d1, d2)
			require.Equal(t, dc.DayCount(d1, d2, opts...), -dc.DayCount(d2, d1, opts...))
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for conv := daycount.Actual360; conv <= daycount.ActualActualAFB; conv++ {
		got, err := daycount.Parse(daycount.New(conv).Name())
		require.NoError(t, err)
		assert.Equal(t, conv, got)
	}

	cases := map[string]daycount.Convention{
		"act/360":      daycount.Actual360,
		"ACT/365F":     daycount.Actual365Fixed,
		"30E/360":      daycount.Thirty360European,
		"30e/360 isda": daycount.Thirty360ISDA,
		"ACT/ACT ICMA": daycount.ActualActualISMA,
	}
	for in, want := range cases {
		got, err := daycount.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := daycount.Parse("ACT/999")
	assert.True(t, errs.IsConfiguration(err))
}
