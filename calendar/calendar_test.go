package calendar_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/errs"
	"github.com/meenmo/fincore/utils"
)

func d(s string) time.Time {
	return utils.MustParseDate(s)
}

func TestMarketHolidays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cal     calendar.CalendarID
		date    string
		holiday bool
	}{
		{calendar.TARGET, "2024-03-29", true},  // Good Friday
		{calendar.TARGET, "2024-04-01", true},  // Easter Monday
		{calendar.TARGET, "2024-05-01", true},  // Labour Day
		{calendar.TARGET, "2024-12-26", true},  // Boxing Day
		{calendar.TARGET, "2024-04-02", false}, // Tuesday after Easter
		{calendar.USD, "2023-11-23", true},     // Thanksgiving
		{calendar.USD, "2022-06-20", true},     // Juneteenth observed
		{calendar.USD, "2021-12-31", true},     // New Year's Day observed on Friday
		{calendar.USD, "2024-10-14", true},     // Columbus Day
		{calendar.USD, "2024-10-15", false},
		{calendar.GBP, "2024-05-06", true}, // Early May bank holiday
		{calendar.GBP, "2024-05-27", true}, // Spring bank holiday
		{calendar.GBP, "2024-08-26", true}, // Summer bank holiday
		{calendar.GBP, "2022-09-19", true}, // State funeral
		{calendar.JPN, "2024-03-20", true}, // Vernal Equinox
		{calendar.JPN, "2024-09-23", true}, // Autumnal Equinox observed
		{calendar.JPN, "2024-01-02", true}, // Bank holiday
		{calendar.JPN, "2024-07-15", true}, // Marine Day
		{calendar.BRL, "2002-02-11", true}, // Carnival
		{calendar.BRL, "2002-02-12", true}, // Carnival
		{calendar.BRL, "2002-02-04", false},
		{calendar.BRL, "2024-11-20", true}, // Black Awareness Day
		{calendar.KRW, "2024-09-17", true}, // Chuseok, from the embedded table
		{calendar.KRW, "2024-08-15", true}, // Liberation Day
		{calendar.KRW, "2024-10-09", true}, // Hangul Day
		{calendar.KRW, "2024-10-10", false},
		{calendar.Null, "2024-12-25", false},
		{calendar.WeekendsOnly, "2024-12-25", false},
		{calendar.WeekendsOnly, "2024-12-28", true},
	}
	for _, c := range cases {
		cal := calendar.MustBuiltin(c.cal)
		if got := cal.IsHoliday(d(c.date)); got != c.holiday {
			t.Fatalf("%s %s: IsHoliday = %v, want %v", c.cal, c.date, got, c.holiday)
		}
	}
}

func TestAdjust_Conventions(t *testing.T) {
	t.Parallel()

	target := calendar.MustBuiltin(calendar.TARGET)
	weekends := calendar.MustBuiltin(calendar.WeekendsOnly)

	cases := []struct {
		cal  calendar.Calendar
		in   string
		conv calendar.BusinessDayConvention
		want string
	}{
		{target, "2024-03-29", calendar.Following, "2024-04-02"},
		{target, "2024-03-29", calendar.ModifiedFollowing, "2024-03-28"},
		{target, "2024-03-29", calendar.Preceding, "2024-03-28"},
		{target, "2024-04-01", calendar.ModifiedPreceding, "2024-04-02"},
		{target, "2024-03-30", calendar.Nearest, "2024-03-28"},
		{target, "2024-03-30", calendar.Unadjusted, "2024-03-30"},
		{weekends, "2024-06-15", calendar.HalfMonthModifiedFollowing, "2024-06-14"},
		{weekends, "2024-06-08", calendar.HalfMonthModifiedFollowing, "2024-06-10"},
		{weekends, "2024-06-16", calendar.Nearest, "2024-06-17"},
		{weekends, "2024-06-15", calendar.Nearest, "2024-06-14"},
	}
	for _, c := range cases {
		got := c.cal.Adjust(d(c.in), c.conv)
		if utils.FormatDate(got) != c.want {
			t.Fatalf("%s Adjust(%s, %s) = %s, want %s", c.cal.Name(), c.in, c.conv, utils.FormatDate(got), c.want)
		}
	}
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	weekends := calendar.MustBuiltin(calendar.WeekendsOnly)

	cases := []struct {
		in   string
		n    int
		unit calendar.TimeUnit
		conv calendar.BusinessDayConvention
		eom  bool
		want string
	}{
		{"2024-04-30", 1, calendar.Months, calendar.Following, true, "2024-05-31"},
		{"2024-04-30", 1, calendar.Months, calendar.Following, false, "2024-05-30"},
		{"2024-02-29", 1, calendar.Years, calendar.Unadjusted, false, "2025-02-28"},
		{"2023-02-28", 1, calendar.Months, calendar.Unadjusted, true, "2023-03-31"},
		{"2023-02-28", 1, calendar.Months, calendar.Unadjusted, false, "2023-03-28"},
		{"2024-05-03", 1, calendar.Days, calendar.Following, false, "2024-05-06"},
		{"2024-05-06", -1, calendar.Days, calendar.Following, false, "2024-05-03"},
		{"2024-05-01", 2, calendar.Weeks, calendar.Following, false, "2024-05-15"},
		{"2024-05-04", 0, calendar.Days, calendar.Following, false, "2024-05-06"},
		{"2024-08-30", -6, calendar.Months, calendar.ModifiedFollowing, true, "2024-02-29"},
	}
	for _, c := range cases {
		got := weekends.Advance(d(c.in), c.n, c.unit, c.conv, c.eom)
		if utils.FormatDate(got) != c.want {
			t.Fatalf("Advance(%s, %d%s, %s, eom=%v) = %s, want %s", c.in, c.n, c.unit, c.conv, c.eom, utils.FormatDate(got), c.want)
		}
	}
}

func TestBusinessDaysBetween(t *testing.T) {
	t.Parallel()

	brl := calendar.MustBuiltin(calendar.BRL)
	if got := brl.BusinessDaysBetween(d("2002-02-01"), d("2002-02-04"), true, false); got != 1 {
		t.Fatalf("forward: got %d", got)
	}
	if got := brl.BusinessDaysBetween(d("2002-02-04"), d("2002-02-01"), true, false); got != -1 {
		t.Fatalf("backward: got %d", got)
	}
	// Carnival Monday and Tuesday are skipped.
	if got := brl.BusinessDaysBetween(d("2002-02-08"), d("2002-02-15"), true, false); got != 3 {
		t.Fatalf("carnival week: got %d", got)
	}
	if got := brl.BusinessDaysBetween(d("2002-02-13"), d("2002-02-13"), true, true); got != 1 {
		t.Fatalf("same day: got %d", got)
	}
}

func TestEndOfMonth(t *testing.T) {
	t.Parallel()

	weekends := calendar.MustBuiltin(calendar.WeekendsOnly)
	if got := weekends.EndOfMonth(d("2024-03-10")); utils.FormatDate(got) != "2024-03-29" {
		t.Fatalf("EndOfMonth = %s", utils.FormatDate(got))
	}
	if !weekends.IsEndOfMonth(d("2024-03-29")) {
		t.Fatalf("2024-03-29 should be the last business day of March")
	}
	if weekends.IsEndOfMonth(d("2024-03-28")) {
		t.Fatalf("2024-03-28 is not month end")
	}
	if got := weekends.StartOfMonth(d("2024-06-20")); utils.FormatDate(got) != "2024-06-03" {
		t.Fatalf("StartOfMonth = %s", utils.FormatDate(got))
	}
}

func TestHolidayList(t *testing.T) {
	t.Parallel()

	target := calendar.MustBuiltin(calendar.TARGET)
	got := target.HolidayList(d("2024-01-01"), d("2024-12-31"), false)
	want := []string{"2024-01-01", "2024-03-29", "2024-04-01", "2024-05-01", "2024-12-25", "2024-12-26"}
	if len(got) != len(want) {
		t.Fatalf("expected %d holidays, got %d", len(want), len(got))
	}
	for i := range want {
		if utils.FormatDate(got[i]) != want[i] {
			t.Fatalf("holiday %d: got %s want %s", i, utils.FormatDate(got[i]), want[i])
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	tables, err := calendar.DecodeHolidayTables(strings.NewReader(`
calendar: TARGET
version: "test-1"
holidays:
  - 2024-06-03
  - {date: "2024-06-04", name: Ad hoc closure}
business_days:
  - "2024-12-26"
---
calendar: XCME
holidays: ["2024-07-05"]
`))
	if err != nil {
		t.Fatalf("DecodeHolidayTables error: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}

	reg := calendar.NewRegistry(tables...)
	target, err := reg.Get(calendar.TARGET)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !target.IsHoliday(d("2024-06-03")) || !target.IsHoliday(d("2024-06-04")) {
		t.Fatalf("extra holidays not applied")
	}
	if !target.IsBusinessDay(d("2024-12-26")) {
		t.Fatalf("extra business day not applied")
	}
	if reg.Version(calendar.TARGET) != "test-1" {
		t.Fatalf("version = %q", reg.Version(calendar.TARGET))
	}
	if reg.Version(calendar.KRW) == "" {
		t.Fatalf("embedded KRW table version missing")
	}
	// Builtin calendars are untouched by registry construction.
	if !calendar.MustBuiltin(calendar.TARGET).IsBusinessDay(d("2024-06-03")) {
		t.Fatalf("builtin TARGET was mutated")
	}

	xcme, err := reg.Get("XCME")
	if err != nil {
		t.Fatalf("Get XCME error: %v", err)
	}
	if !xcme.IsHoliday(d("2024-07-05")) || !xcme.IsHoliday(d("2024-07-06")) {
		t.Fatalf("new calendar should carry the table and weekends")
	}

	_, err = reg.Get("NOPE")
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestParsePeriodAndFrequency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want calendar.Period
		freq calendar.Frequency
	}{
		{"6M", calendar.NewPeriod(6, calendar.Months), calendar.Semiannual},
		{"1y", calendar.NewPeriod(1, calendar.Years), calendar.Annual},
		{"3M", calendar.NewPeriod(3, calendar.Months), calendar.Quarterly},
		{"2W", calendar.NewPeriod(2, calendar.Weeks), calendar.Biweekly},
		{"1D", calendar.NewPeriod(1, calendar.Days), calendar.Daily},
		{"5M", calendar.NewPeriod(5, calendar.Months), calendar.OtherFrequency},
		{"0Y", calendar.NewPeriod(0, calendar.Years), calendar.Once},
	}
	for _, c := range cases {
		p, err := calendar.ParsePeriod(c.in)
		if err != nil {
			t.Fatalf("ParsePeriod(%q) error: %v", c.in, err)
		}
		if p != c.want {
			t.Fatalf("ParsePeriod(%q) = %v, want %v", c.in, p, c.want)
		}
		if p.Frequency() != c.freq {
			t.Fatalf("%s frequency = %s, want %s", p, p.Frequency(), c.freq)
		}
	}
	if _, err := calendar.ParsePeriod("6X"); err == nil {
		t.Fatalf("expected error for bad unit")
	}
	p, err := calendar.PeriodFromFrequency(calendar.Quarterly)
	if err != nil || p != calendar.NewPeriod(3, calendar.Months) {
		t.Fatalf("PeriodFromFrequency(Quarterly) = %v, %v", p, err)
	}
}

func TestParseBusinessDayConvention(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]calendar.BusinessDayConvention{
		"MF":                 calendar.ModifiedFollowing,
		"Modified Following": calendar.ModifiedFollowing,
		"unadjusted":         calendar.Unadjusted,
		"HMMF":               calendar.HalfMonthModifiedFollowing,
	} {
		got, err := calendar.ParseBusinessDayConvention(in)
		if err != nil || got != want {
			t.Fatalf("ParseBusinessDayConvention(%q) = %v, %v", in, got, err)
		}
	}
}
