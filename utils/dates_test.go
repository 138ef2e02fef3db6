package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/fincore/utils"
)

func TestAddMonth_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2024-08-31", 6, "2025-02-28"},
		{"2024-11-15", 3, "2025-02-15"},
		{"2024-02-15", -14, "2022-12-15"},
		{"2020-02-29", 12, "2021-02-28"},
	}
	for _, c := range cases {
		got := utils.AddMonth(utils.MustParseDate(c.in), c.months)
		if utils.FormatDate(got) != c.want {
			t.Fatalf("AddMonth(%s, %d): got %s want %s", c.in, c.months, utils.FormatDate(got), c.want)
		}
	}
}

func TestSerialRoundTrip(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"1901-01-01", "1969-12-31", "1970-01-01", "2000-02-29", "2199-12-31"} {
		d := utils.MustParseDate(s)
		if got := utils.FromSerial(utils.Serial(d)); !got.Equal(d) {
			t.Fatalf("FromSerial(Serial(%s)) = %s", s, utils.FormatDate(got))
		}
	}
	if got := utils.Serial(utils.Date(1970, time.January, 2)); got != 1 {
		t.Fatalf("Serial(1970-01-02) = %d", got)
	}
	if got := utils.DaysBetween(utils.Date(2004, time.February, 1), utils.Date(2004, time.March, 1)); got != 29 {
		t.Fatalf("DaysBetween Feb 2004 = %d", got)
	}
}

func TestIntradayFraction(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	if f := utils.IntradayFraction(d); math.Abs(f-0.75) > 1e-15 {
		t.Fatalf("IntradayFraction = %.15f", f)
	}
	if utils.HasIntraday(utils.Day(d)) {
		t.Fatalf("Day() must drop time of day")
	}
}

func TestNthWeekday(t *testing.T) {
	t.Parallel()

	// Third Wednesday of March 2024.
	got := utils.NthWeekday(3, time.Wednesday, time.March, 2024)
	if utils.FormatDate(got) != "2024-03-20" {
		t.Fatalf("got %s", utils.FormatDate(got))
	}
	// Fourth Thursday of November 2023 (Thanksgiving).
	got = utils.NthWeekday(4, time.Thursday, time.November, 2023)
	if utils.FormatDate(got) != "2023-11-23" {
		t.Fatalf("got %s", utils.FormatDate(got))
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := utils.ParseDate("2024/01/01"); err == nil {
		t.Fatalf("expected error")
	}
	d, err := utils.ParseDate("2024-01-01T06:00:00")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.Hour() != 6 {
		t.Fatalf("hour = %d", d.Hour())
	}
}
