package calendar

import (
	"time"
)

func saturdaySunday(w time.Weekday) bool {
	return w == time.Saturday || w == time.Sunday
}

// easterMonday returns the day of year of Easter Monday (Gregorian computus).
func easterMonday(y int) int {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dom := (h+l-7*m+114)%31 + 1
	easter := time.Date(y, time.Month(month), dom, 0, 0, 0, 0, time.UTC)
	return easter.YearDay() + 1
}

// targetHoliday follows the TARGET2 closing days.
func targetHoliday(x day) bool {
	em := easterMonday(x.y)
	return (x.d == 1 && x.m == time.January) ||
		// Good Friday, Easter Monday
		(x.dd == em-3 && x.y >= 2000) ||
		(x.dd == em && x.y >= 2000) ||
		// Labour Day
		(x.d == 1 && x.m == time.May && x.y >= 2000) ||
		(x.d == 25 && x.m == time.December) ||
		(x.d == 26 && x.m == time.December && x.y >= 2000) ||
		(x.d == 26 && x.m == time.December && x.y == 1999) ||
		(x.d == 31 && x.m == time.December && (x.y == 1998 || x.y == 1999 || x.y == 2001))
}

// usSettlementHoliday is the US settlement calendar (federal holidays with
// Saturday/Sunday observance rules).
func usSettlementHoliday(x day) bool {
	d, m, y, w := x.d, x.m, x.y, x.w
	return ((d == 1 || (d == 2 && w == time.Monday)) && m == time.January) ||
		// New Year's Day observed on the preceding Friday
		(d == 31 && w == time.Friday && m == time.December) ||
		// Martin Luther King's birthday, third Monday in January
		(y >= 1983 && w == time.Monday && d >= 15 && d <= 21 && m == time.January) ||
		// Washington's birthday, third Monday in February
		(w == time.Monday && d >= 15 && d <= 21 && m == time.February) ||
		// Memorial Day, last Monday in May
		(w == time.Monday && d >= 25 && m == time.May) ||
		// Juneteenth
		(y >= 2022 && (d == 19 || (d == 20 && w == time.Monday) || (d == 18 && w == time.Friday)) && m == time.June) ||
		// Independence Day
		((d == 4 || (d == 5 && w == time.Monday) || (d == 3 && w == time.Friday)) && m == time.July) ||
		// Labor Day, first Monday in September
		(w == time.Monday && d <= 7 && m == time.September) ||
		// Columbus Day, second Monday in October
		(w == time.Monday && d >= 8 && d <= 14 && m == time.October) ||
		// Veterans' Day
		((d == 11 || (d == 12 && w == time.Monday) || (d == 10 && w == time.Friday)) && m == time.November) ||
		// Thanksgiving Day, fourth Thursday in November
		(w == time.Thursday && d >= 22 && d <= 28 && m == time.November) ||
		((d == 25 || (d == 26 && w == time.Monday) || (d == 24 && w == time.Friday)) && m == time.December)
}

// ukSettlementHoliday is the UK bank holiday calendar.
func ukSettlementHoliday(x day) bool {
	d, m, y, w, dd := x.d, x.m, x.y, x.w, x.dd
	em := easterMonday(y)
	return ((d == 1 || ((d == 2 || d == 3) && w == time.Monday)) && m == time.January) ||
		dd == em-3 || dd == em ||
		// Early May Bank Holiday, moved to the 8th in 1995 and 2020
		(d <= 7 && w == time.Monday && m == time.May && y != 1995 && y != 2020) ||
		(d == 8 && m == time.May && (y == 1995 || y == 2020)) ||
		// Spring Bank Holiday, last Monday of May except jubilee years
		(d >= 25 && w == time.Monday && m == time.May && y != 2002 && y != 2012 && y != 2022) ||
		// Summer Bank Holiday, last Monday of August
		(d >= 25 && w == time.Monday && m == time.August) ||
		((d == 25 || (d == 27 && (w == time.Monday || w == time.Tuesday))) && m == time.December) ||
		((d == 26 || (d == 28 && (w == time.Monday || w == time.Tuesday))) && m == time.December) ||
		// one-off closures
		(d == 29 && m == time.April && y == 2011) ||
		((d == 3 || d == 4) && m == time.June && y == 2002) ||
		((d == 4 || d == 5) && m == time.June && y == 2012) ||
		((d == 2 || d == 3) && m == time.June && y == 2022) ||
		(d == 19 && m == time.September && y == 2022) ||
		(d == 8 && m == time.May && y == 2023) ||
		(d == 31 && m == time.December && y == 1999)
}

// japanHoliday is the Tokyo settlement calendar.
func japanHoliday(x day) bool {
	d, m, y, w := x.d, x.m, x.y, x.w
	const (
		exactVernalEquinoxTime   = 20.69115
		exactAutumnalEquinoxTime = 23.09
		diffPerYear              = 0.242194
	)
	moving := float64(y-2000) * diffPerYear
	leapYears := (y-2000)/4 + (y-2000)/100 - (y-2000)/400
	ve := int(exactVernalEquinoxTime + moving - float64(leapYears))
	ae := int(exactAutumnalEquinoxTime + moving - float64(leapYears))
	return (d <= 3 && m == time.January) ||
		// Coming of Age Day
		(w == time.Monday && d >= 8 && d <= 14 && m == time.January && y >= 2000) ||
		((d == 15 || (d == 16 && w == time.Monday)) && m == time.January && y < 2000) ||
		// National Foundation Day
		((d == 11 || (d == 12 && w == time.Monday)) && m == time.February) ||
		// Emperor's Birthday
		((d == 23 || (d == 24 && w == time.Monday)) && m == time.February && y >= 2020) ||
		((d == 23 || (d == 24 && w == time.Monday)) && m == time.December && y >= 1989 && y < 2019) ||
		// Vernal Equinox
		((d == ve || (d == ve+1 && w == time.Monday)) && m == time.March) ||
		// Showa Day
		((d == 29 || (d == 30 && w == time.Monday)) && m == time.April) ||
		// Constitution Memorial Day, Greenery Day, Children's Day
		(d >= 3 && d <= 5 && m == time.May) ||
		// any of the three above observed later if on Saturday or Sunday
		(d == 6 && m == time.May && (w == time.Monday || w == time.Tuesday || w == time.Wednesday)) ||
		// Marine Day
		(w == time.Monday && d >= 15 && d <= 21 && m == time.July && ((y >= 2003 && y < 2020) || y >= 2022)) ||
		((d == 20 || (d == 21 && w == time.Monday)) && m == time.July && y >= 1996 && y < 2003) ||
		(d == 23 && m == time.July && y == 2020) ||
		(d == 22 && m == time.July && y == 2021) ||
		// Mountain Day
		((d == 11 || (d == 12 && w == time.Monday)) && m == time.August && ((y >= 2016 && y < 2020) || y >= 2022)) ||
		(d == 10 && m == time.August && y == 2020) ||
		(d == 9 && m == time.August && y == 2021) ||
		// Respect for the Aged Day
		(w == time.Monday && d >= 15 && d <= 21 && m == time.September && y >= 2003) ||
		((d == 15 || (d == 16 && w == time.Monday)) && m == time.September && y < 2003) ||
		// a single day between Respect for the Aged Day and the Autumnal Equinox
		(w == time.Tuesday && d+1 == ae && d >= 16 && d <= 22 && m == time.September && y >= 2003) ||
		// Autumnal Equinox
		((d == ae || (d == ae+1 && w == time.Monday)) && m == time.September) ||
		// Sports Day
		(w == time.Monday && d >= 8 && d <= 14 && m == time.October && y >= 2000 && y != 2020 && y != 2021) ||
		((d == 10 || (d == 11 && w == time.Monday)) && m == time.October && y < 2000) ||
		(d == 24 && m == time.July && y == 2020) ||
		(d == 23 && m == time.July && y == 2021) ||
		// Culture Day
		((d == 3 || (d == 4 && w == time.Monday)) && m == time.November) ||
		// Labour Thanksgiving Day
		((d == 23 || (d == 24 && w == time.Monday)) && m == time.November) ||
		(d == 31 && m == time.December) ||
		// one-shot holidays for the imperial succession
		(d == 30 && m == time.April && y == 2019) ||
		((d == 1 || d == 2) && m == time.May && y == 2019) ||
		(d == 22 && m == time.October && y == 2019)
}

// brazilSettlementHoliday is the Brazilian settlement calendar used by Business/252.
func brazilSettlementHoliday(x day) bool {
	d, m, y, dd := x.d, x.m, x.y, x.dd
	em := easterMonday(y)
	return (d == 1 && m == time.January) ||
		// Tiradentes
		(d == 21 && m == time.April) ||
		(d == 1 && m == time.May) ||
		// Independence Day
		(d == 7 && m == time.September) ||
		// Nossa Sra. Aparecida
		(d == 12 && m == time.October) ||
		// All Souls
		(d == 2 && m == time.November) ||
		// Republic
		(d == 15 && m == time.November) ||
		// Black Awareness Day
		(d == 20 && m == time.November && y >= 2024) ||
		(d == 25 && m == time.December) ||
		// Passion of Christ
		dd == em-3 ||
		// Carnival
		dd == em-49 || dd == em-48 ||
		// Corpus Christi
		dd == em+59
}

// koreaFixedHoliday covers the solar-calendar public holidays of South Korea.
// Lunar holidays, substitute days and election days come from the embedded
// holiday table.
func koreaFixedHoliday(x day) bool {
	d, m, y := x.d, x.m, x.y
	return (d == 1 && m == time.January) ||
		// Independence Movement Day
		(d == 1 && m == time.March) ||
		// Arbor Day
		(d == 5 && m == time.April && y <= 2005) ||
		// Labour Day
		(d == 1 && m == time.May) ||
		// Children's Day
		(d == 5 && m == time.May) ||
		// Memorial Day
		(d == 6 && m == time.June) ||
		// Constitution Day
		(d == 17 && m == time.July && y <= 2007) ||
		// Liberation Day
		(d == 15 && m == time.August) ||
		// National Foundation Day
		(d == 3 && m == time.October) ||
		// Hangul Proclamation Day
		(d == 9 && m == time.October && y >= 2013) ||
		(d == 25 && m == time.December)
}

func builtinCalendars() map[CalendarID]Calendar {
	return map[CalendarID]Calendar{
		Null:         {id: Null, name: "Null"},
		WeekendsOnly: {id: WeekendsOnly, name: "Weekends only", weekend: saturdaySunday},
		TARGET:       {id: TARGET, name: "TARGET", weekend: saturdaySunday, rule: targetHoliday},
		USD:          {id: USD, name: "US settlement", weekend: saturdaySunday, rule: usSettlementHoliday},
		GBP:          {id: GBP, name: "UK settlement", weekend: saturdaySunday, rule: ukSettlementHoliday},
		JPN:          {id: JPN, name: "Japan", weekend: saturdaySunday, rule: japanHoliday},
		KRW:          {id: KRW, name: "South-Korea settlement", weekend: saturdaySunday, rule: koreaFixedHoliday},
		BRL:          {id: BRL, name: "Brazil settlement", weekend: saturdaySunday, rule: brazilSettlementHoliday},
	}
}
