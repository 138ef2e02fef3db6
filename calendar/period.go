package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/fincore/utils"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

func (u TimeUnit) String() string {
	switch u {
	case Days:
		return "D"
	case Weeks:
		return "W"
	case Months:
		return "M"
	case Years:
		return "Y"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
}

// Period is a signed length of time such as 6M or -1Y.
type Period struct {
	N    int
	Unit TimeUnit
}

// NewPeriod is shorthand for Period{N: n, Unit: unit}.
func NewPeriod(n int, unit TimeUnit) Period {
	return Period{N: n, Unit: unit}
}

func (p Period) String() string {
	return strconv.Itoa(p.N) + p.Unit.String()
}

// IsZero reports whether the period has no length.
func (p Period) IsZero() bool {
	return p.N == 0
}

// Neg returns the period with its sign flipped.
func (p Period) Neg() Period {
	return Period{N: -p.N, Unit: p.Unit}
}

// Times scales the period length by k.
func (p Period) Times(k int) Period {
	return Period{N: p.N * k, Unit: p.Unit}
}

// Months returns the length in months for Months/Years periods and false otherwise.
func (p Period) Months() (int, bool) {
	switch p.Unit {
	case Months:
		return p.N, true
	case Years:
		return 12 * p.N, true
	default:
		return 0, false
	}
}

// Frequency infers the number of periods per year.
func (p Period) Frequency() Frequency {
	n := p.N
	if n < 0 {
		n = -n
	}
	if n == 0 {
		if p.Unit == Years {
			return Once
		}
		return NoFrequency
	}
	switch p.Unit {
	case Years:
		if n == 1 {
			return Annual
		}
	case Months:
		if 12%n == 0 && n <= 12 {
			return Frequency(12 / n)
		}
	case Weeks:
		switch n {
		case 1:
			return Weekly
		case 2:
			return Biweekly
		case 4:
			return EveryFourthWeek
		}
	case Days:
		if n == 1 {
			return Daily
		}
	}
	return OtherFrequency
}

// ParsePeriod reads tenors like "1W", "3M", "10Y" or "2D".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", s)
	}
	var unit TimeUnit
	switch s[len(s)-1] {
	case 'D':
		unit = Days
	case 'W':
		unit = Weeks
	case 'M':
		unit = Months
	case 'Y':
		unit = Years
	default:
		return Period{}, fmt.Errorf("ParsePeriod: unknown unit in tenor %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: invalid length in tenor %q: %w", s, err)
	}
	return Period{N: n, Unit: unit}, nil
}

// MustParsePeriod is ParsePeriod for literals; it panics on malformed input.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// AddPeriod shifts t by p on the plain calendar. Month and year steps clamp to
// the end of the target month.
func AddPeriod(t time.Time, p Period) time.Time {
	switch p.Unit {
	case Days:
		return t.AddDate(0, 0, p.N)
	case Weeks:
		return t.AddDate(0, 0, 7*p.N)
	case Months:
		return utils.AddMonth(t, p.N)
	default:
		return utils.AddMonth(t, 12*p.N)
	}
}

// Frequency is the number of periods per year.
type Frequency int

const (
	NoFrequency      Frequency = -1
	Once             Frequency = 0
	Annual           Frequency = 1
	Semiannual       Frequency = 2
	EveryFourthMonth Frequency = 3
	Quarterly        Frequency = 4
	Bimonthly        Frequency = 6
	Monthly          Frequency = 12
	EveryFourthWeek  Frequency = 13
	Biweekly         Frequency = 26
	Weekly           Frequency = 52
	Daily            Frequency = 365
	OtherFrequency   Frequency = 999
)

func (f Frequency) String() string {
	switch f {
	case NoFrequency:
		return "No-Frequency"
	case Once:
		return "Once"
	case Annual:
		return "Annual"
	case Semiannual:
		return "Semiannual"
	case EveryFourthMonth:
		return "Every-Fourth-Month"
	case Quarterly:
		return "Quarterly"
	case Bimonthly:
		return "Bimonthly"
	case Monthly:
		return "Monthly"
	case EveryFourthWeek:
		return "Every-fourth-week"
	case Biweekly:
		return "Biweekly"
	case Weekly:
		return "Weekly"
	case Daily:
		return "Daily"
	default:
		return "Unknown frequency"
	}
}

// PeriodFromFrequency is the tenor of one regular period at frequency f.
func PeriodFromFrequency(f Frequency) (Period, error) {
	switch f {
	case Once:
		return Period{N: 0, Unit: Years}, nil
	case Annual:
		return Period{N: 1, Unit: Years}, nil
	case Semiannual, EveryFourthMonth, Quarterly, Bimonthly, Monthly:
		return Period{N: 12 / int(f), Unit: Months}, nil
	case EveryFourthWeek, Biweekly, Weekly:
		return Period{N: 52 / int(f), Unit: Weeks}, nil
	case Daily:
		return Period{N: 1, Unit: Days}, nil
	default:
		return Period{}, fmt.Errorf("PeriodFromFrequency: unsupported frequency %d", int(f))
	}
}
