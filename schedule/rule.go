package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/fincore/utils"
)

// Rule selects how the unadjusted dates of a schedule are generated.
type Rule int

const (
	// Backward walks from the termination date toward the effective date; any
	// stub ends up at the front.
	Backward Rule = iota
	// Forward walks from the effective date toward the termination date; any
	// stub ends up at the back.
	Forward
	// Zero produces the two-date schedule {effective, termination}.
	Zero
	// ThirdWednesday snaps interior dates to the third Wednesday of their month.
	ThirdWednesday
	// ThirdWednesdayInclusive also snaps the first and last dates.
	ThirdWednesdayInclusive
	// Twentieth rolls interior dates on the 20th of the month.
	Twentieth
	// TwentiethIMM rolls on the 20th of Mar/Jun/Sep/Dec.
	TwentiethIMM
	// OldCDS is TwentiethIMM with the pre-2009 30-day minimum first stub.
	OldCDS
	// CDS is the standard CDS schedule starting at the previous IMM 20th.
	CDS
	// CDS2015 is CDS under the 2015 ISDA amendment.
	CDS2015
	// Explicit marks schedules built from caller-supplied dates.
	Explicit
)

var ruleNames = map[Rule]string{
	Backward:                "Backward",
	Forward:                 "Forward",
	Zero:                    "Zero",
	ThirdWednesday:          "ThirdWednesday",
	ThirdWednesdayInclusive: "ThirdWednesdayInclusive",
	Twentieth:               "Twentieth",
	TwentiethIMM:            "TwentiethIMM",
	OldCDS:                  "OldCDS",
	CDS:                     "CDS",
	CDS2015:                 "CDS2015",
	Explicit:                "Explicit",
}

func (r Rule) String() string {
	if s, ok := ruleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule resolves a rule name case-insensitively; "IMM" is an alias of ThirdWednesday.
func ParseRule(s string) (Rule, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if key == "IMM" {
		return ThirdWednesday, nil
	}
	for r, name := range ruleNames {
		if strings.ToUpper(name) == key {
			return r, nil
		}
	}
	return Backward, fmt.Errorf("ParseRule: unknown date generation rule %q", s)
}

func (r Rule) isTwentieth() bool {
	switch r {
	case Twentieth, TwentiethIMM, OldCDS, CDS, CDS2015:
		return true
	default:
		return false
	}
}

func (r Rule) isIMMMonthOnly() bool {
	switch r {
	case TwentiethIMM, OldCDS, CDS, CDS2015:
		return true
	default:
		return false
	}
}

func (r Rule) allowsEndOfMonth() bool {
	switch r {
	case Backward, Forward, Zero, Explicit:
		return true
	default:
		return false
	}
}

// nextTwentieth returns the first 20th on or after t, restricted to IMM months
// for the IMM-style rules.
func nextTwentieth(t time.Time, r Rule) time.Time {
	result := utils.Date(t.Year(), t.Month(), 20)
	if result.Before(utils.Day(t)) {
		result = utils.AddMonth(result, 1)
	}
	if r.isIMMMonthOnly() {
		if m := int(result.Month()); m%3 != 0 {
			result = utils.AddMonth(result, 3-m%3)
		}
	}
	return result
}

// previousTwentieth returns the last 20th on or before t.
func previousTwentieth(t time.Time, r Rule) time.Time {
	result := utils.Date(t.Year(), t.Month(), 20)
	if result.After(utils.Day(t)) {
		result = utils.AddMonth(result, -1)
	}
	if r.isIMMMonthOnly() {
		if m := int(result.Month()); m%3 != 0 {
			result = utils.AddMonth(result, -(m % 3))
		}
	}
	return result
}

// IsIMMDate reports whether t is the third Wednesday of its month. With
// mainCycle set only March, June, September and December qualify.
func IsIMMDate(t time.Time, mainCycle bool) bool {
	if t.Weekday() != time.Wednesday || t.Day() < 15 || t.Day() > 21 {
		return false
	}
	return !mainCycle || int(t.Month())%3 == 0
}

func thirdWednesday(t time.Time) time.Time {
	return utils.NthWeekday(3, time.Wednesday, t.Month(), t.Year())
}
