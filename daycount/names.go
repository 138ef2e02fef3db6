package daycount

import (
	"fmt"
	"strings"

	"github.com/meenmo/fincore/errs"
)

var names = map[Convention]string{
	Actual360:          "Actual/360",
	Actual365Fixed:     "Actual/365 (Fixed)",
	Actual365Canadian:  "Actual/365 (Fixed) Canadian Bond",
	Actual365NoLeap:    "Actual/365 (No Leap)",
	Actual366:          "Actual/366",
	Actual36525:        "Actual/365.25",
	Actual364:          "Actual/364",
	Thirty360BondBasis: "30/360 (Bond Basis)",
	Thirty360US:        "30/360 (US)",
	Thirty360European:  "30E/360 (Eurobond Basis)",
	Thirty360Italian:   "30/360 (Italian)",
	Thirty360ISDA:      "30E/360 (ISDA)",
	Thirty360NASD:      "30/360 (NASD)",
	Business252:        "Business/252",
	ActualActualISDA:   "Actual/Actual (ISDA)",
	ActualActualISMA:   "Actual/Actual (ISMA)",
	ActualActualAFB:    "Actual/Actual (AFB)",
}

var aliases = map[string]Convention{
	"ACT/360":       Actual360,
	"A360":          Actual360,
	"ACT/365":       Actual365Fixed,
	"ACT/365F":      Actual365Fixed,
	"A365F":         Actual365Fixed,
	"ACT/365 CAD":   Actual365Canadian,
	"ACT/365NL":     Actual365NoLeap,
	"NL/365":        Actual365NoLeap,
	"ACT/366":       Actual366,
	"ACT/365.25":    Actual36525,
	"ACT/364":       Actual364,
	"30/360":        Thirty360BondBasis,
	"30/360 ISMA":   Thirty360BondBasis,
	"30/360 US":     Thirty360US,
	"30U/360":       Thirty360US,
	"30E/360":       Thirty360European,
	"30/360 IT":     Thirty360Italian,
	"30E/360 ISDA":  Thirty360ISDA,
	"30/360 GERMAN": Thirty360ISDA,
	"30/360 NASD":   Thirty360NASD,
	"BUS/252":       Business252,
	"ACT/ACT":       ActualActualISDA,
	"ACT/ACT ISDA":  ActualActualISDA,
	"ACT/ACT HIST":  ActualActualISDA,
	"ACT/ACT ICMA":  ActualActualISMA,
	"ACT/ACT ISMA":  ActualActualISMA,
	"ACT/ACT BOND":  ActualActualISMA,
	"ACT/ACT AFB":   ActualActualAFB,
	"ACT/ACT EURO":  ActualActualAFB,
}

// Parse resolves a convention from its Name or a common short alias such as
// "ACT/360" or "30E/360 ISDA". Matching ignores case.
func Parse(s string) (Convention, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(key, "BUSINESS/252") {
		return Business252, nil
	}
	for conv, name := range names {
		if strings.ToUpper(name) == key {
			return conv, nil
		}
	}
	if conv, ok := aliases[key]; ok {
		return conv, nil
	}
	return 0, errs.Configuration("daycount.Parse", "unknown day counter %q", s)
}

func (c Convention) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

func configErr(dc DayCounter, format string, args ...any) error {
	return errs.Configuration(dc.Name(), format, args...)
}
