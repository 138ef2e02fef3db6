package calendar

import (
	"fmt"
	"strings"
)

// BusinessDayConvention maps a date falling on a holiday to a business day.
type BusinessDayConvention int

const (
	Following BusinessDayConvention = iota
	ModifiedFollowing
	Preceding
	ModifiedPreceding
	Unadjusted
	HalfMonthModifiedFollowing
	Nearest
)

func (c BusinessDayConvention) String() string {
	switch c {
	case Following:
		return "Following"
	case ModifiedFollowing:
		return "Modified Following"
	case Preceding:
		return "Preceding"
	case ModifiedPreceding:
		return "Modified Preceding"
	case Unadjusted:
		return "Unadjusted"
	case HalfMonthModifiedFollowing:
		return "Half-Month Modified Following"
	case Nearest:
		return "Nearest"
	default:
		return fmt.Sprintf("BusinessDayConvention(%d)", int(c))
	}
}

// ParseBusinessDayConvention accepts the full name or the usual abbreviation
// (F, MF, P, MP, U, HMMF, N).
func ParseBusinessDayConvention(s string) (BusinessDayConvention, error) {
	key := strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s)))
	switch key {
	case "F", "FOLLOWING":
		return Following, nil
	case "MF", "MODIFIEDFOLLOWING":
		return ModifiedFollowing, nil
	case "P", "PRECEDING":
		return Preceding, nil
	case "MP", "MODIFIEDPRECEDING":
		return ModifiedPreceding, nil
	case "U", "UNADJUSTED", "NONE":
		return Unadjusted, nil
	case "HMMF", "HALFMONTHMODIFIEDFOLLOWING":
		return HalfMonthModifiedFollowing, nil
	case "N", "NEAREST":
		return Nearest, nil
	default:
		return Unadjusted, fmt.Errorf("ParseBusinessDayConvention: unknown convention %q", s)
	}
}
