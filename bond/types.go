package bond

import "time"

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in currency units (e.g., EUR), not price-per-100.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64

	// AccrualStart and AccrualEnd are the coupon period; zero for pure
	// principal flows.
	AccrualStart time.Time
	AccrualEnd   time.Time
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// CashflowMinor mirrors cashflow feeds that store coupon and principal as
// integer minor units (cents, or ten-thousandths of a 100 face).
type CashflowMinor struct {
	Date      time.Time
	Coupon    int64
	Principal int64
}

// ToCashflow converts with unitsPerOne minor units per currency unit.
func (c CashflowMinor) ToCashflow(unitsPerOne float64) Cashflow {
	return Cashflow{
		Date:      c.Date,
		Coupon:    float64(c.Coupon) / unitsPerOne,
		Principal: float64(c.Principal) / unitsPerOne,
	}
}

func ToCashflows(in []CashflowMinor, unitsPerOne float64) []Cashflow {
	out := make([]Cashflow, 0, len(in))
	for _, cf := range in {
		out = append(out, cf.ToCashflow(unitsPerOne))
	}
	return out
}
