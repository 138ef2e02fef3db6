package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/fincore/solver"
	"github.com/meenmo/fincore/utils"
)

// ForwardYieldInput holds the parameters needed to compute the forward yield
// of a bond delivered via a futures contract.
type ForwardYieldInput struct {
	// SettlementDate is the futures delivery date (e.g. 2026-03-10 for Eurex).
	SettlementDate time.Time
	// FuturesPrice is the clean futures price (e.g. 128.20).
	FuturesPrice float64
	// ConversionFactor maps the futures price to the CTD bond's invoice price.
	ConversionFactor float64
	// CouponRate is the annual coupon in percent (e.g. 2.5 for 2.5%).
	CouponRate float64
	// CouponFrequency is coupons per year (1 = annual, 2 = semi-annual).
	CouponFrequency int
	// Cashflows are the remaining cash flows *after* settlement, in per-100
	// terms. Callers using DB-format cents should divide by 10 000 first.
	Cashflows []Cashflow
}

// ForwardYieldResult is the output of ComputeForwardYield.
type ForwardYieldResult struct {
	// ForwardYield is the annualised yield in percent (e.g. 2.83).
	ForwardYield float64
	// InvoicePrice is futures_price × conversion_factor + accrued_interest (per-100).
	InvoicePrice float64
	// AccruedInterest is the accrued coupon at settlement (per-100).
	AccruedInterest float64
	// Iterations is the number of objective evaluations the solver used.
	Iterations int
}

const (
	yieldFloor   = -0.05
	yieldCeiling = 0.50
	yieldGuess   = 0.025
)

// ComputeForwardYield solves for the yield y such that the dirty-price
// function (ACT/ACT ICMA discounting) equals the invoice price of the
// futures delivery. Solver failures are returned unchanged.
func ComputeForwardYield(in ForwardYieldInput, sv solver.Solver) (ForwardYieldResult, error) {
	if in.SettlementDate.IsZero() {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: SettlementDate is required")
	}
	if len(in.Cashflows) == 0 {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: Cashflows are required")
	}
	if in.CouponFrequency <= 0 || 12%in.CouponFrequency != 0 {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: CouponFrequency must divide 12, got %d", in.CouponFrequency)
	}

	// Derive previous coupon date: first cashflow minus one coupon period.
	monthsPerPeriod := 12 / in.CouponFrequency
	prevCoupon := utils.AddMonth(in.Cashflows[0].Date, -monthsPerPeriod)

	// Accrued interest: coupon × (days from last coupon to settlement) / (days in period).
	daysAccrued := utils.DaysBetween(prevCoupon, in.SettlementDate)
	daysPeriod := utils.DaysBetween(prevCoupon, in.Cashflows[0].Date)
	accruedInterest := in.CouponRate * float64(daysAccrued) / float64(daysPeriod)

	// Invoice price: futures × CF + AI.
	invoicePrice := in.FuturesPrice*in.ConversionFactor + accruedInterest

	obj := forwardObjective{
		target:     invoicePrice,
		settlement: in.SettlementDate,
		prevCoupon: prevCoupon,
		cfs:        in.Cashflows,
	}
	res, err := sv.Solve(obj, yieldGuess, solver.WithBounds(yieldFloor, yieldCeiling))
	if err != nil {
		return ForwardYieldResult{}, fmt.Errorf("ComputeForwardYield: %w", err)
	}

	return ForwardYieldResult{
		ForwardYield:    res.Root * 100.0, // decimal → percent
		InvoicePrice:    invoicePrice,
		AccruedInterest: accruedInterest,
		Iterations:      res.Evaluations,
	}, nil
}

// forwardObjective is dirtyPrice(y) - target with its analytic derivative.
type forwardObjective struct {
	target     float64
	settlement time.Time
	prevCoupon time.Time
	cfs        []Cashflow
}

func (o forwardObjective) Evaluate(y float64) (float64, error) {
	price, _ := dirtyPriceAndDeriv(y, o.settlement, o.prevCoupon, o.cfs)
	return price - o.target, nil
}

func (o forwardObjective) Derivative(y float64) (float64, error) {
	_, deriv := dirtyPriceAndDeriv(y, o.settlement, o.prevCoupon, o.cfs)
	return deriv, nil
}

// dirtyPriceAndDeriv returns (price, dPrice/dy) using ACT/ACT ICMA.
//
//	t_1  = days(settlement, cf[0]) / days(prevCoupon, cf[0])   (fractional first period)
//	t_k  = t_1 + (k − 1)                                       (annual coupon steps)
//	price = Σ CF_k / (1+y)^t_k
//	dP/dy = Σ −t_k · CF_k / (1+y)^(t_k+1)
func dirtyPriceAndDeriv(y float64, settlement, prevCoupon time.Time, cfs []Cashflow) (float64, float64) {
	if len(cfs) == 0 {
		return 0, 0
	}

	t1 := float64(utils.DaysBetween(settlement, cfs[0].Date)) / float64(utils.DaysBetween(prevCoupon, cfs[0].Date))

	var price, deriv float64
	for i, cf := range cfs {
		t := t1 + float64(i)
		amt := cf.Amount()
		disc := math.Pow(1.0+y, t)
		price += amt / disc
		deriv += -t * amt / math.Pow(1.0+y, t+1)
	}

	return price, deriv
}
