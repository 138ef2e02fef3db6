package bond

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/errs"
	"github.com/meenmo/fincore/schedule"
	"github.com/meenmo/fincore/solver"
)

// Default yield search range for FixedRateBond.Yield.
const (
	MinYield = -0.5
	MaxYield = 1.0
)

// FixedRateBond pays a fixed annual Coupon rate on Face over Schedule and
// repays Face at the last schedule date. Prices are per 100 of face.
type FixedRateBond struct {
	Schedule   *schedule.Schedule
	Coupon     float64
	Face       float64
	DayCounter daycount.DayCounter
	// Frequency is the yield compounding frequency.
	Frequency calendar.Frequency
}

// NewFixedRateBond compounds yields at the schedule's coupon frequency.
func NewFixedRateBond(s *schedule.Schedule, coupon, face float64, dc daycount.DayCounter) (*FixedRateBond, error) {
	const op = "bond.NewFixedRateBond"
	if s == nil {
		return nil, errs.Configuration(op, "schedule required")
	}
	if face <= 0 {
		return nil, errs.Configuration(op, "face amount (%g) must be positive", face)
	}
	freq := s.Tenor().Frequency()
	if !s.HasTenor() || freq < calendar.Annual || freq > calendar.Monthly {
		return nil, errs.Configuration(op, "unsupported coupon tenor %s", s.Tenor())
	}
	return &FixedRateBond{Schedule: s, Coupon: coupon, Face: face, DayCounter: dc, Frequency: freq}, nil
}

func (b *FixedRateBond) accrual(start, end time.Time) (float64, error) {
	return b.DayCounter.YearFraction(start, end, daycount.WithReferencePeriod(start, end))
}

// Cashflows lists the coupons in schedule order; the last one also carries
// the redemption.
func (b *FixedRateBond) Cashflows() ([]Cashflow, error) {
	periods := b.Schedule.Periods()
	cfs := make([]Cashflow, 0, len(periods))
	for _, p := range periods {
		yf, err := b.accrual(p.Start, p.End)
		if err != nil {
			return nil, fmt.Errorf("bond.Cashflows: %w", err)
		}
		cfs = append(cfs, Cashflow{
			Date:         p.End,
			Coupon:       b.Face * b.Coupon * yf,
			AccrualStart: p.Start,
			AccrualEnd:   p.End,
		})
	}
	cfs[len(cfs)-1].Principal = b.Face
	return cfs, nil
}

// AccruedAmount is the coupon accrued from the start of the period
// containing settle, per 100 of face.
func (b *FixedRateBond) AccruedAmount(settle time.Time) (float64, error) {
	for _, p := range b.Schedule.Periods() {
		if settle.Before(p.Start) || !settle.Before(p.End) {
			continue
		}
		ref := daycount.WithReferencePeriod(p.Start, p.End)
		yf, err := b.DayCounter.YearFraction(p.Start, settle, ref)
		if err != nil {
			return 0, fmt.Errorf("bond.AccruedAmount: %w", err)
		}
		return 100 * b.Coupon * yf, nil
	}
	return 0, nil
}

// DirtyPrice discounts the flows after settle at the compounded yield y,
// one coupon period at a time.
func (b *FixedRateBond) DirtyPrice(y float64, settle time.Time) (float64, error) {
	price, _, err := b.priceAndDerivative(y, settle)
	return price, err
}

// CleanPrice is DirtyPrice minus AccruedAmount.
func (b *FixedRateBond) CleanPrice(y float64, settle time.Time) (float64, error) {
	dirty, err := b.DirtyPrice(y, settle)
	if err != nil {
		return 0, err
	}
	accrued, err := b.AccruedAmount(settle)
	if err != nil {
		return 0, err
	}
	return dirty - accrued, nil
}

func (b *FixedRateBond) priceAndDerivative(y float64, settle time.Time) (float64, float64, error) {
	f := float64(b.Frequency)
	base := 1 + y/f
	if base <= 0 {
		return 0, 0, fmt.Errorf("bond.DirtyPrice: yield %g below -%g is undefined", y, f)
	}
	cfs, err := b.Cashflows()
	if err != nil {
		return 0, 0, err
	}

	var price, deriv, t float64
	last := settle
	for _, cf := range cfs {
		if !cf.Date.After(settle) {
			continue
		}
		ref := daycount.WithReferencePeriod(cf.AccrualStart, cf.AccrualEnd)
		dt, err := b.DayCounter.YearFraction(last, cf.Date, ref)
		if err != nil {
			return 0, 0, fmt.Errorf("bond.DirtyPrice: %w", err)
		}
		t += dt
		disc := math.Pow(base, -f*t)
		price += cf.Amount() * disc
		deriv += -t * cf.Amount() * disc / base
		last = cf.Date
	}
	scale := 100 / b.Face
	return price * scale, deriv * scale, nil
}

// yieldObjective is cleanPrice(y) - target.
type yieldObjective struct {
	b       *FixedRateBond
	settle  time.Time
	target  float64
	accrued float64
}

func (o yieldObjective) Evaluate(y float64) (float64, error) {
	dirty, _, err := o.b.priceAndDerivative(y, o.settle)
	if err != nil {
		return 0, err
	}
	return dirty - o.accrued - o.target, nil
}

func (o yieldObjective) Derivative(y float64) (float64, error) {
	_, d, err := o.b.priceAndDerivative(y, o.settle)
	return d, err
}

// Yield inverts CleanPrice. The search runs over [MinYield, MaxYield] unless
// opts override the bounds; a price outside the attainable range yields
// solver.ErrNotTradable.
func (b *FixedRateBond) Yield(clean float64, settle time.Time, sv solver.Solver, opts ...solver.Option) (float64, error) {
	accrued, err := b.AccruedAmount(settle)
	if err != nil {
		return 0, err
	}
	obj := yieldObjective{b: b, settle: settle, target: clean, accrued: accrued}
	opts = append([]solver.Option{solver.WithBounds(MinYield, MaxYield)}, opts...)
	res, err := sv.Solve(obj, b.Coupon, opts...)
	if err != nil {
		return 0, fmt.Errorf("bond.Yield: %w", err)
	}
	return res.Root, nil
}

// Quote is a price snapshot rounded for display.
type Quote struct {
	Yield   decimal.Decimal
	Clean   decimal.Decimal
	Dirty   decimal.Decimal
	Accrued decimal.Decimal
}

// Quote prices the bond at y and rounds each figure to places decimals.
func (b *FixedRateBond) Quote(y float64, settle time.Time, places int32) (Quote, error) {
	dirty, err := b.DirtyPrice(y, settle)
	if err != nil {
		return Quote{}, err
	}
	accrued, err := b.AccruedAmount(settle)
	if err != nil {
		return Quote{}, err
	}
	d := decimal.NewFromFloat(dirty)
	a := decimal.NewFromFloat(accrued)
	return Quote{
		Yield:   decimal.NewFromFloat(y * 100).Round(places),
		Clean:   d.Sub(a).Round(places),
		Dirty:   d.Round(places),
		Accrued: a.Round(places),
	}, nil
}
