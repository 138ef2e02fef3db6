package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/solver"
)

type forwardYieldInput struct {
	TaskID           string         `json:"task_id,omitempty"`
	SettlementDate   string         `json:"settlement_date"`
	FuturesPrice     float64        `json:"futures_price"`
	ConversionFactor float64        `json:"conversion_factor"`
	CouponRate       float64        `json:"coupon_rate"`
	DayCount         string         `json:"day_count"`
	CouponFrequency  int            `json:"coupon_frequency"`
	Cashflows        []cashflowJSON `json:"cashflows"`
}

// centsPerUnit scales DB cash flow amounts: 10000 per 1.00 of a 100 face.
const centsPerUnit = 10000.0

type cashflowJSON struct {
	Date      string `json:"date"`
	Coupon    int64  `json:"coupon"`
	Principal int64  `json:"principal"`
}

type forwardYieldOutput struct {
	TaskID          string  `json:"task_id,omitempty"`
	SettlementDate  string  `json:"settlement_date"`
	FuturesPrice    float64 `json:"futures_price"`
	InvoicePrice    float64 `json:"invoice_price"`
	AccruedInterest float64 `json:"accrued_interest"`
	ForwardYield    float64 `json:"forward_yield"`
	Iterations      int     `json:"iterations"`
	Outcome         string  `json:"outcome,omitempty"`
	Error           string  `json:"error,omitempty"`
}

func runForwardYield(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCommand("fwdyield", stderr, forwardYieldUsage)
	return execute(c, args, stdin, stdout, stderr, processForwardYield,
		func(in forwardYieldInput, err error) forwardYieldOutput {
			out := forwardYieldOutput{TaskID: in.TaskID, Error: err.Error()}
			if o, ok := solver.OutcomeOf(err); ok {
				out.Outcome = o.String()
			}
			return out
		})
}

func forwardYieldUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fincore fwdyield -input <path>")
	fmt.Fprintln(w, "Compute CTD forward yield from invoice price.")
}

func processForwardYield(e *env, in forwardYieldInput) (forwardYieldOutput, error) {
	settlement, err := parseDate("settlement_date", in.SettlementDate)
	if err != nil {
		return forwardYieldOutput{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(in.DayCount), "ACT/ACT") {
		return forwardYieldOutput{}, fmt.Errorf("unsupported day_count %q (only ACT/ACT)", in.DayCount)
	}

	minor := make([]bond.CashflowMinor, 0, len(in.Cashflows))
	for _, cf := range in.Cashflows {
		d, err := parseDate("cashflow date", cf.Date)
		if err != nil {
			return forwardYieldOutput{}, err
		}
		minor = append(minor, bond.CashflowMinor{Date: d, Coupon: cf.Coupon, Principal: cf.Principal})
	}

	res, err := bond.ComputeForwardYield(bond.ForwardYieldInput{
		SettlementDate:   settlement,
		FuturesPrice:     in.FuturesPrice,
		ConversionFactor: in.ConversionFactor,
		CouponRate:       in.CouponRate,
		CouponFrequency:  in.CouponFrequency,
		Cashflows:        bond.ToCashflows(minor, centsPerUnit),
	}, e.solver)
	if err != nil {
		return forwardYieldOutput{}, err
	}

	return forwardYieldOutput{
		TaskID:          in.TaskID,
		SettlementDate:  in.SettlementDate,
		FuturesPrice:    in.FuturesPrice,
		InvoicePrice:    res.InvoicePrice,
		AccruedInterest: res.AccruedInterest,
		ForwardYield:    res.ForwardYield,
		Iterations:      res.Iterations,
	}, nil
}
