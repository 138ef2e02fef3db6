package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meenmo/fincore/bond"
	"github.com/meenmo/fincore/solver"
)

const defaultPlaces = 6

// bondInput prices a fixed-rate bond, or solves its yield from a clean price.
//
// Conventions:
// - coupon_rate, yield and the returned yield are in percent (2.5 means 2.5%)
// - clean_price is per 100 of face
// - exactly one of clean_price and yield must be set
// - day_count defaults to Actual/Actual (ISMA) on the bond schedule
type bondInput struct {
	TaskID         string        `json:"task_id,omitempty"`
	Schedule       scheduleInput `json:"schedule"`
	CouponRate     float64       `json:"coupon_rate"`
	Face           float64       `json:"face"`
	DayCount       string        `json:"day_count"`
	SettlementDate string        `json:"settlement_date"`
	CleanPrice     *float64      `json:"clean_price,omitempty"`
	Yield          *float64      `json:"yield,omitempty"`
	Places         *int32        `json:"places,omitempty"`
}

type bondOutput struct {
	TaskID         string           `json:"task_id,omitempty"`
	SettlementDate string           `json:"settlement_date,omitempty"`
	Yield          *decimal.Decimal `json:"yield,omitempty"`
	CleanPrice     *decimal.Decimal `json:"clean_price,omitempty"`
	DirtyPrice     *decimal.Decimal `json:"dirty_price,omitempty"`
	Accrued        *decimal.Decimal `json:"accrued_interest,omitempty"`
	Outcome        string           `json:"outcome,omitempty"`
	Error          string           `json:"error,omitempty"`
}

func runYield(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCommand("yield", stderr, yieldUsage)
	return execute(c, args, stdin, stdout, stderr, processBond,
		func(in bondInput, err error) bondOutput {
			out := bondOutput{TaskID: in.TaskID, Error: err.Error()}
			if o, ok := solver.OutcomeOf(err); ok {
				out.Outcome = o.String()
			}
			return out
		})
}

func yieldUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fincore yield < input.json")
	fmt.Fprintln(w, "  fincore yield -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Price a fixed-rate bond from a yield, or solve the yield from a clean price.")
}

func processBond(e *env, in bondInput) (bondOutput, error) {
	if (in.CleanPrice == nil) == (in.Yield == nil) {
		return bondOutput{}, fmt.Errorf("exactly one of clean_price and yield is required")
	}
	settle, err := parseDate("settlement_date", in.SettlementDate)
	if err != nil {
		return bondOutput{}, err
	}

	s, err := buildSchedule(e, in.Schedule)
	if err != nil {
		return bondOutput{}, fmt.Errorf("schedule: %w", err)
	}
	dcName := in.DayCount
	if strings.TrimSpace(dcName) == "" {
		dcName = "ACT/ACT ISMA"
	}
	dc, err := buildDayCounter(e, dcName, in.Schedule.Calendar, s)
	if err != nil {
		return bondOutput{}, err
	}
	face := in.Face
	if face == 0 {
		face = 100
	}
	b, err := bond.NewFixedRateBond(s, in.CouponRate/100, face, dc)
	if err != nil {
		return bondOutput{}, err
	}

	var y float64
	if in.Yield != nil {
		y = *in.Yield / 100
	} else {
		y, err = b.Yield(*in.CleanPrice, settle, e.solver)
		if err != nil {
			return bondOutput{}, err
		}
	}

	places := int32(defaultPlaces)
	if in.Places != nil {
		places = *in.Places
	}
	q, err := b.Quote(y, settle, places)
	if err != nil {
		return bondOutput{}, err
	}
	return bondOutput{
		TaskID:         in.TaskID,
		SettlementDate: in.SettlementDate,
		Yield:          &q.Yield,
		CleanPrice:     &q.Clean,
		DirtyPrice:     &q.Dirty,
		Accrued:        &q.Accrued,
	}, nil
}
