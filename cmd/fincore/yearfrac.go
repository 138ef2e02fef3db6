package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/meenmo/fincore/daycount"
	"github.com/meenmo/fincore/schedule"
)

// yearFractionInput asks for the day count and year fraction between start and end.
//
// Conventions:
// - day_count accepts full names ("Actual/Actual (ISMA)") or aliases ("ACT/360")
// - calendar only matters for Business/252 (default BRL)
// - ref_start/ref_end give the coupon period for ISMA and Canadian
// - schedule, when set, lets ISMA derive reference periods itself
// - termination is the maturity used by 30E/360 (ISDA)
type yearFractionInput struct {
	TaskID      string         `json:"task_id,omitempty"`
	DayCount    string         `json:"day_count"`
	Calendar    string         `json:"calendar"`
	Start       string         `json:"start"`
	End         string         `json:"end"`
	RefStart    string         `json:"ref_start"`
	RefEnd      string         `json:"ref_end"`
	Termination string         `json:"termination"`
	Schedule    *scheduleInput `json:"schedule,omitempty"`
}

type yearFractionOutput struct {
	TaskID       string  `json:"task_id,omitempty"`
	DayCounter   string  `json:"day_counter,omitempty"`
	Days         int     `json:"days"`
	YearFraction float64 `json:"year_fraction"`
	Error        string  `json:"error,omitempty"`
}

func runYearFraction(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCommand("yearfrac", stderr, yearFractionUsage)
	return execute(c, args, stdin, stdout, stderr, processYearFraction,
		func(in yearFractionInput, err error) yearFractionOutput {
			return yearFractionOutput{TaskID: in.TaskID, Error: err.Error()}
		})
}

func yearFractionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fincore yearfrac < input.json")
	fmt.Fprintln(w, "  fincore yearfrac -input /path/to/input.json -parallel 8")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compute day counts and year fractions; array inputs are evaluated concurrently.")
}

func processYearFraction(e *env, in yearFractionInput) (yearFractionOutput, error) {
	var sched *schedule.Schedule
	if in.Schedule != nil {
		s, err := buildSchedule(e, *in.Schedule)
		if err != nil {
			return yearFractionOutput{}, fmt.Errorf("schedule: %w", err)
		}
		sched = s
	}
	dc, err := buildDayCounter(e, in.DayCount, in.Calendar, sched)
	if err != nil {
		return yearFractionOutput{}, err
	}

	start, err := parseDate("start", in.Start)
	if err != nil {
		return yearFractionOutput{}, err
	}
	end, err := parseDate("end", in.End)
	if err != nil {
		return yearFractionOutput{}, err
	}
	refStart, err := parseOptionalDate("ref_start", in.RefStart)
	if err != nil {
		return yearFractionOutput{}, err
	}
	refEnd, err := parseOptionalDate("ref_end", in.RefEnd)
	if err != nil {
		return yearFractionOutput{}, err
	}
	termination, err := parseOptionalDate("termination", in.Termination)
	if err != nil {
		return yearFractionOutput{}, err
	}

	var opts []daycount.CallOption
	if !refStart.IsZero() || !refEnd.IsZero() {
		if refStart.IsZero() || refEnd.IsZero() {
			return yearFractionOutput{}, fmt.Errorf("ref_start and ref_end must be given together")
		}
		opts = append(opts, daycount.WithReferencePeriod(refStart, refEnd))
	}
	if !termination.IsZero() {
		opts = append(opts, daycount.WithTerminationDate(termination))
	}

	yf, err := dc.YearFraction(start, end, opts...)
	if err != nil {
		return yearFractionOutput{}, err
	}
	return yearFractionOutput{
		TaskID:       in.TaskID,
		DayCounter:   dc.Name(),
		Days:         dc.DayCount(start, end, opts...),
		YearFraction: yf,
	}, nil
}

// buildDayCounter resolves a day counter name with its optional calendar and schedule.
func buildDayCounter(e *env, name, cal string, sched *schedule.Schedule) (daycount.DayCounter, error) {
	if strings.TrimSpace(name) == "" {
		return daycount.DayCounter{}, fmt.Errorf("day_count is required")
	}
	conv, err := daycount.Parse(name)
	if err != nil {
		return daycount.DayCounter{}, err
	}

	var opts []daycount.Option
	if strings.TrimSpace(cal) != "" {
		c, err := e.lookupCalendar(cal)
		if err != nil {
			return daycount.DayCounter{}, err
		}
		opts = append(opts, daycount.WithCalendar(c))
	}
	if sched != nil {
		opts = append(opts, daycount.WithSchedule(sched))
	}
	return daycount.New(conv, opts...), nil
}
