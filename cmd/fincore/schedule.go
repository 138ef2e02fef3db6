package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/meenmo/fincore/calendar"
	"github.com/meenmo/fincore/schedule"
)

// scheduleInput is the JSON form of schedule.Params.
//
// Conventions:
// - dates are YYYY-MM-DD; first_date and next_to_last_date are optional
// - tenor is "6M", "1Y", ...; empty or "0D" means a single period
// - calendar is a registered id such as TARGET; empty means no holidays
// - termination_convention defaults to convention
type scheduleInput struct {
	TaskID                string `json:"task_id,omitempty"`
	EffectiveDate         string `json:"effective_date"`
	TerminationDate       string `json:"termination_date"`
	Tenor                 string `json:"tenor"`
	Calendar              string `json:"calendar"`
	Convention            string `json:"convention"`
	TerminationConvention string `json:"termination_convention"`
	Rule                  string `json:"rule"`
	EndOfMonth            bool   `json:"end_of_month"`
	FirstDate             string `json:"first_date"`
	NextToLastDate        string `json:"next_to_last_date"`
}

type periodOutput struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Regular bool   `json:"regular"`
}

type scheduleOutput struct {
	TaskID          string         `json:"task_id,omitempty"`
	Dates           []string       `json:"dates,omitempty"`
	UnadjustedDates []string       `json:"unadjusted_dates,omitempty"`
	Periods         []periodOutput `json:"periods,omitempty"`
	Error           string         `json:"error,omitempty"`
}

func runSchedule(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCommand("schedule", stderr, scheduleUsage)
	return execute(c, args, stdin, stdout, stderr, processSchedule,
		func(in scheduleInput, err error) scheduleOutput {
			return scheduleOutput{TaskID: in.TaskID, Error: err.Error()}
		})
}

func scheduleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fincore schedule < input.json")
	fmt.Fprintln(w, "  fincore schedule -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate adjusted coupon dates with their regularity flags.")
}

func processSchedule(e *env, in scheduleInput) (scheduleOutput, error) {
	s, err := buildSchedule(e, in)
	if err != nil {
		return scheduleOutput{}, err
	}

	periods := s.Periods()
	out := scheduleOutput{
		TaskID:          in.TaskID,
		Dates:           formatDates(s.Dates()),
		UnadjustedDates: formatDates(s.UnadjustedDates()),
		Periods:         make([]periodOutput, len(periods)),
	}
	for i, p := range periods {
		out.Periods[i] = periodOutput{
			Start:   p.Start.Format("2006-01-02"),
			End:     p.End.Format("2006-01-02"),
			Regular: p.Regular,
		}
	}
	return out, nil
}

// buildSchedule is shared by every command that takes a schedule.
func buildSchedule(e *env, in scheduleInput) (*schedule.Schedule, error) {
	effective, err := parseDate("effective_date", in.EffectiveDate)
	if err != nil {
		return nil, err
	}
	termination, err := parseDate("termination_date", in.TerminationDate)
	if err != nil {
		return nil, err
	}
	first, err := parseOptionalDate("first_date", in.FirstDate)
	if err != nil {
		return nil, err
	}
	nextToLast, err := parseOptionalDate("next_to_last_date", in.NextToLastDate)
	if err != nil {
		return nil, err
	}

	var tenor calendar.Period
	if strings.TrimSpace(in.Tenor) != "" {
		if tenor, err = calendar.ParsePeriod(in.Tenor); err != nil {
			return nil, err
		}
	}
	cal, err := e.lookupCalendar(in.Calendar)
	if err != nil {
		return nil, err
	}

	conv := calendar.Unadjusted
	if strings.TrimSpace(in.Convention) != "" {
		if conv, err = calendar.ParseBusinessDayConvention(in.Convention); err != nil {
			return nil, err
		}
	}
	termConv := conv
	if strings.TrimSpace(in.TerminationConvention) != "" {
		if termConv, err = calendar.ParseBusinessDayConvention(in.TerminationConvention); err != nil {
			return nil, err
		}
	}

	rule := schedule.Backward
	if strings.TrimSpace(in.Rule) != "" {
		if rule, err = schedule.ParseRule(in.Rule); err != nil {
			return nil, err
		}
	}

	return schedule.New(schedule.Params{
		EffectiveDate:         effective,
		TerminationDate:       termination,
		Tenor:                 tenor,
		Calendar:              cal,
		Convention:            conv,
		TerminationConvention: termConv,
		Rule:                  rule,
		EndOfMonth:            in.EndOfMonth,
		FirstDate:             first,
		NextToLastDate:        nextToLast,
	})
}
