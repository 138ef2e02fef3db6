package main

import (
	"fmt"
	"io"

	"github.com/meenmo/fincore/utils"
)

type calendarInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type holidayListInput struct {
	Calendar        string `json:"calendar"`
	From            string `json:"from"`
	To              string `json:"to"`
	IncludeWeekends bool   `json:"include_weekends"`
}

type holidayListOutput struct {
	Calendar string   `json:"calendar,omitempty"`
	Holidays []string `json:"holidays,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// runCalendars lists the registry without input, or the holidays of one
// calendar when -holidays is set.
func runCalendars(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := newCommand("calendars", stderr, calendarsUsage)
	holidays := c.fs.Bool("holidays", false, "Read a holiday list request from the input")
	if err := c.fs.Parse(args); err != nil {
		return 2
	}
	if *c.help {
		calendarsUsage(stderr)
		return 0
	}
	if *holidays {
		return execute(c, c.fs.Args(), stdin, stdout, stderr, processHolidayList,
			func(in holidayListInput, err error) holidayListOutput {
				return holidayListOutput{Calendar: in.Calendar, Error: err.Error()}
			})
	}

	e, err := newEnv(*c.configPath, stderr)
	if err != nil {
		return writeError(stdout, fmt.Sprintf("config: %v", err))
	}
	defer e.Close()

	ids := e.calendars.IDs()
	out := make([]calendarInfo, 0, len(ids))
	for _, id := range ids {
		cal, err := e.calendars.Get(id)
		if err != nil {
			return writeError(stdout, err.Error())
		}
		out = append(out, calendarInfo{ID: string(id), Name: cal.Name(), Version: e.calendars.Version(id)})
	}
	writeJSON(stdout, out)
	return 0
}

func calendarsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fincore calendars")
	fmt.Fprintln(w, "  fincore calendars -holidays < input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List registered calendars, or the holidays of one calendar between two dates.")
}

func processHolidayList(e *env, in holidayListInput) (holidayListOutput, error) {
	if in.Calendar == "" {
		return holidayListOutput{}, fmt.Errorf("calendar is required")
	}
	cal, err := e.lookupCalendar(in.Calendar)
	if err != nil {
		return holidayListOutput{}, err
	}
	from, err := parseDate("from", in.From)
	if err != nil {
		return holidayListOutput{}, err
	}
	to, err := parseDate("to", in.To)
	if err != nil {
		return holidayListOutput{}, err
	}
	if to.Before(from) {
		return holidayListOutput{}, fmt.Errorf("to %s is before from %s", utils.FormatDate(to), utils.FormatDate(from))
	}
	return holidayListOutput{
		Calendar: cal.Name(),
		Holidays: formatDates(cal.HolidayList(from, to, in.IncludeWeekends)),
	}, nil
}
