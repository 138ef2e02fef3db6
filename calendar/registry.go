package calendar

import (
	"fmt"
	"sort"

	"github.com/meenmo/fincore/errs"
)

var (
	builtin         map[CalendarID]Calendar
	builtinVersions = map[CalendarID]string{}
)

func init() {
	builtin = builtinCalendars()
	tables, err := loadEmbeddedTables()
	if err != nil {
		panic(fmt.Sprintf("calendar: embedded holiday tables: %v", err))
	}
	for _, t := range tables {
		builtin[t.Calendar] = builtin[t.Calendar].WithHolidays(t.holidayDates(), t.businessDates())
		if t.Version != "" {
			builtinVersions[t.Calendar] = t.Version
		}
	}
}

// Builtin returns one of the calendars compiled into the package.
func Builtin(id CalendarID) (Calendar, bool) {
	c, ok := builtin[id]
	return c, ok
}

// MustBuiltin is Builtin for ids known at compile time.
func MustBuiltin(id CalendarID) Calendar {
	c, ok := builtin[id]
	if !ok {
		panic(fmt.Sprintf("calendar: unknown builtin calendar %q", id))
	}
	return c
}

// Registry is an immutable id -> Calendar map, built once at process start
// and handed to the schedule and day count constructors.
type Registry struct {
	calendars map[CalendarID]Calendar
	versions  map[CalendarID]string
}

// NewRegistry starts from the builtin calendars and applies extra holiday
// tables in order. A table for an unknown id registers a new weekend-only
// calendar under that id.
func NewRegistry(tables ...HolidayTable) *Registry {
	r := &Registry{
		calendars: make(map[CalendarID]Calendar, len(builtin)+len(tables)),
		versions:  make(map[CalendarID]string),
	}
	for id, c := range builtin {
		r.calendars[id] = c
	}
	for id, v := range builtinVersions {
		r.versions[id] = v
	}
	for _, t := range tables {
		base, ok := r.calendars[t.Calendar]
		if !ok {
			base = Calendar{id: t.Calendar, name: string(t.Calendar), weekend: saturdaySunday}
		}
		r.calendars[t.Calendar] = base.WithHolidays(t.holidayDates(), t.businessDates())
		if t.Version != "" {
			r.versions[t.Calendar] = t.Version
		}
	}
	return r
}

// Get looks up a calendar by market identifier.
func (r *Registry) Get(id CalendarID) (Calendar, error) {
	c, ok := r.calendars[id]
	if !ok {
		return Calendar{}, errs.Configuration("Registry.Get", "unknown calendar %q", id)
	}
	return c, nil
}

// Version returns the version of the last holiday table applied to id, if any.
func (r *Registry) Version(id CalendarID) string {
	return r.versions[id]
}

// IDs lists the registered market identifiers in sorted order.
func (r *Registry) IDs() []CalendarID {
	ids := make([]CalendarID, 0, len(r.calendars))
	for id := range r.calendars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
