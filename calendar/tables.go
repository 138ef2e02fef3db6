package calendar

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meenmo/fincore/utils"
)

//go:embed data/*.yaml
var embeddedTables embed.FS

// HolidayTable is a versioned list of extra holidays (and, rarely, extra
// business days) for one market.
type HolidayTable struct {
	Calendar     CalendarID    `yaml:"calendar"`
	Version      string        `yaml:"version"`
	Holidays     []HolidayDate `yaml:"holidays"`
	BusinessDays []HolidayDate `yaml:"business_days"`
}

// HolidayDate is one dated entry of a HolidayTable.
type HolidayDate struct {
	Date time.Time
	Name string
}

// UnmarshalYAML accepts either a bare date scalar or a {date, name} mapping.
func (h *HolidayDate) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t, err := utils.ParseDate(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		h.Date = t
		return nil
	case yaml.MappingNode:
		var raw struct {
			Date yaml.Node `yaml:"date"`
			Name string    `yaml:"name"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		t, err := utils.ParseDate(raw.Date.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		h.Date, h.Name = t, raw.Name
		return nil
	default:
		return fmt.Errorf("line %d: holiday entry must be a date or a mapping", node.Line)
	}
}

func (t HolidayTable) holidayDates() []time.Time {
	out := make([]time.Time, len(t.Holidays))
	for i, h := range t.Holidays {
		out[i] = h.Date
	}
	return out
}

func (t HolidayTable) businessDates() []time.Time {
	out := make([]time.Time, len(t.BusinessDays))
	for i, h := range t.BusinessDays {
		out[i] = h.Date
	}
	return out
}

// DecodeHolidayTables reads one or more YAML documents, each a HolidayTable.
func DecodeHolidayTables(r io.Reader) ([]HolidayTable, error) {
	dec := yaml.NewDecoder(r)
	var tables []HolidayTable
	for {
		var t HolidayTable
		err := dec.Decode(&t)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("DecodeHolidayTables: %w", err)
		}
		if t.Calendar == "" {
			return nil, fmt.Errorf("DecodeHolidayTables: table %d has no calendar id", len(tables)+1)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// LoadHolidayFile reads holiday tables from a YAML file.
func LoadHolidayFile(path string) ([]HolidayTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadHolidayFile: %w", err)
	}
	tables, err := DecodeHolidayTables(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("LoadHolidayFile %s: %w", path, err)
	}
	return tables, nil
}

func loadEmbeddedTables() ([]HolidayTable, error) {
	entries, err := embeddedTables.ReadDir("data")
	if err != nil {
		return nil, err
	}
	var out []HolidayTable
	for _, e := range entries {
		raw, err := embeddedTables.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, err
		}
		tables, err := DecodeHolidayTables(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, tables...)
	}
	return out, nil
}
