// Package calendar provides the business-day calendar used by contribution
// accrual. The holiday source is an injected capability: callers that have no
// holiday data use NoHolidays and every weekday counts as a business day.
package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Calendar reports which dates are recognized public holidays
type Calendar interface {
	// IsHoliday reports whether the given date is a holiday.
	// Only the year, month and day of the argument are significant.
	IsHoliday(t time.Time) bool
}

// noHolidays treats every weekday as a business day
type noHolidays struct{}

func (noHolidays) IsHoliday(time.Time) bool { return false }

// NoHolidays returns the default calendar with no known holidays
func NoHolidays() Calendar {
	return noHolidays{}
}

// HolidaySet is a Calendar backed by an explicit set of dates
type HolidaySet struct {
	days map[string]struct{}
}

const dayLayout = "2006-01-02"

// NewHolidaySet builds a HolidaySet from a list of dates
func NewHolidaySet(dates []time.Time) *HolidaySet {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		days[d.Format(dayLayout)] = struct{}{}
	}
	return &HolidaySet{days: days}
}

// IsHoliday reports whether the given date is in the set
func (s *HolidaySet) IsHoliday(t time.Time) bool {
	_, ok := s.days[t.Format(dayLayout)]
	return ok
}

// Len returns the number of dates in the set
func (s *HolidaySet) Len() int {
	return len(s.days)
}

// holidayFile is the YAML layout of a holiday calendar file
type holidayFile struct {
	Holidays []string `yaml:"holidays"`
}

// LoadFile reads a YAML holiday calendar file with a top-level "holidays" list
// of ISO dates (YYYY-MM-DD)
func LoadFile(path string) (*HolidaySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file: %w", err)
	}

	dates := make([]time.Time, 0, len(file.Holidays))
	for _, raw := range file.Holidays {
		d, err := time.Parse(dayLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}

	return NewHolidaySet(dates), nil
}

// BusinessDays counts Monday-Friday days in [start, end] inclusive that are
// not holidays in the given calendar. Returns 0 when end is before start.
func BusinessDays(start, end time.Time, cal Calendar) int {
	if end.Before(start) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if cal.IsHoliday(d) {
			continue
		}
		count++
	}
	return count
}
