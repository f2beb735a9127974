package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays_FullWeek(t *testing.T) {
	// 2025-06-02 is a Monday; Mon-Sun spans 5 business days
	start := date(2025, 6, 2)
	end := date(2025, 6, 8)

	assert.Equal(t, 5, BusinessDays(start, end, NoHolidays()))
}

func TestBusinessDays_WeekendOnly(t *testing.T) {
	// 2025-06-07 is a Saturday
	assert.Equal(t, 0, BusinessDays(date(2025, 6, 7), date(2025, 6, 8), NoHolidays()))
}

func TestBusinessDays_EndBeforeStart(t *testing.T) {
	assert.Equal(t, 0, BusinessDays(date(2025, 6, 8), date(2025, 6, 2), NoHolidays()))
}

func TestBusinessDays_SingleDay(t *testing.T) {
	// Inclusive on both ends
	assert.Equal(t, 1, BusinessDays(date(2025, 6, 2), date(2025, 6, 2), NoHolidays()))
}

func TestBusinessDays_HolidayExcluded(t *testing.T) {
	cal := NewHolidaySet([]time.Time{date(2025, 6, 4)}) // Wednesday

	assert.Equal(t, 4, BusinessDays(date(2025, 6, 2), date(2025, 6, 8), cal))
}

func TestBusinessDays_WeekendHolidayNotDoubleCounted(t *testing.T) {
	// A holiday landing on a Saturday must not reduce the count further
	cal := NewHolidaySet([]time.Time{date(2025, 6, 7)})

	assert.Equal(t, 5, BusinessDays(date(2025, 6, 2), date(2025, 6, 8), cal))
}

func TestHolidaySet_IsHoliday(t *testing.T) {
	cal := NewHolidaySet([]time.Time{date(2025, 1, 1)})

	assert.True(t, cal.IsHoliday(date(2025, 1, 1)))
	// Clock time on the probe date is irrelevant
	assert.True(t, cal.IsHoliday(time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)))
	assert.False(t, cal.IsHoliday(date(2025, 1, 2)))
	assert.Equal(t, 1, cal.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	content := "holidays:\n  - 2025-01-01\n  - 2025-05-05\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cal, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cal.Len())
	assert.True(t, cal.IsHoliday(date(2025, 1, 1)))
	assert.True(t, cal.IsHoliday(date(2025, 5, 5)))
	assert.False(t, cal.IsHoliday(date(2025, 12, 25)))
}

func TestLoadFile_InvalidDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - not-a-date\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
