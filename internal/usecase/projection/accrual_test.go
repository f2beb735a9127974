package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func monthlyPlan(amount int64, start time.Time, end *time.Time) *domain.RecurringPlan {
	return &domain.RecurringPlan{
		TargetAccountType: domain.AccountTypeGeneral,
		Frequency:         domain.FrequencyMonthly,
		AmountJPY:         decimal.NewFromInt(amount),
		StartDate:         start,
		EndDate:           end,
	}
}

func TestYearWindow(t *testing.T) {
	today := date(2025, 6, 15)

	// Year 0 starts today, never Jan 1
	yw0 := yearWindow(today, 0)
	assert.Equal(t, date(2025, 6, 15), yw0.start)
	assert.Equal(t, date(2025, 12, 31), yw0.end)

	// Later years cover the whole calendar year
	yw2 := yearWindow(today, 2)
	assert.Equal(t, date(2027, 1, 1), yw2.start)
	assert.Equal(t, date(2027, 12, 31), yw2.end)
}

func TestOverlap(t *testing.T) {
	a := window{start: date(2025, 1, 1), end: date(2025, 6, 30)}
	b := window{start: date(2025, 4, 1), end: date(2025, 12, 31)}

	w, ok := overlap(a, b)
	assert.True(t, ok)
	assert.Equal(t, date(2025, 4, 1), w.start)
	assert.Equal(t, date(2025, 6, 30), w.end)

	// Disjoint windows
	c := window{start: date(2026, 1, 1), end: date(2026, 12, 31)}
	_, ok = overlap(a, c)
	assert.False(t, ok)

	// Touching at a single day still overlaps
	d := window{start: date(2025, 6, 30), end: date(2025, 7, 31)}
	w, ok = overlap(a, d)
	assert.True(t, ok)
	assert.Equal(t, w.start, w.end)
}

func TestMonthsInclusive(t *testing.T) {
	assert.Equal(t, 12, monthsInclusive(date(2025, 1, 1), date(2025, 12, 31)))
	assert.Equal(t, 1, monthsInclusive(date(2025, 6, 30), date(2025, 6, 1)))
	// Partial months count whole: Jun 15 through Aug 2 touches Jun, Jul, Aug
	assert.Equal(t, 3, monthsInclusive(date(2025, 6, 15), date(2025, 8, 2)))
	assert.Equal(t, 0, monthsInclusive(date(2025, 7, 1), date(2025, 6, 30)))
}

func TestYearContribution_MonthlyFullYear(t *testing.T) {
	plan := monthlyPlan(50_000, date(2024, 1, 1), nil)
	yw := yearWindow(date(2025, 6, 15), 1) // full 2026

	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(600_000).Equal(got))
}

func TestYearContribution_MonthlyPartialYearZero(t *testing.T) {
	// Year 0 from mid-June: Jun..Dec = 7 months
	plan := monthlyPlan(50_000, date(2024, 1, 1), nil)
	yw := yearWindow(date(2025, 6, 15), 0)

	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(350_000).Equal(got))
}

func TestYearContribution_PlanStartsMidYear(t *testing.T) {
	plan := monthlyPlan(50_000, date(2026, 10, 1), nil)
	yw := yearWindow(date(2025, 6, 15), 1) // full 2026

	// Oct, Nov, Dec
	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(150_000).Equal(got))
}

func TestYearContribution_PlanEndedBeforeWindow(t *testing.T) {
	plan := monthlyPlan(50_000, date(2020, 1, 1), datePtr(2024, 12, 31))
	yw := yearWindow(date(2025, 6, 15), 0)

	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, got.IsZero())
}

func TestYearContribution_PlanNotYetStarted(t *testing.T) {
	plan := monthlyPlan(50_000, date(2030, 1, 1), nil)
	yw := yearWindow(date(2025, 6, 15), 0)

	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, got.IsZero())
}

func TestYearContribution_EndDateClampsLaterYears(t *testing.T) {
	// Plan runs through June of the second projected year
	plan := monthlyPlan(50_000, date(2025, 1, 1), datePtr(2026, 6, 30))
	today := date(2025, 1, 1)

	y1 := yearContribution(plan, yearWindow(today, 0), calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(600_000).Equal(y1))

	y2 := yearContribution(plan, yearWindow(today, 1), calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(300_000).Equal(y2))

	y3 := yearContribution(plan, yearWindow(today, 2), calendar.NoHolidays())
	assert.True(t, y3.IsZero())
}

func TestYearContribution_Daily(t *testing.T) {
	plan := &domain.RecurringPlan{
		TargetAccountType: domain.AccountTypeGeneral,
		Frequency:         domain.FrequencyDaily,
		AmountJPY:         decimal.NewFromInt(1_000),
		StartDate:         date(2025, 6, 2), // Monday
		EndDate:           datePtr(2025, 6, 8),
	}
	yw := yearWindow(date(2025, 1, 1), 0)

	// 5 business days in the week
	got := yearContribution(plan, yw, calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(5_000).Equal(got))
}

func TestYearContribution_DailyHonorsHolidays(t *testing.T) {
	plan := &domain.RecurringPlan{
		TargetAccountType: domain.AccountTypeGeneral,
		Frequency:         domain.FrequencyDaily,
		AmountJPY:         decimal.NewFromInt(1_000),
		StartDate:         date(2025, 6, 2),
		EndDate:           datePtr(2025, 6, 8),
	}
	cal := calendar.NewHolidaySet([]time.Time{date(2025, 6, 4)})
	yw := yearWindow(date(2025, 1, 1), 0)

	got := yearContribution(plan, yw, cal)
	assert.True(t, decimal.NewFromInt(4_000).Equal(got))
}

func TestYearContribution_BonusMonth(t *testing.T) {
	plan := &domain.RecurringPlan{
		TargetAccountType: domain.AccountTypeGeneral,
		Frequency:         domain.FrequencyBonusMonth,
		AmountJPY:         decimal.NewFromInt(200_000),
		StartDate:         date(2024, 1, 1),
		BonusMonths:       []int{6, 12},
	}

	// Full year touches both bonus months
	full := yearContribution(plan, yearWindow(date(2025, 1, 1), 1), calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(400_000).Equal(full))

	// Year 0 starting in July only reaches December
	partial := yearContribution(plan, yearWindow(date(2025, 7, 10), 0), calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(200_000).Equal(partial))
}

func TestYearContributions_SumsAcrossPlans(t *testing.T) {
	plans := []*domain.RecurringPlan{
		monthlyPlan(50_000, date(2024, 1, 1), nil),
		monthlyPlan(30_000, date(2024, 1, 1), nil),
	}
	yw := yearWindow(date(2025, 1, 1), 1)

	got := yearContributions(plans, yw, calendar.NoHolidays())
	assert.True(t, decimal.NewFromInt(960_000).Equal(got))
}
