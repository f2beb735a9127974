package projection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// window is an inclusive calendar date range
type window struct {
	start time.Time
	end   time.Time
}

// dateOf truncates a timestamp to midnight UTC date precision.
// All window arithmetic runs on dates, never on clock times.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// yearWindow returns the calendar window for a 0-based projection year index.
// Year 0 covers today through Dec 31 of the current year; later years cover
// the full calendar year.
func yearWindow(today time.Time, year int) window {
	if year == 0 {
		return window{
			start: today,
			end:   time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC),
		}
	}
	y := today.Year() + year
	return window{
		start: time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// overlap intersects two inclusive windows. The second return value is false
// when the windows do not intersect.
func overlap(a, b window) (window, bool) {
	start := a.start
	if b.start.After(start) {
		start = b.start
	}
	end := a.end
	if b.end.Before(end) {
		end = b.end
	}
	if end.Before(start) {
		return window{}, false
	}
	return window{start: start, end: end}, true
}

// planWindow returns the plan's active window clamped for overlap against the
// given year window. Open-ended plans are treated as ending at the year
// window's end; the accrual never looks beyond the year being evaluated.
func planWindow(plan *domain.RecurringPlan, yw window) window {
	end := yw.end
	if plan.EndDate != nil {
		end = dateOf(*plan.EndDate)
	}
	return window{start: dateOf(plan.StartDate), end: end}
}

// firstOfMonth returns the first day of the month containing t
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthsInclusive counts whole calendar months between the months containing
// start and end, inclusive. Returns 0 when end precedes start.
func monthsInclusive(start, end time.Time) int {
	s := firstOfMonth(start)
	e := firstOfMonth(end)
	if e.Before(s) {
		return 0
	}
	return (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month()) + 1
}

// yearContribution returns the amount a plan contributes within the overlap of
// its active window and the given year window. Zero when the overlap is empty.
//
// MONTHLY contributes once per calendar month touched by the overlap.
// DAILY contributes once per business day (Mon-Fri, excluding calendar
// holidays) in the overlap. BONUS_MONTH contributes once per configured month
// that falls inside the months spanned by the overlap.
func yearContribution(plan *domain.RecurringPlan, yw window, cal calendar.Calendar) decimal.Decimal {
	w, ok := overlap(planWindow(plan, yw), yw)
	if !ok {
		return decimal.Zero
	}

	switch plan.Frequency {
	case domain.FrequencyMonthly:
		months := monthsInclusive(w.start, w.end)
		return plan.AmountJPY.Mul(decimal.NewFromInt(int64(months)))

	case domain.FrequencyDaily:
		days := calendar.BusinessDays(w.start, w.end, cal)
		return plan.AmountJPY.Mul(decimal.NewFromInt(int64(days)))

	case domain.FrequencyBonusMonth:
		// Year windows never span a calendar year boundary, so the months
		// covered by the overlap form the contiguous range start..end.
		eligible := 0
		for _, m := range plan.BonusMonths {
			if m >= int(w.start.Month()) && m <= int(w.end.Month()) {
				eligible++
			}
		}
		return plan.AmountJPY.Mul(decimal.NewFromInt(int64(eligible)))
	}

	return decimal.Zero
}

// yearContributions sums yearContribution across all plans for one year window
func yearContributions(plans []*domain.RecurringPlan, yw window, cal calendar.Calendar) decimal.Decimal {
	total := decimal.Zero
	for _, plan := range plans {
		total = total.Add(yearContribution(plan, yw, cal))
	}
	return total
}
