package projection

import (
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// cumulativeUsage tracks lifetime NISA consumption across the year loop.
// Seeded from the user's stored lifetime usage before year 0 and only ever
// incremented by the allocation computed for each year.
type cumulativeUsage struct {
	tsumitate decimal.Decimal
	growth    decimal.Decimal
}

func (c *cumulativeUsage) total() decimal.Decimal {
	return c.tsumitate.Add(c.growth)
}

// allocateYear allocates the year's plan contributions into the NISA frames
// and returns the usage snapshot for the year.
//
// Plans are processed in storage order, first-come-first-served: each
// allocation immediately reduces the capacity the next plan sees. A plan's
// allocation is capped by every applicable remaining bound (per-frame annual,
// annual total, lifetime total, and for growth plans the lifetime growth
// ceiling); whatever does not fit overflows to the general account. General
// account plans never touch quota.
//
// annualSeed carries usage already recorded in storage for the current year
// and is only supplied for year 0. The cumulative accumulator is advanced by
// the incremental allocation only, so seeded amounts are never double counted.
func allocateYear(
	plans []*domain.RecurringPlan,
	yw window,
	cal calendar.Calendar,
	cum *cumulativeUsage,
	annualSeed *domain.NisaAmounts,
) domain.NisaUsage {
	tsumitateAnnual := decimal.Zero
	growthAnnual := decimal.Zero
	if annualSeed != nil {
		tsumitateAnnual = annualSeed.Tsumitate
		growthAnnual = annualSeed.Growth
	}
	baseTsumitate := tsumitateAnnual
	baseGrowth := growthAnnual
	overflow := decimal.Zero

	for _, plan := range plans {
		if !plan.TargetAccountType.IsNisa() {
			continue
		}

		contribution := yearContribution(plan, yw, cal)
		if contribution.IsZero() {
			continue
		}

		annualTotalRemaining := domain.NisaAnnualLimitTotal.Sub(tsumitateAnnual.Add(growthAnnual))
		lifetimeTotalRemaining := domain.NisaLifetimeLimitTotal.Sub(cum.total())

		var allowed decimal.Decimal
		switch plan.TargetAccountType {
		case domain.AccountTypeNisaTsumitate:
			frameRemaining := domain.NisaAnnualLimitTsumitate.Sub(tsumitateAnnual)
			allowed = decimal.Min(
				contribution,
				decimal.Max(frameRemaining, decimal.Zero),
				decimal.Max(annualTotalRemaining, decimal.Zero),
				decimal.Max(lifetimeTotalRemaining, decimal.Zero),
			)
			allowed = decimal.Max(allowed, decimal.Zero)
			tsumitateAnnual = tsumitateAnnual.Add(allowed)

		case domain.AccountTypeNisaGrowth:
			frameRemaining := domain.NisaAnnualLimitGrowth.Sub(growthAnnual)
			lifetimeGrowthRemaining := domain.NisaLifetimeLimitGrowth.Sub(cum.growth)
			allowed = decimal.Min(
				contribution,
				decimal.Max(frameRemaining, decimal.Zero),
				decimal.Max(annualTotalRemaining, decimal.Zero),
				decimal.Max(lifetimeTotalRemaining, decimal.Zero),
				decimal.Max(lifetimeGrowthRemaining, decimal.Zero),
			)
			allowed = decimal.Max(allowed, decimal.Zero)
			growthAnnual = growthAnnual.Add(allowed)
		}

		overflow = overflow.Add(decimal.Max(contribution.Sub(allowed), decimal.Zero))
	}

	// Advance lifetime usage by this year's incremental allocation only
	incrementalTsumitate := tsumitateAnnual.Sub(baseTsumitate)
	incrementalGrowth := growthAnnual.Sub(baseGrowth)
	if incrementalTsumitate.IsPositive() {
		cum.tsumitate = cum.tsumitate.Add(incrementalTsumitate)
	}
	if incrementalGrowth.IsPositive() {
		cum.growth = cum.growth.Add(incrementalGrowth)
	}

	return buildUsageSnapshot(tsumitateAnnual, growthAnnual, overflow, cum)
}

// buildUsageSnapshot assembles the per-year NISA usage record. Remaining
// values are floored at zero for presentation.
func buildUsageSnapshot(tsumitateAnnual, growthAnnual, overflow decimal.Decimal, cum *cumulativeUsage) domain.NisaUsage {
	annualTotal := tsumitateAnnual.Add(growthAnnual)
	lifetimeTotal := cum.total()

	return domain.NisaUsage{
		Tsumitate: domain.FrameUsage{
			Used:      tsumitateAnnual,
			Remaining: decimal.Max(domain.NisaAnnualLimitTsumitate.Sub(tsumitateAnnual), decimal.Zero),
			Limit:     domain.NisaAnnualLimitTsumitate,
		},
		Growth: domain.FrameUsage{
			Used:      growthAnnual,
			Remaining: decimal.Max(domain.NisaAnnualLimitGrowth.Sub(growthAnnual), decimal.Zero),
			Limit:     domain.NisaAnnualLimitGrowth,
		},
		Total: domain.FrameUsage{
			Used:      annualTotal,
			Remaining: decimal.Max(domain.NisaAnnualLimitTotal.Sub(annualTotal), decimal.Zero),
			Limit:     domain.NisaAnnualLimitTotal,
		},
		LifetimeTsumitate: domain.FrameUsage{
			Used: cum.tsumitate,
			// No tsumitate-specific lifetime ceiling exists; remaining
			// capacity is bounded by the lifetime total.
			Remaining: decimal.Max(domain.NisaLifetimeLimitTotal.Sub(cum.tsumitate), decimal.Zero),
			Limit:     domain.NisaLifetimeLimitTotal,
		},
		LifetimeGrowth: domain.FrameUsage{
			Used:      cum.growth,
			Remaining: decimal.Max(domain.NisaLifetimeLimitGrowth.Sub(cum.growth), decimal.Zero),
			Limit:     domain.NisaLifetimeLimitGrowth,
		},
		LifetimeTotal: domain.FrameUsage{
			Used:      lifetimeTotal,
			Remaining: decimal.Max(domain.NisaLifetimeLimitTotal.Sub(lifetimeTotal), decimal.Zero),
			Limit:     domain.NisaLifetimeLimitTotal,
		},
		OverflowToGeneral: overflow,
	}
}
