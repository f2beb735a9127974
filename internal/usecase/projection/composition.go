package projection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// planKeyFunc extracts the composition key a plan's contributions are
// attributed to (its target region or target asset class, never the key of
// any existing holding)
type planKeyFunc func(*domain.RecurringPlan) string

func byTargetRegion(p *domain.RecurringPlan) string {
	if p.TargetAssetRegion == "" {
		return string(domain.AssetRegionOther)
	}
	return string(p.TargetAssetRegion)
}

func byTargetAssetClass(p *domain.RecurringPlan) string {
	if p.TargetAssetClass == "" {
		return string(domain.AssetClassOther)
	}
	return string(p.TargetAssetClass)
}

// projectComposition walks the projection years over per-key balances.
// Starting from the current holdings aggregate, each year adds the plans'
// contributions to their target keys and then applies the uniform growth
// factor to every key, including keys that received nothing this year.
// Returns an empty map when the projected grand total is zero.
func projectComposition(
	initial map[string]decimal.Decimal,
	plans []*domain.RecurringPlan,
	years int,
	today time.Time,
	ratePercent decimal.Decimal,
	cal calendar.Calendar,
	key planKeyFunc,
) map[string]domain.CompositionEntry {
	if len(initial) == 0 && len(plans) == 0 {
		return map[string]domain.CompositionEntry{}
	}

	amounts := make(map[string]decimal.Decimal, len(initial))
	for k, v := range initial {
		amounts[k] = v
	}

	growthFactor := decimal.NewFromInt(1).Add(ratePercent.Div(decimal.NewFromInt(100)))

	for year := 0; year < years; year++ {
		yw := yearWindow(today, year)

		contributions := make(map[string]decimal.Decimal)
		for _, plan := range plans {
			c := yearContribution(plan, yw, cal)
			if c.IsZero() {
				continue
			}
			k := key(plan)
			contributions[k] = contributions[k].Add(c)
		}

		// Keys introduced by contributions join the balance map
		for k := range contributions {
			if _, ok := amounts[k]; !ok {
				amounts[k] = decimal.Zero
			}
		}

		for k, balance := range amounts {
			amounts[k] = balance.Add(contributions[k]).Mul(growthFactor)
		}
	}

	total := decimal.Zero
	for _, v := range amounts {
		total = total.Add(v)
	}
	if total.IsZero() {
		return map[string]domain.CompositionEntry{}
	}

	hundred := decimal.NewFromInt(100)
	result := make(map[string]domain.CompositionEntry, len(amounts))
	for k, amount := range amounts {
		result[k] = domain.CompositionEntry{
			Amount:     amount,
			Percentage: amount.Div(total).Mul(hundred),
		}
	}
	return result
}
