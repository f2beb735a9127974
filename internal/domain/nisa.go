package domain

import "github.com/shopspring/decimal"

// NISA contribution ceilings for the 2024+ scheme, in JPY.
// The annual total and lifetime total are independently configured bounds,
// not sums of the per-frame ceilings. There is no lifetime ceiling specific
// to the tsumitate frame; only the lifetime total constrains it.
var (
	NisaAnnualLimitTsumitate = decimal.NewFromInt(1_200_000)
	NisaAnnualLimitGrowth    = decimal.NewFromInt(2_400_000)
	NisaAnnualLimitTotal     = decimal.NewFromInt(3_600_000)
	NisaLifetimeLimitTotal   = decimal.NewFromInt(18_000_000)
	NisaLifetimeLimitGrowth  = decimal.NewFromInt(12_000_000)
)

// FrameUsage describes consumption of a single quota ceiling
type FrameUsage struct {
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
	Limit     decimal.Decimal `json:"limit"`
}

// NisaAmounts carries raw invested totals per sub-frame, as aggregated by the
// storage layer. Used to seed projection calculations.
type NisaAmounts struct {
	Tsumitate decimal.Decimal
	Growth    decimal.Decimal
}

// Total returns the combined invested amount across both sub-frames
func (n NisaAmounts) Total() decimal.Decimal {
	return n.Tsumitate.Add(n.Growth)
}

// AnnualUsageView builds the per-frame annual usage breakdown for a set of
// invested amounts, against the annual ceilings. Remaining values are floored
// at zero.
func AnnualUsageView(amounts NisaAmounts) map[string]FrameUsage {
	total := amounts.Total()
	return map[string]FrameUsage{
		"tsumitate": {
			Used:      amounts.Tsumitate,
			Remaining: decimal.Max(NisaAnnualLimitTsumitate.Sub(amounts.Tsumitate), decimal.Zero),
			Limit:     NisaAnnualLimitTsumitate,
		},
		"growth": {
			Used:      amounts.Growth,
			Remaining: decimal.Max(NisaAnnualLimitGrowth.Sub(amounts.Growth), decimal.Zero),
			Limit:     NisaAnnualLimitGrowth,
		},
		"total": {
			Used:      total,
			Remaining: decimal.Max(NisaAnnualLimitTotal.Sub(total), decimal.Zero),
			Limit:     NisaAnnualLimitTotal,
		},
	}
}

// LifetimeUsageView builds the lifetime usage breakdown for a set of invested
// amounts, against the lifetime ceilings. The tsumitate entry reports remaining
// capacity under the lifetime total since no frame-specific ceiling exists.
func LifetimeUsageView(amounts NisaAmounts) map[string]FrameUsage {
	total := amounts.Total()
	return map[string]FrameUsage{
		"tsumitate": {
			Used:      amounts.Tsumitate,
			Remaining: decimal.Max(NisaLifetimeLimitTotal.Sub(total), decimal.Zero),
			Limit:     NisaLifetimeLimitTotal,
		},
		"growth": {
			Used:      amounts.Growth,
			Remaining: decimal.Max(NisaLifetimeLimitGrowth.Sub(amounts.Growth), decimal.Zero),
			Limit:     NisaLifetimeLimitGrowth,
		},
		"total": {
			Used:      total,
			Remaining: decimal.Max(NisaLifetimeLimitTotal.Sub(total), decimal.Zero),
			Limit:     NisaLifetimeLimitTotal,
		},
	}
}
