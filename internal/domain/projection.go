package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NisaUsage is the full quota snapshot recorded for one projected year:
// annual usage per sub-frame and combined, lifetime usage per sub-frame and
// combined, and the amount that overflowed into the general account because
// ceilings were exhausted.
type NisaUsage struct {
	Tsumitate         FrameUsage      `json:"tsumitate"`
	Growth            FrameUsage      `json:"growth"`
	Total             FrameUsage      `json:"total"`
	LifetimeTsumitate FrameUsage      `json:"lifetime_tsumitate"`
	LifetimeGrowth    FrameUsage      `json:"lifetime_growth"`
	LifetimeTotal     FrameUsage      `json:"lifetime_total"`
	OverflowToGeneral decimal.Decimal `json:"overflow_to_general"`
}

// YearRecord is the breakdown entry for a single projected year.
// Year is 1-indexed in output.
type YearRecord struct {
	Year                int             `json:"year"`
	StartingBalance     decimal.Decimal `json:"starting_balance"`
	Contributions       decimal.Decimal `json:"contributions"`
	BalanceBeforeGrowth decimal.Decimal `json:"balance_before_growth"`
	GrowthRate          decimal.Decimal `json:"growth_rate"`
	EndingBalance       decimal.Decimal `json:"ending_balance"`
	InterestEarned      decimal.Decimal `json:"interest_earned"`
	NisaUsage           NisaUsage       `json:"nisa_usage"`
}

// CompositionEntry is one slice of a composition map: the absolute amount for
// a key (region or asset class) and its percentage of the map's grand total.
type CompositionEntry struct {
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Projection represents a calculated portfolio projection in the domain layer.
// Immutable after creation except for the ValidUntil staleness stamp.
// Composition maps and the year breakdown are strongly typed here; they become
// JSON text only at the storage boundary.
type Projection struct {
	ID                      uuid.UUID
	UserID                  uuid.UUID
	ProjectionYears         int
	AnnualReturnRate        decimal.Decimal // percent, e.g. 4.00
	StartingBalanceJPY      decimal.Decimal
	TotalContributionsJPY   decimal.Decimal
	TotalInterestGainsJPY   decimal.Decimal
	ProjectedTotalValueJPY  decimal.Decimal
	CompositionByRegion     map[string]CompositionEntry
	CompositionByAssetClass map[string]CompositionEntry
	YearBreakdown           []YearRecord
	CreatedAt               time.Time
	ValidUntil              *time.Time
}

// MarkStaleAfter sets the staleness stamp to now + the given duration
func (p *Projection) MarkStaleAfter(d time.Duration, now time.Time) {
	t := now.Add(d)
	p.ValidUntil = &t
}
