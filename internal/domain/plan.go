package domain

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring plan contributes
type Frequency string

const (
	FrequencyDaily      Frequency = "DAILY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyBonusMonth Frequency = "BONUS_MONTH"
)

// RecurringPlan represents a recurring investment plan entity in the domain layer
// The plan contributes AmountJPY per occurrence into its target account frame,
// starting at StartDate and ending at EndDate (inclusive) when set.
type RecurringPlan struct {
	ID                      uuid.UUID
	UserID                  uuid.UUID
	TargetAccountType       AccountType
	TargetAssetClass        AssetClass
	TargetAssetRegion       AssetRegion
	TargetAssetIdentifier   string
	TargetAssetName         string
	Frequency               Frequency
	AmountJPY               decimal.Decimal
	StartDate               time.Time
	EndDate                 *time.Time // inclusive; nil = open-ended
	BonusMonths             []int      // calendar months 1-12, BONUS_MONTH only
	ContinueIfLimitExceeded bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Validate ensures the plan adheres to domain rules
// Returns an error if validation fails
func (p *RecurringPlan) Validate() error {
	if !p.TargetAccountType.Valid() {
		return errors.New("target account type must be NISA_TSUMITATE, NISA_GROWTH or GENERAL")
	}
	if p.AmountJPY.LessThanOrEqual(decimal.Zero) {
		return errors.New("plan amount must be positive")
	}
	if p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return errors.New("start date must be on or before end date")
	}

	switch p.Frequency {
	case FrequencyDaily, FrequencyMonthly:
		// No extra fields required
	case FrequencyBonusMonth:
		if len(p.BonusMonths) == 0 {
			return errors.New("bonus months must be provided for BONUS_MONTH frequency")
		}
		for _, m := range p.BonusMonths {
			if m < 1 || m > 12 {
				return errors.New("bonus months must contain integers between 1 and 12")
			}
		}
	default:
		return errors.New("frequency must be DAILY, MONTHLY or BONUS_MONTH")
	}

	return nil
}

// NominalAnnualContribution returns the plan's contribution over a nominal full
// year, ignoring start/end dates and holidays: 365 daily occurrences, 12 monthly
// occurrences, or one occurrence per configured bonus month. Used for
// creation-time quota checks, not by the projection engine.
func (p *RecurringPlan) NominalAnnualContribution() decimal.Decimal {
	switch p.Frequency {
	case FrequencyDaily:
		return p.AmountJPY.Mul(decimal.NewFromInt(365))
	case FrequencyMonthly:
		return p.AmountJPY.Mul(decimal.NewFromInt(12))
	case FrequencyBonusMonth:
		return p.AmountJPY.Mul(decimal.NewFromInt(int64(len(p.BonusMonths))))
	}
	return decimal.Zero
}

// ParseBonusMonths parses the comma-separated month list used by the storage
// layer (e.g. "6,12") into a sorted slice of month numbers.
func ParseBonusMonths(value string) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	months := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("bonus months must be comma-separated integers")
		}
		months = append(months, m)
	}

	sort.Ints(months)
	return months, nil
}

// FormatBonusMonths renders a month slice back into the comma-separated
// storage representation.
func FormatBonusMonths(months []int) string {
	if len(months) == 0 {
		return ""
	}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}
