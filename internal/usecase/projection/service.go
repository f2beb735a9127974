// Package projection implements the portfolio projection calculation engine:
// year-by-year compounding of the current portfolio under recurring
// contribution plans, with NISA quota tracking and composition forecasting.
package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

const (
	// MinYears and MaxYears bound the projection horizon
	MinYears = 1
	MaxYears = 50
)

// Service handles projection calculation operations
type Service struct {
	holdings    domain.HoldingRepository
	plans       domain.PlanRepository
	projections domain.ProjectionRepository
	cal         calendar.Calendar
	now         func() time.Time
}

// NewService creates a new projection Service instance.
// A nil calendar falls back to calendar.NoHolidays (all weekdays count as
// business days).
func NewService(
	holdingRepo domain.HoldingRepository,
	planRepo domain.PlanRepository,
	projectionRepo domain.ProjectionRepository,
	cal calendar.Calendar,
) *Service {
	if cal == nil {
		cal = calendar.NoHolidays()
	}
	return &Service{
		holdings:    holdingRepo,
		plans:       planRepo,
		projections: projectionRepo,
		cal:         cal,
		now:         time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Calculate runs a full projection for a user and persists the result.
//
// Logic:
//  1. Validate the horizon and rate, failing fast before any repository read.
//  2. Load a call-scoped snapshot of holdings, plans and NISA usage seeds.
//  3. Walk the years: accrue contributions, allocate NISA quota, apply growth
//     once at year end (contributions earn a full year of growth in the year
//     they are made), record the breakdown.
//  4. Project compositions by region and asset class in an independent pass.
//  5. Assemble and persist the projection record; nothing is written unless
//     the whole loop completed.
//
// An empty plan list or holdings set yields an all-zero projection, not an
// error.
func (s *Service) Calculate(
	ctx context.Context,
	userID uuid.UUID,
	projectionYears int,
	annualReturnRate decimal.Decimal,
) (*domain.Projection, error) {
	if projectionYears < MinYears || projectionYears > MaxYears {
		return nil, fmt.Errorf("%w: projection years must be between %d and %d",
			domain.ErrInvalidInput, MinYears, MaxYears)
	}
	hundred := decimal.NewFromInt(100)
	if annualReturnRate.LessThan(hundred.Neg()) || annualReturnRate.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: annual return rate must be between -100 and 100",
			domain.ErrInvalidInput)
	}

	snap, err := s.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := annualReturnRate.Div(hundred)
	growthFactor := decimal.NewFromInt(1).Add(rate)

	cum := &cumulativeUsage{
		tsumitate: snap.lifetimeSeed.Tsumitate,
		growth:    snap.lifetimeSeed.Growth,
	}

	currentBalance := snap.startingBalance
	totalContributions := decimal.Zero
	breakdown := make([]domain.YearRecord, 0, projectionYears)

	for year := 0; year < projectionYears; year++ {
		yw := yearWindow(snap.today, year)

		contributions := yearContributions(snap.plans, yw, s.cal)
		totalContributions = totalContributions.Add(contributions)

		var annualSeed *domain.NisaAmounts
		if year == 0 {
			annualSeed = &snap.annualSeed
		}
		usage := allocateYear(snap.plans, yw, s.cal, cum, annualSeed)

		balanceBeforeGrowth := currentBalance.Add(contributions)
		endOfYear := balanceBeforeGrowth.Mul(growthFactor)

		breakdown = append(breakdown, domain.YearRecord{
			Year:                year + 1,
			StartingBalance:     currentBalance,
			Contributions:       contributions,
			BalanceBeforeGrowth: balanceBeforeGrowth,
			GrowthRate:          rate,
			EndingBalance:       endOfYear,
			InterestEarned:      endOfYear.Sub(balanceBeforeGrowth),
			NisaUsage:           usage,
		})

		currentBalance = endOfYear
	}

	projectedTotal := currentBalance
	interestGains := projectedTotal.Sub(snap.startingBalance).Sub(totalContributions)

	byRegion := projectComposition(
		snap.byRegion, snap.plans, projectionYears, snap.today, annualReturnRate, s.cal, byTargetRegion)
	byAssetClass := projectComposition(
		snap.byAssetClass, snap.plans, projectionYears, snap.today, annualReturnRate, s.cal, byTargetAssetClass)

	result := &domain.Projection{
		ID:                      uuid.New(),
		UserID:                  userID,
		ProjectionYears:         projectionYears,
		AnnualReturnRate:        annualReturnRate,
		StartingBalanceJPY:      snap.startingBalance,
		TotalContributionsJPY:   totalContributions,
		TotalInterestGainsJPY:   interestGains,
		ProjectedTotalValueJPY:  projectedTotal,
		CompositionByRegion:     byRegion,
		CompositionByAssetClass: byAssetClass,
		YearBreakdown:           breakdown,
		CreatedAt:               s.now(),
	}

	if err := s.projections.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist projection: %w", err)
	}

	return result, nil
}

// Get retrieves a stored projection by ID
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Projection, error) {
	p, err := s.projections.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get projection: %w", err)
	}
	return p, nil
}

// List retrieves stored projections for a user, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Projection, error) {
	projections, err := s.projections.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	return projections, nil
}

// MarkStaleAfter stamps a stored projection as stale once the given duration
// has elapsed
func (s *Service) MarkStaleAfter(ctx context.Context, userID, id uuid.UUID, d time.Duration) error {
	validUntil := s.now().Add(d)
	if err := s.projections.SetValidUntil(ctx, userID, id, validUntil); err != nil {
		return fmt.Errorf("failed to update projection staleness: %w", err)
	}
	return nil
}
