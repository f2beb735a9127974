package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// snapshot is the call-scoped view of a user's stored state, loaded once
// before the pure compute phase begins. Every calculation builds a fresh
// snapshot; nothing here is shared across requests.
type snapshot struct {
	today           time.Time
	startingBalance decimal.Decimal
	plans           []*domain.RecurringPlan
	byRegion        map[string]decimal.Decimal
	byAssetClass    map[string]decimal.Decimal
	lifetimeSeed    domain.NisaAmounts
	annualSeed      domain.NisaAmounts
}

// loadSnapshot performs all repository reads for one calculation call
func (s *Service) loadSnapshot(ctx context.Context, userID uuid.UUID) (*snapshot, error) {
	today := dateOf(s.now())

	startingBalance, err := s.holdings.TotalAmount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio total: %w", err)
	}

	plans, err := s.plans.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring plans: %w", err)
	}

	byRegion, err := s.holdings.AggregateByAssetRegion(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load region aggregates: %w", err)
	}

	byAssetClass, err := s.holdings.AggregateByAssetClass(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset class aggregates: %w", err)
	}

	lifetimeSeed, err := s.holdings.NisaLifetimeInvested(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lifetime NISA usage: %w", err)
	}

	annualSeed, err := s.holdings.NisaAnnualInvested(ctx, userID, today.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to load current-year NISA usage: %w", err)
	}

	return &snapshot{
		today:           today,
		startingBalance: startingBalance,
		plans:           plans,
		byRegion:        byRegion,
		byAssetClass:    byAssetClass,
		lifetimeSeed:    lifetimeSeed,
		annualSeed:      annualSeed,
	}, nil
}
