package summary

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// PortfolioSummary represents the current portfolio state: total value and
// composition across the three categorical dimensions
type PortfolioSummary struct {
	TotalValueJPY            decimal.Decimal
	HoldingsCount            int
	CompositionByRegion      map[string]domain.CompositionEntry
	CompositionByAccountType map[string]domain.CompositionEntry
	CompositionByAssetClass  map[string]domain.CompositionEntry
}

// Service handles portfolio summary operations
type Service struct {
	holdings domain.HoldingRepository
}

// NewService creates a new summary Service instance
func NewService(holdingRepo domain.HoldingRepository) *Service {
	return &Service{holdings: holdingRepo}
}

// GetPortfolioSummary aggregates the user's current holdings.
// Logic: one aggregate per dimension (region, account type, asset class) plus
// the grand total; percentages are amount/total*100 and every composition map
// is empty when the total is zero.
func (s *Service) GetPortfolioSummary(ctx context.Context, userID uuid.UUID) (*PortfolioSummary, error) {
	total, err := s.holdings.TotalAmount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio total: %w", err)
	}

	count, err := s.holdings.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count holdings: %w", err)
	}

	byRegion, err := s.holdings.AggregateByAssetRegion(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load region aggregates: %w", err)
	}

	byAccountType, err := s.holdings.AggregateByAccountType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account type aggregates: %w", err)
	}

	byAssetClass, err := s.holdings.AggregateByAssetClass(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset class aggregates: %w", err)
	}

	return &PortfolioSummary{
		TotalValueJPY:            total,
		HoldingsCount:            count,
		CompositionByRegion:      composition(byRegion, total),
		CompositionByAccountType: composition(byAccountType, total),
		CompositionByAssetClass:  composition(byAssetClass, total),
	}, nil
}

// composition converts raw per-key totals into amount/percentage entries
func composition(amounts map[string]decimal.Decimal, total decimal.Decimal) map[string]domain.CompositionEntry {
	if total.IsZero() {
		return map[string]domain.CompositionEntry{}
	}

	hundred := decimal.NewFromInt(100)
	result := make(map[string]domain.CompositionEntry, len(amounts))
	for key, amount := range amounts {
		result[key] = domain.CompositionEntry{
			Amount:     amount,
			Percentage: amount.Div(total).Mul(hundred),
		}
	}
	return result
}
