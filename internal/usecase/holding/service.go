package holding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// Service handles investment holding operations
type Service struct {
	holdings domain.HoldingRepository
	now      func() time.Time
}

// NewService creates a new holding Service instance
func NewService(holdingRepo domain.HoldingRepository) *Service {
	return &Service{
		holdings: holdingRepo,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the fields for recording a new holding.
// AccountType is the raw boundary value; legacy tags are normalized here.
type CreateInput struct {
	AccountType      string
	AssetClass       domain.AssetClass
	AssetRegion      domain.AssetRegion
	AssetIdentifier  string
	AssetName        string
	CurrentAmountJPY decimal.Decimal
	PurchaseDate     *time.Time
}

// Create records a new holding after validating domain rules and NISA quota
// capacity.
// Logic:
//  1. Normalize the account type tag (legacy "NISA" maps to tsumitate).
//  2. Validate field-level rules.
//  3. For NISA frames, reject amounts that exceed the remaining annual or
//     lifetime capacity as of the purchase year.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domain.Holding, error) {
	now := s.now()
	h := &domain.Holding{
		ID:               uuid.New(),
		UserID:           userID,
		AccountType:      domain.NormalizeAccountType(input.AccountType),
		AssetClass:       input.AssetClass,
		AssetRegion:      input.AssetRegion,
		AssetIdentifier:  input.AssetIdentifier,
		AssetName:        input.AssetName,
		CurrentAmountJPY: input.CurrentAmountJPY,
		PurchaseDate:     input.PurchaseDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if h.AccountType.IsNisa() {
		year := now.Year()
		if h.PurchaseDate != nil {
			year = h.PurchaseDate.Year()
		}
		if err := s.checkNisaCapacity(ctx, userID, h.AccountType, h.CurrentAmountJPY, year); err != nil {
			return nil, err
		}
	}

	if err := s.holdings.Create(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	return h, nil
}

// checkNisaCapacity validates a prospective NISA investment against the
// remaining annual and lifetime quota capacity
func (s *Service) checkNisaCapacity(
	ctx context.Context,
	userID uuid.UUID,
	accountType domain.AccountType,
	amount decimal.Decimal,
	year int,
) error {
	annual, err := s.holdings.NisaAnnualInvested(ctx, userID, year)
	if err != nil {
		return fmt.Errorf("failed to load annual NISA usage: %w", err)
	}

	switch accountType {
	case domain.AccountTypeNisaTsumitate:
		remaining := domain.NisaAnnualLimitTsumitate.Sub(annual.Tsumitate)
		if amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: amount exceeds the tsumitate annual limit (remaining %s)",
				domain.ErrInvalidInput, remaining.StringFixed(0))
		}
	case domain.AccountTypeNisaGrowth:
		remaining := domain.NisaAnnualLimitGrowth.Sub(annual.Growth)
		if amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: amount exceeds the growth annual limit (remaining %s)",
				domain.ErrInvalidInput, remaining.StringFixed(0))
		}
	}

	totalRemaining := domain.NisaAnnualLimitTotal.Sub(annual.Total())
	if amount.GreaterThan(totalRemaining) {
		return fmt.Errorf("%w: amount exceeds the combined NISA annual limit (remaining %s)",
			domain.ErrInvalidInput, totalRemaining.StringFixed(0))
	}

	lifetime, err := s.holdings.NisaLifetimeInvested(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load lifetime NISA usage: %w", err)
	}

	if accountType == domain.AccountTypeNisaGrowth {
		remaining := domain.NisaLifetimeLimitGrowth.Sub(lifetime.Growth)
		if amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: amount exceeds the growth lifetime limit (remaining %s)",
				domain.ErrInvalidInput, remaining.StringFixed(0))
		}
	}

	lifetimeRemaining := domain.NisaLifetimeLimitTotal.Sub(lifetime.Total())
	if amount.GreaterThan(lifetimeRemaining) {
		return fmt.Errorf("%w: amount exceeds the NISA lifetime limit (remaining %s)",
			domain.ErrInvalidInput, lifetimeRemaining.StringFixed(0))
	}

	return nil
}

// Get retrieves a single holding
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Holding, error) {
	return s.holdings.GetByID(ctx, userID, id)
}

// List retrieves a page of the user's holdings along with the total count
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Holding, int, error) {
	items, err := s.holdings.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holdings: %w", err)
	}
	count, err := s.holdings.Count(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return items, count, nil
}

// Update replaces a holding's mutable fields, re-running validation
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, input CreateInput) (*domain.Holding, error) {
	existing, err := s.holdings.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.AccountType = domain.NormalizeAccountType(input.AccountType)
	existing.AssetClass = input.AssetClass
	existing.AssetRegion = input.AssetRegion
	existing.AssetIdentifier = input.AssetIdentifier
	existing.AssetName = input.AssetName
	existing.CurrentAmountJPY = input.CurrentAmountJPY
	existing.PurchaseDate = input.PurchaseDate
	existing.UpdatedAt = s.now()

	if err := existing.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := s.holdings.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}
	return existing, nil
}

// Delete removes a holding
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.holdings.Delete(ctx, userID, id)
}

// NisaUsageReport bundles the current-year annual and lifetime NISA usage
type NisaUsageReport struct {
	Year     int
	Annual   map[string]domain.FrameUsage
	Lifetime map[string]domain.FrameUsage
}

// NisaUsage reports the user's current NISA quota consumption
func (s *Service) NisaUsage(ctx context.Context, userID uuid.UUID) (*NisaUsageReport, error) {
	year := s.now().Year()

	annual, err := s.holdings.NisaAnnualInvested(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load annual NISA usage: %w", err)
	}
	lifetime, err := s.holdings.NisaLifetimeInvested(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lifetime NISA usage: %w", err)
	}

	return &NisaUsageReport{
		Year:     year,
		Annual:   domain.AnnualUsageView(annual),
		Lifetime: domain.LifetimeUsageView(lifetime),
	}, nil
}
