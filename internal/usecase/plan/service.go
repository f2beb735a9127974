package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// Service handles recurring investment plan operations
type Service struct {
	plans domain.PlanRepository
	now   func() time.Time
}

// NewService creates a new plan Service instance
func NewService(planRepo domain.PlanRepository) *Service {
	return &Service{
		plans: planRepo,
		now:   time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the fields for defining a recurring plan.
// TargetAccountType is the raw boundary value; legacy tags are normalized here.
type CreateInput struct {
	TargetAccountType       string
	TargetAssetClass        domain.AssetClass
	TargetAssetRegion       domain.AssetRegion
	TargetAssetIdentifier   string
	TargetAssetName         string
	Frequency               domain.Frequency
	AmountJPY               decimal.Decimal
	StartDate               time.Time
	EndDate                 *time.Time
	BonusMonths             []int
	ContinueIfLimitExceeded bool
}

// Create defines a new recurring plan.
// Logic:
//  1. Normalize the target account type tag.
//  2. Validate field-level rules (frequency, bonus months, amount, dates).
//  3. For NISA targets without ContinueIfLimitExceeded, reject plans whose
//     nominal annual contribution exceeds the per-frame or combined annual
//     ceiling. With the flag set, the plan is accepted and the projection
//     engine routes the excess to the general account.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domain.RecurringPlan, error) {
	now := s.now()
	p := &domain.RecurringPlan{
		ID:                      uuid.New(),
		UserID:                  userID,
		TargetAccountType:       domain.NormalizeAccountType(input.TargetAccountType),
		TargetAssetClass:        input.TargetAssetClass,
		TargetAssetRegion:       input.TargetAssetRegion,
		TargetAssetIdentifier:   input.TargetAssetIdentifier,
		TargetAssetName:         input.TargetAssetName,
		Frequency:               input.Frequency,
		AmountJPY:               input.AmountJPY,
		StartDate:               input.StartDate,
		EndDate:                 input.EndDate,
		BonusMonths:             input.BonusMonths,
		ContinueIfLimitExceeded: input.ContinueIfLimitExceeded,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := checkAnnualCeiling(p); err != nil {
		return nil, err
	}

	if err := s.plans.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return p, nil
}

// checkAnnualCeiling enforces the creation-time quota gate for NISA plans.
// It never affects projection math; overflow is always computed there.
func checkAnnualCeiling(p *domain.RecurringPlan) error {
	if !p.TargetAccountType.IsNisa() || p.ContinueIfLimitExceeded {
		return nil
	}

	annual := p.NominalAnnualContribution()

	switch p.TargetAccountType {
	case domain.AccountTypeNisaTsumitate:
		if annual.GreaterThan(domain.NisaAnnualLimitTsumitate) {
			return fmt.Errorf("%w: plan contributes %s per year, over the tsumitate annual limit %s; set continue_if_limit_exceeded to accept overflow",
				domain.ErrInvalidInput, annual.StringFixed(0), domain.NisaAnnualLimitTsumitate.StringFixed(0))
		}
	case domain.AccountTypeNisaGrowth:
		if annual.GreaterThan(domain.NisaAnnualLimitGrowth) {
			return fmt.Errorf("%w: plan contributes %s per year, over the growth annual limit %s; set continue_if_limit_exceeded to accept overflow",
				domain.ErrInvalidInput, annual.StringFixed(0), domain.NisaAnnualLimitGrowth.StringFixed(0))
		}
	}

	if annual.GreaterThan(domain.NisaAnnualLimitTotal) {
		return fmt.Errorf("%w: plan contributes %s per year, over the combined NISA annual limit %s; set continue_if_limit_exceeded to accept overflow",
			domain.ErrInvalidInput, annual.StringFixed(0), domain.NisaAnnualLimitTotal.StringFixed(0))
	}

	return nil
}

// Get retrieves a single plan
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.RecurringPlan, error) {
	return s.plans.GetByID(ctx, userID, id)
}

// List retrieves all of the user's plans in insertion order
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringPlan, error) {
	return s.plans.List(ctx, userID)
}

// Update replaces a plan's mutable fields, re-running validation
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, input CreateInput) (*domain.RecurringPlan, error) {
	existing, err := s.plans.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.TargetAccountType = domain.NormalizeAccountType(input.TargetAccountType)
	existing.TargetAssetClass = input.TargetAssetClass
	existing.TargetAssetRegion = input.TargetAssetRegion
	existing.TargetAssetIdentifier = input.TargetAssetIdentifier
	existing.TargetAssetName = input.TargetAssetName
	existing.Frequency = input.Frequency
	existing.AmountJPY = input.AmountJPY
	existing.StartDate = input.StartDate
	existing.EndDate = input.EndDate
	existing.BonusMonths = input.BonusMonths
	existing.ContinueIfLimitExceeded = input.ContinueIfLimitExceeded
	existing.UpdatedAt = s.now()

	if err := existing.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := checkAnnualCeiling(existing); err != nil {
		return nil, err
	}

	if err := s.plans.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return existing, nil
}

// Delete removes a plan
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.plans.Delete(ctx, userID, id)
}
