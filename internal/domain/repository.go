package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// Create creates a new holding
	Create(ctx context.Context, holding *Holding) error

	// GetByID retrieves a holding by its ID, scoped to the owning user
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Holding, error)

	// Update replaces a holding's mutable fields
	Update(ctx context.Context, holding *Holding) error

	// Delete removes a holding
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List retrieves a paginated list of a user's holdings
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Holding, error)

	// Count returns the total number of holdings for a user
	Count(ctx context.Context, userID uuid.UUID) (int, error)

	// TotalAmount returns the sum of all holding amounts for a user
	TotalAmount(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// AggregateByAssetRegion returns per-region amount totals for a user
	AggregateByAssetRegion(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error)

	// AggregateByAssetClass returns per-asset-class amount totals for a user
	AggregateByAssetClass(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error)

	// AggregateByAccountType returns per-account-type amount totals for a user
	AggregateByAccountType(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error)

	// NisaAnnualInvested returns the amounts invested into each NISA sub-frame
	// during the given calendar year. Holdings without a purchase date count
	// toward the year they were recorded.
	NisaAnnualInvested(ctx context.Context, userID uuid.UUID, year int) (NisaAmounts, error)

	// NisaLifetimeInvested returns the all-time amounts invested into each
	// NISA sub-frame
	NisaLifetimeInvested(ctx context.Context, userID uuid.UUID) (NisaAmounts, error)
}

// PlanRepository defines the interface for recurring plan persistence operations
type PlanRepository interface {
	// Create creates a new recurring plan
	Create(ctx context.Context, plan *RecurringPlan) error

	// GetByID retrieves a plan by its ID, scoped to the owning user
	GetByID(ctx context.Context, userID, id uuid.UUID) (*RecurringPlan, error)

	// Update replaces a plan's mutable fields
	Update(ctx context.Context, plan *RecurringPlan) error

	// Delete removes a plan
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// List retrieves all of a user's plans in insertion order.
	// Quota allocation is first-come-first-served over this order, so the
	// ordering is part of the contract.
	List(ctx context.Context, userID uuid.UUID) ([]*RecurringPlan, error)
}

// ProjectionRepository defines the interface for projection persistence operations
type ProjectionRepository interface {
	// Create persists a calculated projection
	Create(ctx context.Context, projection *Projection) error

	// GetByID retrieves a projection by its ID, scoped to the owning user
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Projection, error)

	// List retrieves a user's projections, most recent first
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Projection, error)

	// SetValidUntil updates the staleness stamp of a stored projection
	SetValidUntil(ctx context.Context, userID, id uuid.UUID, validUntil time.Time) error
}
