package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// planRepository implements domain.PlanRepository
type planRepository struct {
	db *DB
}

// NewPlanRepository creates a new recurring plan repository
func NewPlanRepository(db *DB) domain.PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, user_id, target_account_type, target_asset_class, target_asset_region,
	target_asset_identifier, target_asset_name, frequency, amount_jpy, start_date, end_date,
	bonus_months, continue_if_limit_exceeded, created_at, updated_at`

// Create creates a new recurring plan
func (r *planRepository) Create(ctx context.Context, p *domain.RecurringPlan) error {
	query := `
		INSERT INTO recurring_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		string(p.TargetAccountType),
		string(p.TargetAssetClass),
		string(p.TargetAssetRegion),
		p.TargetAssetIdentifier,
		p.TargetAssetName,
		string(p.Frequency),
		p.AmountJPY.String(),
		p.StartDate,
		nullableDate(p.EndDate),
		domain.FormatBonusMonths(p.BonusMonths),
		p.ContinueIfLimitExceeded,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// GetByID retrieves a plan by its ID, scoped to the owning user
func (r *planRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.RecurringPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM recurring_plans
		WHERE user_id = $1 AND id = $2
	`

	p, err := scanPlan(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get plan by ID: %w", err)
	}

	return p, nil
}

// Update replaces a plan's mutable fields
func (r *planRepository) Update(ctx context.Context, p *domain.RecurringPlan) error {
	query := `
		UPDATE recurring_plans
		SET target_account_type = $3, target_asset_class = $4, target_asset_region = $5,
		    target_asset_identifier = $6, target_asset_name = $7, frequency = $8,
		    amount_jpy = $9, start_date = $10, end_date = $11, bonus_months = $12,
		    continue_if_limit_exceeded = $13, updated_at = $14
		WHERE user_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.ID,
		string(p.TargetAccountType),
		string(p.TargetAssetClass),
		string(p.TargetAssetRegion),
		p.TargetAssetIdentifier,
		p.TargetAssetName,
		string(p.Frequency),
		p.AmountJPY.String(),
		p.StartDate,
		nullableDate(p.EndDate),
		domain.FormatBonusMonths(p.BonusMonths),
		p.ContinueIfLimitExceeded,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	return ensureRowAffected(result, "plan")
}

// Delete removes a plan
func (r *planRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurring_plans WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return ensureRowAffected(result, "plan")
}

// List retrieves all of a user's plans in insertion order.
// Quota allocation is first-come-first-served over this order.
func (r *planRepository) List(ctx context.Context, userID uuid.UUID) ([]*domain.RecurringPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM recurring_plans
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.RecurringPlan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// scanPlan reads one recurring plan row
func scanPlan(row rowScanner) (*domain.RecurringPlan, error) {
	var p domain.RecurringPlan
	var accountType, assetClass, assetRegion, frequency, amountStr string
	var endDate sql.NullTime
	var bonusMonths sql.NullString

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&accountType,
		&assetClass,
		&assetRegion,
		&p.TargetAssetIdentifier,
		&p.TargetAssetName,
		&frequency,
		&amountStr,
		&p.StartDate,
		&endDate,
		&bonusMonths,
		&p.ContinueIfLimitExceeded,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TargetAccountType = domain.AccountType(accountType)
	p.TargetAssetClass = domain.AssetClass(assetClass)
	p.TargetAssetRegion = domain.AssetRegion(assetRegion)
	p.Frequency = domain.Frequency(frequency)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount_jpy: %w", err)
	}
	p.AmountJPY = amount

	if endDate.Valid {
		d := endDate.Time
		p.EndDate = &d
	}

	if bonusMonths.Valid {
		months, err := domain.ParseBonusMonths(bonusMonths.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bonus_months: %w", err)
		}
		p.BonusMonths = months
	}

	return &p, nil
}
