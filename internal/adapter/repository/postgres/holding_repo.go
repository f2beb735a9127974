package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

const holdingColumns = `id, user_id, account_type, asset_class, asset_region,
	asset_identifier, asset_name, current_amount_jpy, purchase_date, created_at, updated_at`

// Create creates a new holding
func (r *holdingRepository) Create(ctx context.Context, h *domain.Holding) error {
	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.UserID,
		string(h.AccountType),
		string(h.AssetClass),
		string(h.AssetRegion),
		h.AssetIdentifier,
		h.AssetName,
		h.CurrentAmountJPY.String(),
		nullableDate(h.PurchaseDate),
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}

	return nil
}

// GetByID retrieves a holding by its ID, scoped to the owning user
func (r *holdingRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1 AND id = $2
	`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("holding %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get holding by ID: %w", err)
	}

	return h, nil
}

// Update replaces a holding's mutable fields
func (r *holdingRepository) Update(ctx context.Context, h *domain.Holding) error {
	query := `
		UPDATE holdings
		SET account_type = $3, asset_class = $4, asset_region = $5,
		    asset_identifier = $6, asset_name = $7, current_amount_jpy = $8,
		    purchase_date = $9, updated_at = $10
		WHERE user_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		h.UserID,
		h.ID,
		string(h.AccountType),
		string(h.AssetClass),
		string(h.AssetRegion),
		h.AssetIdentifier,
		h.AssetName,
		h.CurrentAmountJPY.String(),
		nullableDate(h.PurchaseDate),
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	return ensureRowAffected(result, "holding")
}

// Delete removes a holding
func (r *holdingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return ensureRowAffected(result, "holding")
}

// List retrieves a paginated list of a user's holdings
func (r *holdingRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// Count returns the total number of holdings for a user
func (r *holdingRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM holdings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return count, nil
}

// TotalAmount returns the sum of all holding amounts for a user
func (r *holdingRepository) TotalAmount(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var totalStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(current_amount_jpy), 0) FROM holdings WHERE user_id = $1`,
		userID,
	).Scan(&totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum holdings: %w", err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse holdings total: %w", err)
	}
	return total, nil
}

// AggregateByAssetRegion returns per-region amount totals for a user
func (r *holdingRepository) AggregateByAssetRegion(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	return r.aggregateByColumn(ctx, userID, "asset_region")
}

// AggregateByAssetClass returns per-asset-class amount totals for a user
func (r *holdingRepository) AggregateByAssetClass(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	return r.aggregateByColumn(ctx, userID, "asset_class")
}

// AggregateByAccountType returns per-account-type amount totals for a user
func (r *holdingRepository) AggregateByAccountType(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	return r.aggregateByColumn(ctx, userID, "account_type")
}

// aggregateByColumn groups holding amounts by one of the categorical columns.
// The column name is fixed by the callers above, never caller-supplied input.
func (r *holdingRepository) aggregateByColumn(ctx context.Context, userID uuid.UUID, column string) (map[string]decimal.Decimal, error) {
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(SUM(current_amount_jpy), 0)
		FROM holdings
		WHERE user_id = $1
		GROUP BY %s
	`, column, column)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate holdings by %s: %w", column, err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var key, amountStr string
		if err := rows.Scan(&key, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse aggregate amount: %w", err)
		}
		result[key] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate rows: %w", err)
	}

	return result, nil
}

// NisaAnnualInvested returns the amounts invested into each NISA sub-frame
// during the given calendar year. Holdings without a purchase date count
// toward the year they were recorded.
func (r *holdingRepository) NisaAnnualInvested(ctx context.Context, userID uuid.UUID, year int) (domain.NisaAmounts, error) {
	query := `
		SELECT account_type, COALESCE(SUM(current_amount_jpy), 0)
		FROM holdings
		WHERE user_id = $1
		  AND account_type IN ($2, $3)
		  AND (
		        (purchase_date IS NOT NULL AND EXTRACT(YEAR FROM purchase_date) = $4)
		     OR (purchase_date IS NULL AND EXTRACT(YEAR FROM created_at) = $4)
		  )
		GROUP BY account_type
	`

	return r.scanNisaAmounts(ctx, query,
		userID, string(domain.AccountTypeNisaTsumitate), string(domain.AccountTypeNisaGrowth), year)
}

// NisaLifetimeInvested returns the all-time amounts invested into each NISA sub-frame
func (r *holdingRepository) NisaLifetimeInvested(ctx context.Context, userID uuid.UUID) (domain.NisaAmounts, error) {
	query := `
		SELECT account_type, COALESCE(SUM(current_amount_jpy), 0)
		FROM holdings
		WHERE user_id = $1 AND account_type IN ($2, $3)
		GROUP BY account_type
	`

	return r.scanNisaAmounts(ctx, query,
		userID, string(domain.AccountTypeNisaTsumitate), string(domain.AccountTypeNisaGrowth))
}

func (r *holdingRepository) scanNisaAmounts(ctx context.Context, query string, args ...interface{}) (domain.NisaAmounts, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.NisaAmounts{}, fmt.Errorf("failed to aggregate NISA usage: %w", err)
	}
	defer rows.Close()

	amounts := domain.NisaAmounts{Tsumitate: decimal.Zero, Growth: decimal.Zero}
	for rows.Next() {
		var accountType, amountStr string
		if err := rows.Scan(&accountType, &amountStr); err != nil {
			return domain.NisaAmounts{}, fmt.Errorf("failed to scan NISA usage row: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return domain.NisaAmounts{}, fmt.Errorf("failed to parse NISA usage amount: %w", err)
		}
		switch domain.AccountType(accountType) {
		case domain.AccountTypeNisaTsumitate:
			amounts.Tsumitate = amount
		case domain.AccountTypeNisaGrowth:
			amounts.Growth = amount
		}
	}
	if err := rows.Err(); err != nil {
		return domain.NisaAmounts{}, fmt.Errorf("failed to iterate NISA usage rows: %w", err)
	}

	return amounts, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanHolding reads one holding row
func scanHolding(row rowScanner) (*domain.Holding, error) {
	var h domain.Holding
	var accountType, assetClass, assetRegion, amountStr string
	var purchaseDate sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.UserID,
		&accountType,
		&assetClass,
		&assetRegion,
		&h.AssetIdentifier,
		&h.AssetName,
		&amountStr,
		&purchaseDate,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.AccountType = domain.AccountType(accountType)
	h.AssetClass = domain.AssetClass(assetClass)
	h.AssetRegion = domain.AssetRegion(assetRegion)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_amount_jpy: %w", err)
	}
	h.CurrentAmountJPY = amount

	if purchaseDate.Valid {
		d := purchaseDate.Time
		h.PurchaseDate = &d
	}

	return &h, nil
}

// nullableDate converts an optional date into a driver-friendly value
func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// ensureRowAffected maps zero-row updates and deletes onto ErrNotFound
func ensureRowAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return nil
}
