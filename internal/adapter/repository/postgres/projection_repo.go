package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// projectionRepository implements domain.ProjectionRepository.
// Composition maps and the year breakdown are stored as JSON text alongside
// the typed numeric columns; serialization happens only here, never in the
// calculation pipeline.
type projectionRepository struct {
	db *DB
}

// NewProjectionRepository creates a new projection repository
func NewProjectionRepository(db *DB) domain.ProjectionRepository {
	return &projectionRepository{db: db}
}

const projectionColumns = `id, user_id, projection_years, annual_return_rate,
	starting_balance_jpy, total_contributions_jpy, total_interest_gains_jpy,
	projected_total_value_jpy, composition_by_region, composition_by_asset_class,
	year_by_year_breakdown, created_at, valid_until`

// Create persists a calculated projection
func (r *projectionRepository) Create(ctx context.Context, p *domain.Projection) error {
	byRegion, err := json.Marshal(p.CompositionByRegion)
	if err != nil {
		return fmt.Errorf("failed to marshal region composition: %w", err)
	}
	byAssetClass, err := json.Marshal(p.CompositionByAssetClass)
	if err != nil {
		return fmt.Errorf("failed to marshal asset class composition: %w", err)
	}
	breakdown, err := json.Marshal(p.YearBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal year breakdown: %w", err)
	}

	query := `
		INSERT INTO projections (` + projectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.ProjectionYears,
		p.AnnualReturnRate.String(),
		p.StartingBalanceJPY.String(),
		p.TotalContributionsJPY.String(),
		p.TotalInterestGainsJPY.String(),
		p.ProjectedTotalValueJPY.String(),
		string(byRegion),
		string(byAssetClass),
		string(breakdown),
		p.CreatedAt,
		nullableTime(p.ValidUntil),
	)
	if err != nil {
		return fmt.Errorf("failed to create projection: %w", err)
	}

	return nil
}

// GetByID retrieves a projection by its ID, scoped to the owning user
func (r *projectionRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Projection, error) {
	query := `
		SELECT ` + projectionColumns + `
		FROM projections
		WHERE user_id = $1 AND id = $2
	`

	p, err := scanProjection(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("projection %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get projection by ID: %w", err)
	}

	return p, nil
}

// List retrieves a user's projections, most recent first
func (r *projectionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Projection, error) {
	query := `
		SELECT ` + projectionColumns + `
		FROM projections
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	defer rows.Close()

	projections := make([]*domain.Projection, 0)
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		projections = append(projections, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projections: %w", err)
	}

	return projections, nil
}

// SetValidUntil updates the staleness stamp of a stored projection
func (r *projectionRepository) SetValidUntil(ctx context.Context, userID, id uuid.UUID, validUntil time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projections SET valid_until = $3 WHERE user_id = $1 AND id = $2`,
		userID, id, validUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to set projection valid_until: %w", err)
	}
	return ensureRowAffected(result, "projection")
}

// scanProjection reads one projection row, decoding the JSON blobs back into
// typed records
func scanProjection(row rowScanner) (*domain.Projection, error) {
	var p domain.Projection
	var rateStr, startStr, contribStr, interestStr, totalStr string
	var byRegionRaw, byAssetClassRaw string
	var breakdownRaw sql.NullString
	var validUntil sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.ProjectionYears,
		&rateStr,
		&startStr,
		&contribStr,
		&interestStr,
		&totalStr,
		&byRegionRaw,
		&byAssetClassRaw,
		&breakdownRaw,
		&p.CreatedAt,
		&validUntil,
	)
	if err != nil {
		return nil, err
	}

	for _, field := range []struct {
		target *decimal.Decimal
		raw    string
		name   string
	}{
		{&p.AnnualReturnRate, rateStr, "annual_return_rate"},
		{&p.StartingBalanceJPY, startStr, "starting_balance_jpy"},
		{&p.TotalContributionsJPY, contribStr, "total_contributions_jpy"},
		{&p.TotalInterestGainsJPY, interestStr, "total_interest_gains_jpy"},
		{&p.ProjectedTotalValueJPY, totalStr, "projected_total_value_jpy"},
	} {
		v, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.target = v
	}

	if byRegionRaw != "" {
		if err := json.Unmarshal([]byte(byRegionRaw), &p.CompositionByRegion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal region composition: %w", err)
		}
	}
	if byAssetClassRaw != "" {
		if err := json.Unmarshal([]byte(byAssetClassRaw), &p.CompositionByAssetClass); err != nil {
			return nil, fmt.Errorf("failed to unmarshal asset class composition: %w", err)
		}
	}
	if breakdownRaw.Valid && breakdownRaw.String != "" {
		if err := json.Unmarshal([]byte(breakdownRaw.String), &p.YearBreakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal year breakdown: %w", err)
		}
	}

	if validUntil.Valid {
		t := validUntil.Time
		p.ValidUntil = &t
	}

	return &p, nil
}

// nullableTime converts an optional timestamp into a driver-friendly value
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
