//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisafolio/nisafolio-backend/internal/adapter/repository/postgres"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/projection"
)

var db *postgres.DB

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		panic(fmt.Sprintf("Failed to apply schema: %v", err))
	}

	code := m.Run()

	os.Exit(code)
}

func getDBConnectionString() string {
	if s := os.Getenv("DB_CONN_STR"); s != "" {
		return s
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=nisafolio_test sslmode=disable"
}

func newHolding(userID uuid.UUID, amount int64) *domain.Holding {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Holding{
		ID:               uuid.New(),
		UserID:           userID,
		AccountType:      domain.AccountTypeNisaTsumitate,
		AssetClass:       domain.AssetClassMutualFund,
		AssetRegion:      domain.AssetRegionInternationalStocks,
		AssetIdentifier:  "FUND-EMAXIS",
		AssetName:        "eMAXIS Slim All Country",
		CurrentAmountJPY: decimal.NewFromInt(amount),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestHoldingRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewHoldingRepository(db)
	userID := uuid.New()

	h := newHolding(userID, 500_000)
	require.NoError(t, repo.Create(ctx, h))

	got, err := repo.GetByID(ctx, userID, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, domain.AccountTypeNisaTsumitate, got.AccountType)
	assert.True(t, h.CurrentAmountJPY.Equal(got.CurrentAmountJPY))
	assert.Nil(t, got.PurchaseDate)

	// Another user never sees it
	_, err = repo.GetByID(ctx, uuid.New(), h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got.CurrentAmountJPY = decimal.NewFromInt(650_000)
	require.NoError(t, repo.Update(ctx, got))

	total, err := repo.TotalAmount(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(650_000).Equal(total))

	require.NoError(t, repo.Delete(ctx, userID, h.ID))
	_, err = repo.GetByID(ctx, userID, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHoldingAggregates(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewHoldingRepository(db)
	userID := uuid.New()

	first := newHolding(userID, 600_000)
	second := newHolding(userID, 400_000)
	second.AccountType = domain.AccountTypeGeneral
	second.AssetRegion = domain.AssetRegionDomesticStocks
	second.AssetClass = domain.AssetClassIndividualStock
	second.AssetIdentifier = "7203"
	second.AssetName = "Toyota Motor"

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	byRegion, err := repo.AggregateByAssetRegion(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600_000).Equal(byRegion["INTERNATIONAL_STOCKS"]))
	assert.True(t, decimal.NewFromInt(400_000).Equal(byRegion["DOMESTIC_STOCKS"]))

	byAccount, err := repo.AggregateByAccountType(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600_000).Equal(byAccount["NISA_TSUMITATE"]))

	// Undated NISA holdings count toward the year they were recorded
	annual, err := repo.NisaAnnualInvested(ctx, userID, time.Now().UTC().Year())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600_000).Equal(annual.Tsumitate))
	assert.True(t, annual.Growth.IsZero())

	lifetime, err := repo.NisaLifetimeInvested(ctx, userID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(600_000).Equal(lifetime.Tsumitate))
}

func TestPlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPlanRepository(db)
	userID := uuid.New()

	now := time.Now().UTC().Truncate(time.Microsecond)
	end := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)
	p := &domain.RecurringPlan{
		ID:                      uuid.New(),
		UserID:                  userID,
		TargetAccountType:       domain.AccountTypeNisaGrowth,
		TargetAssetClass:        domain.AssetClassMutualFund,
		TargetAssetRegion:       domain.AssetRegionInternationalStocks,
		TargetAssetIdentifier:   "FUND-EMAXIS",
		TargetAssetName:         "eMAXIS Slim All Country",
		Frequency:               domain.FrequencyBonusMonth,
		AmountJPY:               decimal.NewFromInt(200_000),
		StartDate:               time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:                 &end,
		BonusMonths:             []int{6, 12},
		ContinueIfLimitExceeded: true,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FrequencyBonusMonth, got.Frequency)
	assert.Equal(t, []int{6, 12}, got.BonusMonths)
	assert.True(t, got.ContinueIfLimitExceeded)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, 2030, got.EndDate.Year())

	plans, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	require.NoError(t, repo.Delete(ctx, userID, p.ID))
}

func TestPlanList_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPlanRepository(db)
	userID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		now := time.Now().UTC().Truncate(time.Microsecond)
		p := &domain.RecurringPlan{
			ID:                    uuid.New(),
			UserID:                userID,
			TargetAccountType:     domain.AccountTypeGeneral,
			TargetAssetClass:      domain.AssetClassMutualFund,
			TargetAssetRegion:     domain.AssetRegionOther,
			TargetAssetIdentifier: fmt.Sprintf("FUND-%d", i),
			TargetAssetName:       fmt.Sprintf("Fund %d", i),
			Frequency:             domain.FrequencyMonthly,
			AmountJPY:             decimal.NewFromInt(10_000),
			StartDate:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
		time.Sleep(10 * time.Millisecond)
	}

	plans, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	for i, p := range plans {
		assert.Equal(t, ids[i], p.ID)
	}
}

func TestProjectionEndToEnd(t *testing.T) {
	ctx := context.Background()
	holdingRepo := postgres.NewHoldingRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	projectionRepo := postgres.NewProjectionRepository(db)
	userID := uuid.New()

	h := newHolding(userID, 1_000_000)
	h.AccountType = domain.AccountTypeGeneral
	require.NoError(t, holdingRepo.Create(ctx, h))

	service := projection.NewService(holdingRepo, planRepo, projectionRepo, nil)

	result, err := service.Calculate(ctx, userID, 10, decimal.NewFromInt(4))
	require.NoError(t, err)

	// The stored record survives the JSON round trip intact
	got, err := service.Get(ctx, userID, result.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.ProjectionYears)
	assert.True(t, result.ProjectedTotalValueJPY.Equal(got.ProjectedTotalValueJPY))
	require.Len(t, got.YearBreakdown, 10)
	assert.True(t, result.YearBreakdown[9].EndingBalance.Equal(got.YearBreakdown[9].EndingBalance))
	assert.Equal(t, len(result.CompositionByRegion), len(got.CompositionByRegion))
	assert.Nil(t, got.ValidUntil)

	list, err := service.List(ctx, userID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, service.MarkStaleAfter(ctx, userID, result.ID, time.Hour))
	got, err = service.Get(ctx, userID, result.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ValidUntil)
	assert.True(t, got.ValidUntil.After(time.Now()))
}
