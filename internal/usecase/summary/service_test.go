package summary

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
)

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Holding, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Update(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockHoldingRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Holding, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockHoldingRepository) TotalAmount(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockHoldingRepository) AggregateByAssetRegion(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockHoldingRepository) AggregateByAssetClass(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockHoldingRepository) AggregateByAccountType(ctx context.Context, userID uuid.UUID) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockHoldingRepository) NisaAnnualInvested(ctx context.Context, userID uuid.UUID, year int) (domain.NisaAmounts, error) {
	args := m.Called(ctx, userID, year)
	return args.Get(0).(domain.NisaAmounts), args.Error(1)
}

func (m *MockHoldingRepository) NisaLifetimeInvested(ctx context.Context, userID uuid.UUID) (domain.NisaAmounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.NisaAmounts), args.Error(1)
}

func TestGetPortfolioSummary(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("TotalAmount", ctx, userID).Return(decimal.NewFromInt(1_000_000), nil)
	mockRepo.On("Count", ctx, userID).Return(3, nil)
	mockRepo.On("AggregateByAssetRegion", ctx, userID).Return(map[string]decimal.Decimal{
		"DOMESTIC_STOCKS":      decimal.NewFromInt(600_000),
		"INTERNATIONAL_STOCKS": decimal.NewFromInt(400_000),
	}, nil)
	mockRepo.On("AggregateByAccountType", ctx, userID).Return(map[string]decimal.Decimal{
		"NISA_TSUMITATE": decimal.NewFromInt(250_000),
		"GENERAL":        decimal.NewFromInt(750_000),
	}, nil)
	mockRepo.On("AggregateByAssetClass", ctx, userID).Return(map[string]decimal.Decimal{
		"MUTUAL_FUND": decimal.NewFromInt(1_000_000),
	}, nil)

	s, err := service.GetPortfolioSummary(ctx, userID)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1_000_000).Equal(s.TotalValueJPY))
	assert.Equal(t, 3, s.HoldingsCount)
	assert.True(t, decimal.NewFromInt(60).Equal(s.CompositionByRegion["DOMESTIC_STOCKS"].Percentage))
	assert.True(t, decimal.NewFromInt(40).Equal(s.CompositionByRegion["INTERNATIONAL_STOCKS"].Percentage))
	assert.True(t, decimal.NewFromInt(25).Equal(s.CompositionByAccountType["NISA_TSUMITATE"].Percentage))
	assert.True(t, decimal.NewFromInt(100).Equal(s.CompositionByAssetClass["MUTUAL_FUND"].Percentage))
	mockRepo.AssertExpectations(t)
}

func TestGetPortfolioSummary_EmptyPortfolio(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("TotalAmount", ctx, userID).Return(decimal.Zero, nil)
	mockRepo.On("Count", ctx, userID).Return(0, nil)
	mockRepo.On("AggregateByAssetRegion", ctx, userID).Return(map[string]decimal.Decimal{}, nil)
	mockRepo.On("AggregateByAccountType", ctx, userID).Return(map[string]decimal.Decimal{}, nil)
	mockRepo.On("AggregateByAssetClass", ctx, userID).Return(map[string]decimal.Decimal{}, nil)

	s, err := service.GetPortfolioSummary(ctx, userID)

	require.NoError(t, err)
	assert.True(t, s.TotalValueJPY.IsZero())
	assert.Equal(t, 0, s.HoldingsCount)
	// Zero total yields empty composition maps, never divide-by-zero entries
	assert.Empty(t, s.CompositionByRegion)
	assert.Empty(t, s.CompositionByAccountType)
	assert.Empty(t, s.CompositionByAssetClass)
}
