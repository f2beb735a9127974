package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHolding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid general holding should pass",
			holding: Holding{
				ID:               uuid.New(),
				UserID:           uuid.New(),
				AccountType:      AccountTypeGeneral,
				AssetClass:       AssetClassIndividualStock,
				AssetRegion:      AssetRegionDomesticStocks,
				AssetIdentifier:  "7203",
				AssetName:        "Toyota Motor",
				CurrentAmountJPY: decimal.NewFromInt(500_000),
			},
			wantErr: false,
		},
		{
			name: "Unknown account type should fail",
			holding: Holding{
				ID:               uuid.New(),
				AccountType:      AccountType("IDECO"),
				AssetIdentifier:  "7203",
				AssetName:        "Toyota Motor",
				CurrentAmountJPY: decimal.NewFromInt(500_000),
			},
			wantErr: true,
			errMsg:  "account type must be NISA_TSUMITATE, NISA_GROWTH or GENERAL",
		},
		{
			name: "Empty asset identifier should fail",
			holding: Holding{
				ID:               uuid.New(),
				AccountType:      AccountTypeNisaGrowth,
				AssetName:        "Some Fund",
				CurrentAmountJPY: decimal.NewFromInt(100_000),
			},
			wantErr: true,
			errMsg:  "asset identifier cannot be empty",
		},
		{
			name: "Empty asset name should fail",
			holding: Holding{
				ID:               uuid.New(),
				AccountType:      AccountTypeNisaGrowth,
				AssetIdentifier:  "FUND-1",
				CurrentAmountJPY: decimal.NewFromInt(100_000),
			},
			wantErr: true,
			errMsg:  "asset name cannot be empty",
		},
		{
			name: "Negative amount should fail",
			holding: Holding{
				ID:               uuid.New(),
				AccountType:      AccountTypeGeneral,
				AssetIdentifier:  "FUND-1",
				AssetName:        "Some Fund",
				CurrentAmountJPY: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "holding amount must be non-negative",
		},
		{
			name: "Zero amount should pass",
			holding: Holding{
				ID:               uuid.New(),
				AccountType:      AccountTypeGeneral,
				AssetIdentifier:  "FUND-1",
				AssetName:        "Some Fund",
				CurrentAmountJPY: decimal.Zero,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeAccountType(t *testing.T) {
	// Legacy combined tag maps to tsumitate
	assert.Equal(t, AccountTypeNisaTsumitate, NormalizeAccountType("NISA"))

	// Current tags pass through untouched
	assert.Equal(t, AccountTypeNisaTsumitate, NormalizeAccountType("NISA_TSUMITATE"))
	assert.Equal(t, AccountTypeNisaGrowth, NormalizeAccountType("NISA_GROWTH"))
	assert.Equal(t, AccountTypeGeneral, NormalizeAccountType("GENERAL"))

	// Unknown values pass through so validation can reject them
	assert.Equal(t, AccountType("IDECO"), NormalizeAccountType("IDECO"))
}

func TestAccountType_IsNisa(t *testing.T) {
	assert.True(t, AccountTypeNisaTsumitate.IsNisa())
	assert.True(t, AccountTypeNisaGrowth.IsNisa())
	assert.False(t, AccountTypeGeneral.IsNisa())
	assert.False(t, AccountType("IDECO").IsNisa())
}
