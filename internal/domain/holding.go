package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the account frame a holding or plan belongs to
type AccountType string

const (
	AccountTypeNisaTsumitate AccountType = "NISA_TSUMITATE"
	AccountTypeNisaGrowth    AccountType = "NISA_GROWTH"
	AccountTypeGeneral       AccountType = "GENERAL"
)

// NormalizeAccountType maps legacy account type tags onto the current set.
// Historical records used a combined "NISA" tag before the 2024 sub-frame split;
// those are treated as tsumitate. Normalization happens once at the input
// boundary, never inside the calculation pipeline.
func NormalizeAccountType(value string) AccountType {
	if value == "NISA" {
		return AccountTypeNisaTsumitate
	}
	return AccountType(value)
}

// IsNisa reports whether the account type counts against NISA quota frames
func (a AccountType) IsNisa() bool {
	return a == AccountTypeNisaTsumitate || a == AccountTypeNisaGrowth
}

// Valid reports whether the account type is one of the known values
func (a AccountType) Valid() bool {
	switch a {
	case AccountTypeNisaTsumitate, AccountTypeNisaGrowth, AccountTypeGeneral:
		return true
	}
	return false
}

// AssetClass represents the kind of instrument held
type AssetClass string

const (
	AssetClassIndividualStock AssetClass = "INDIVIDUAL_STOCK"
	AssetClassMutualFund      AssetClass = "MUTUAL_FUND"
	AssetClassCryptocurrency  AssetClass = "CRYPTOCURRENCY"
	AssetClassREIT            AssetClass = "REIT"
	AssetClassGovernmentBond  AssetClass = "GOVERNMENT_BOND"
	AssetClassOther           AssetClass = "OTHER"
)

// AssetRegion represents the market region an asset belongs to
type AssetRegion string

const (
	AssetRegionDomesticStocks      AssetRegion = "DOMESTIC_STOCKS"
	AssetRegionInternationalStocks AssetRegion = "INTERNATIONAL_STOCKS"
	AssetRegionDomesticBonds       AssetRegion = "DOMESTIC_BONDS"
	AssetRegionInternationalBonds  AssetRegion = "INTERNATIONAL_BONDS"
	AssetRegionDomesticREITs       AssetRegion = "DOMESTIC_REITS"
	AssetRegionInternationalREITs  AssetRegion = "INTERNATIONAL_REITS"
	AssetRegionCryptocurrency      AssetRegion = "CRYPTOCURRENCY"
	AssetRegionOther               AssetRegion = "OTHER"
)

// Holding represents an investment holding entity in the domain layer
// Amounts are JPY with 2 decimal places; the projection engine reads holdings
// but never mutates them.
type Holding struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AccountType      AccountType
	AssetClass       AssetClass
	AssetRegion      AssetRegion
	AssetIdentifier  string
	AssetName        string
	CurrentAmountJPY decimal.Decimal
	PurchaseDate     *time.Time // date precision; nil when unknown
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if !h.AccountType.Valid() {
		return errors.New("account type must be NISA_TSUMITATE, NISA_GROWTH or GENERAL")
	}
	if h.AssetIdentifier == "" {
		return errors.New("asset identifier cannot be empty")
	}
	if h.AssetName == "" {
		return errors.New("asset name cannot be empty")
	}
	if h.CurrentAmountJPY.IsNegative() {
		return errors.New("holding amount must be non-negative")
	}
	return nil
}
