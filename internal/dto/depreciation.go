package dto

import (
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/LattanaDev/laobooks_backend/internal/utils/depreciation"
	"github.com/shopspring/decimal"
)

// CreateFixedAssetRequest registers a purchased asset and posts its paired
// purchase journal entry. All amounts are base currency.
type CreateFixedAssetRequest struct {
	AssetCode           string          `json:"assetCode" binding:"required"`
	Name                string          `json:"name" binding:"required"`
	Cost                decimal.Decimal `json:"cost" binding:"required"`
	SalvageValue        decimal.Decimal `json:"salvageValue"`
	UsefulLifeYears     int             `json:"usefulLifeYears" binding:"required,min=1"`
	StartUseDate        time.Time       `json:"startUseDate" binding:"required"`
	PurchaseDate        time.Time       `json:"purchaseDate" binding:"required"`
	AssetAccountID      string          `json:"assetAccountID" binding:"required"`
	AccumDepAccountID   string          `json:"accumDepAccountID" binding:"required"`
	DepExpenseAccountID string          `json:"depExpenseAccountID" binding:"required"`
	PaidAccountID       string          `json:"paidAccountID" binding:"required"`
	GainAccountID       string          `json:"gainAccountID"`
	LossAccountID       string          `json:"lossAccountID"`
	ProceedsAccountID   string          `json:"proceedsAccountID"`
}

// PostDepreciationRequest posts one month of an asset's schedule.
type PostDepreciationRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// SellAssetRequest records a sale with proceeds on the event date.
type SellAssetRequest struct {
	EventDate time.Time       `json:"eventDate" binding:"required"`
	Proceeds  decimal.Decimal `json:"proceeds" binding:"required"`
}

// DisposeAssetRequest records a no-proceeds disposal on the event date.
type DisposeAssetRequest struct {
	EventDate time.Time `json:"eventDate" binding:"required"`
}

// RollbackAssetRequest undoes an asset's postings; with DeleteAsset the
// purchase entry and the asset record are removed as well.
type RollbackAssetRequest struct {
	DeleteAsset bool `json:"deleteAsset"`
}

// DisposalResult reports the economics of a completed sale or disposal.
type DisposalResult struct {
	AssetID      string          `json:"assetID"`
	GainLoss     decimal.Decimal `json:"gainLoss"` // Positive gain, negative loss
	NetBookValue decimal.Decimal `json:"netBookValue"`
	EntryID      string          `json:"entryID"`
}

// FixedAssetResponse mirrors a persisted fixed asset.
type FixedAssetResponse struct {
	AssetID                 string          `json:"assetID"`
	AssetCode               string          `json:"assetCode"`
	Name                    string          `json:"name"`
	Cost                    decimal.Decimal `json:"cost"`
	SalvageValue            decimal.Decimal `json:"salvageValue"`
	UsefulLifeYears         int             `json:"usefulLifeYears"`
	StartUseDate            time.Time       `json:"startUseDate"`
	PurchaseDate            time.Time       `json:"purchaseDate"`
	Status                  string          `json:"status"`
	SoldDate                *time.Time      `json:"soldDate,omitempty"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulatedDepreciation"`
	NetBookValue            decimal.Decimal `json:"netBookValue"`
}

// ToFixedAssetResponse converts a domain.FixedAsset to its response DTO.
func ToFixedAssetResponse(a *domain.FixedAsset) FixedAssetResponse {
	return FixedAssetResponse{
		AssetID:                 a.AssetID,
		AssetCode:               a.AssetCode,
		Name:                    a.Name,
		Cost:                    a.Cost,
		SalvageValue:            a.SalvageValue,
		UsefulLifeYears:         a.UsefulLifeYears,
		StartUseDate:            a.StartUseDate,
		PurchaseDate:            a.PurchaseDate,
		Status:                  string(a.Status),
		SoldDate:                a.SoldDate,
		AccumulatedDepreciation: a.AccumulatedDepreciation,
		NetBookValue:            a.NetBookValue,
	}
}

// ScheduleResponse is the merged posted-plus-preview depreciation schedule.
type ScheduleResponse struct {
	AssetID string                       `json:"assetID"`
	Months  []depreciation.ScheduleMonth `json:"months"`
}
