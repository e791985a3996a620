package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStatus is the lifecycle state of a fixed asset. Sold and Disposal are
// terminal except via asset rollback.
type AssetStatus string

const (
	AssetActive   AssetStatus = "ACTIVE"
	AssetSold     AssetStatus = "SOLD"
	AssetDisposal AssetStatus = "DISPOSAL"
)

// AssetAccounts groups the ledger accounts a fixed asset posts against.
type AssetAccounts struct {
	AssetAccountID        string  `json:"assetAccountID"`        // Asset cost
	AccumDepAccountID     string  `json:"accumDepAccountID"`     // Accumulated depreciation (contra)
	DepExpenseAccountID   string  `json:"depExpenseAccountID"`   // Depreciation expense
	PaidAccountID         string  `json:"paidAccountID"`         // Cash/payable credited at purchase
	GainAccountID         *string `json:"gainAccountID"`         // Income on disposal
	LossAccountID         *string `json:"lossAccountID"`         // Expense on disposal
	ProceedsAccountID     *string `json:"proceedsAccountID"`     // Cash received on sale
}

// FixedAsset is a depreciable asset with a daily-prorated straight-line
// schedule. Amounts are in base currency.
type FixedAsset struct {
	AssetID                  string          `json:"assetID"` // Primary key (UUID)
	CompanyID                string          `json:"companyID"`
	AssetCode                string          `json:"assetCode"`
	Name                     string          `json:"name"`
	Cost                     decimal.Decimal `json:"cost"`
	SalvageValue             decimal.Decimal `json:"salvageValue"`
	UsefulLifeYears          int             `json:"usefulLifeYears"`
	StartUseDate             time.Time       `json:"startUseDate"`
	PurchaseDate             time.Time       `json:"purchaseDate"`
	Status                   AssetStatus     `json:"status"`
	SoldDate                 *time.Time      `json:"soldDate,omitempty"`
	AccumulatedDepreciation  decimal.Decimal `json:"accumulatedDepreciation"`
	NetBookValue             decimal.Decimal `json:"netBookValue"`
	PurchaseEntryID          *string         `json:"purchaseEntryID,omitempty"`
	Accounts                 AssetAccounts   `json:"accounts"`
	AuditFields
}

// DepreciableBase is the total amount the asset may depreciate over its
// life: cost minus salvage value. Accumulated depreciation never exceeds it.
func (a FixedAsset) DepreciableBase() decimal.Decimal {
	return a.Cost.Sub(a.SalvageValue)
}

// EndOfUsefulLife is the last calendar day the asset depreciates.
func (a FixedAsset) EndOfUsefulLife() time.Time {
	return a.StartUseDate.AddDate(a.UsefulLifeYears, 0, -1)
}

// DepreciationLedger is one already-posted month of an asset's depreciation
// schedule. Rows are unique per (asset, year, month) and append-only except
// for asset rollback.
type DepreciationLedger struct {
	LedgerID           string          `json:"ledgerID"` // Primary key (UUID)
	AssetID            string          `json:"assetID"`
	CompanyID          string          `json:"companyID"`
	Year               int             `json:"year"`
	Month              int             `json:"month"` // 1..12
	DepreciationAmount decimal.Decimal `json:"depreciationAmount"`
	EntryID            string          `json:"entryID"` // Backing journal entry
	AuditFields
}
