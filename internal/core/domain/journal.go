package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a journal line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Posted EntryStatus = "POSTED"
)

// LockState marks whether a journal entry may still be mutated.
// Independently of the stored flag, an entry whose date falls in a closed
// year is treated as locked.
type LockState string

const (
	Unlocked LockState = "UNLOCKED"
	Locked   LockState = "LOCKED"
)

// EntrySource records which subsystem produced a journal entry.
type EntrySource string

const (
	SourceManual        EntrySource = "MANUAL"
	SourceDepreciation  EntrySource = "DEPRECIATION"
	SourceAssetPurchase EntrySource = "ASSET_PURCHASE"
	SourceAssetSale     EntrySource = "ASSET_SALE"
	SourceAssetDisposal EntrySource = "ASSET_DISPOSAL"
	SourceClosing       EntrySource = "CLOSING"
)

// JournalEntry represents a single balanced financial event composed of
// multiple lines.
type JournalEntry struct {
	EntryID     string      `json:"entryID"` // Primary key (UUID)
	CompanyID   string      `json:"companyID"`
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Reference   string      `json:"reference"` // Unique per company when non-empty
	Status      EntryStatus `json:"status"`
	LockState   LockState   `json:"lockState"`
	Source      EntrySource `json:"source"`
	SourceRefID *string     `json:"sourceRefID"` // e.g. fixed asset id
	Lines       []EntryLine `json:"lines,omitempty"`
	AuditFields
}

// EntryLine is a single line item within a journal entry, affecting one
// account on exactly one side.
type EntryLine struct {
	LineID         string          `json:"lineID"` // Primary key (UUID)
	EntryID        string          `json:"entryID"`
	AccountID      string          `json:"accountID"`
	Side           EntrySide       `json:"side"`
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`   // Original -> base
	AmountOriginal decimal.Decimal `json:"amountOriginal"` // In CurrencyCode
	AmountBase     decimal.Decimal `json:"amountBase"`     // In base currency, 2dp
	AuditFields
}

// Year returns the calendar year the entry is dated in.
func (e JournalEntry) Year() int {
	return e.EntryDate.Year()
}

// IsLocked reports whether the stored lock flag forbids mutation. Callers
// must additionally check the entry's accounting period.
func (e JournalEntry) IsLocked() bool {
	return e.LockState == Locked
}
