package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary holds the income statement totals computed when a year was
// closed.
type PeriodSummary struct {
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// AccountingPeriod is the close state of one calendar year for a company.
// Years close in strictly increasing order and only the most recently closed
// year may be rolled back.
type AccountingPeriod struct {
	CompanyID string          `json:"companyID"`
	Year      int             `json:"year"`
	IsClosed  bool            `json:"isClosed"`
	ClosedAt  *time.Time      `json:"closedAt,omitempty"`
	ClosedBy  *string         `json:"closedBy,omitempty"`
	Summary   PeriodSummary   `json:"summary"`
	AuditFields
}
