package dto

import (
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/LattanaDev/laobooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// LedgerReportRow is one account's line in the yearly ledger report. Parent
// accounts carry the rolled-up amounts of their subtree.
type LedgerReportRow struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	NormalSide      string          `json:"normalSide"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	IsLeaf          bool            `json:"isLeaf"`
	OpeningDr       decimal.Decimal `json:"openingDr"`
	OpeningCr       decimal.Decimal `json:"openingCr"`
	MovementDr      decimal.Decimal `json:"movementDr"`
	MovementCr      decimal.Decimal `json:"movementCr"`
	EndingDr        decimal.Decimal `json:"endingDr"`
	EndingCr        decimal.Decimal `json:"endingCr"`
}

// LedgerReportTotals sums the report across leaf accounts.
type LedgerReportTotals struct {
	OpeningDr  decimal.Decimal `json:"openingDr"`
	OpeningCr  decimal.Decimal `json:"openingCr"`
	MovementDr decimal.Decimal `json:"movementDr"`
	MovementCr decimal.Decimal `json:"movementCr"`
	EndingDr   decimal.Decimal `json:"endingDr"`
	EndingCr   decimal.Decimal `json:"endingCr"`
}

// LedgerReportResponse is the full yearly ledger: one row per account,
// ordered by account code, plus leaf-level totals.
type LedgerReportResponse struct {
	Year   int                `json:"year"`
	Rows   []LedgerReportRow  `json:"rows"`
	Totals LedgerReportTotals `json:"totals"`
}

// ToLedgerReportRow merges a computed balance row with its account master
// data.
func ToLedgerReportRow(acc domain.Account, row *accounting.Row, isLeaf bool) LedgerReportRow {
	return LedgerReportRow{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     string(acc.AccountType),
		NormalSide:      string(acc.NormalSide),
		ParentAccountID: acc.ParentAccountID,
		IsLeaf:          isLeaf,
		OpeningDr:       row.OpeningDr,
		OpeningCr:       row.OpeningCr,
		MovementDr:      row.MovementDr,
		MovementCr:      row.MovementCr,
		EndingDr:        row.EndingDr,
		EndingCr:        row.EndingCr,
	}
}

// ToLedgerReportTotals converts calculator totals to the response shape.
func ToLedgerReportTotals(t accounting.Totals) LedgerReportTotals {
	return LedgerReportTotals{
		OpeningDr:  t.OpeningDr,
		OpeningCr:  t.OpeningCr,
		MovementDr: t.MovementDr,
		MovementCr: t.MovementCr,
		EndingDr:   t.EndingDr,
		EndingCr:   t.EndingCr,
	}
}
