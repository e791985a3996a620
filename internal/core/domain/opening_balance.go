package domain

import "github.com/shopspring/decimal"

// OpeningBalance carries an account's balance into a year, either entered
// manually or generated by the period-closing carry-forward. At most one row
// exists per (company, account, year).
type OpeningBalance struct {
	OpeningBalanceID string          `json:"openingBalanceID"` // Primary key (UUID)
	CompanyID        string          `json:"companyID"`
	AccountID        string          `json:"accountID"`
	Year             int             `json:"year"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	Note             string          `json:"note"`
	IsCarryForward   bool            `json:"isCarryForward"` // Generated by closing year-1
	AuditFields
}
