package dto

import (
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts node.
// NormalSide defaults from AccountType when omitted.
type CreateAccountRequest struct {
	Code              string `json:"code" binding:"required"`
	Name              string `json:"name" binding:"required"`
	AccountType       string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	NormalSide        string `json:"normalSide" binding:"omitempty,oneof=DR CR"`
	ParentAccountID   string `json:"parentAccountID"`
	Description       string `json:"description"`
	IsRetainedEarning bool   `json:"isRetainedEarning"`
}

// AccountResponse mirrors a persisted account.
type AccountResponse struct {
	AccountID         string    `json:"accountID"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	AccountType       string    `json:"accountType"`
	NormalSide        string    `json:"normalSide"`
	ParentAccountID   *string   `json:"parentAccountID,omitempty"`
	Description       string    `json:"description"`
	IsRetainedEarning bool      `json:"isRetainedEarning"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         a.AccountID,
		Code:              a.Code,
		Name:              a.Name,
		AccountType:       string(a.AccountType),
		NormalSide:        string(a.NormalSide),
		ParentAccountID:   a.ParentAccountID,
		Description:       a.Description,
		IsRetainedEarning: a.IsRetainedEarning,
		IsActive:          a.IsActive,
		CreatedAt:         a.CreatedAt,
	}
}

// OpeningBalanceResponse mirrors a persisted opening balance row.
type OpeningBalanceResponse struct {
	OpeningBalanceID string          `json:"openingBalanceID"`
	AccountID        string          `json:"accountID"`
	Year             int             `json:"year"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	Note             string          `json:"note"`
	IsCarryForward   bool            `json:"isCarryForward"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToOpeningBalanceResponse converts a domain.OpeningBalance to its response DTO.
func ToOpeningBalanceResponse(ob *domain.OpeningBalance) OpeningBalanceResponse {
	return OpeningBalanceResponse{
		OpeningBalanceID: ob.OpeningBalanceID,
		AccountID:        ob.AccountID,
		Year:             ob.Year,
		Debit:            ob.Debit,
		Credit:           ob.Credit,
		Note:             ob.Note,
		IsCarryForward:   ob.IsCarryForward,
		CreatedAt:        ob.CreatedAt,
	}
}

// CreateOpeningBalanceRequest records a manual opening balance for one
// account and year. Exactly one of debit/credit is expected to be non-zero.
type CreateOpeningBalanceRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Year      int             `json:"year" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Note      string          `json:"note"`
}
