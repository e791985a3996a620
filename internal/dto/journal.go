package dto

import (
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one requested journal line. Amount is in the line's
// currency; the base amount is derived from the exchange rate during
// validation.
type EntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Side         string          `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	CurrencyCode string          `json:"currencyCode" binding:"required,ledgercurrency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// CreateJournalEntryRequest is the payload for posting a manual entry.
type CreateJournalEntryRequest struct {
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Reference   string             `json:"reference"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=1,max=1000,dive"`
}

// UpdateJournalEntryRequest replaces an unlocked entry's header and lines.
type UpdateJournalEntryRequest struct {
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Reference   string             `json:"reference"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=1,max=1000,dive"`
}

// EntryLineResponse mirrors a persisted journal line.
type EntryLineResponse struct {
	LineID         string          `json:"lineID"`
	AccountID      string          `json:"accountID"`
	Side           string          `json:"side"`
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	AmountOriginal decimal.Decimal `json:"amountOriginal"`
	AmountBase     decimal.Decimal `json:"amountBase"`
}

// JournalEntryResponse mirrors a persisted journal entry.
type JournalEntryResponse struct {
	EntryID     string              `json:"entryID"`
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Reference   string              `json:"reference"`
	Status      string              `json:"status"`
	LockState   string              `json:"lockState"`
	Source      string              `json:"source"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ListEntriesParams carries pagination inputs for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.EntryLine to its response DTO.
func ToEntryLineResponse(line domain.EntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:         line.LineID,
		AccountID:      line.AccountID,
		Side:           string(line.Side),
		CurrencyCode:   line.CurrencyCode,
		ExchangeRate:   line.ExchangeRate,
		AmountOriginal: line.AmountOriginal,
		AmountBase:     line.AmountBase,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		Date:        e.EntryDate,
		Description: e.Description,
		Reference:   e.Reference,
		Status:      string(e.Status),
		LockState:   string(e.LockState),
		Source:      string(e.Source),
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
	for _, line := range e.Lines {
		resp.Lines = append(resp.Lines, ToEntryLineResponse(line))
	}
	return resp
}
