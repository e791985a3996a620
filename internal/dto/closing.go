package dto

import (
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodResponse is the close state of one accounting year.
type PeriodResponse struct {
	Year      int             `json:"year"`
	IsClosed  bool            `json:"isClosed"`
	ClosedAt  *time.Time      `json:"closedAt,omitempty"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// ToPeriodResponse converts a domain.AccountingPeriod to its response DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		Year:      p.Year,
		IsClosed:  p.IsClosed,
		ClosedAt:  p.ClosedAt,
		Income:    p.Summary.Income,
		Expense:   p.Summary.Expense,
		NetProfit: p.Summary.NetProfit,
	}
}
