package services

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/dto"
)

// ClosingSvcFacade defines year-end closing and rollback. Years close
// strictly in sequence and reopen strictly in reverse.
type ClosingSvcFacade interface {
	// ClosePeriod closes the year: posts the synthetic closing entry into
	// retained earnings, locks the year's entries and carries ending
	// balances forward as next year's openings.
	ClosePeriod(ctx context.Context, companyID, userID string, year int) (dto.PeriodResponse, error)

	// RollbackPeriod reopens the most recently closed year, deleting its
	// closing entry and carried-forward openings and unlocking its entries.
	RollbackPeriod(ctx context.Context, companyID, userID string, year int) (dto.PeriodResponse, error)

	// ListPeriods retrieves the company's period rows ordered by year.
	ListPeriods(ctx context.Context, companyID string) ([]dto.PeriodResponse, error)
}
