package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OpeningBalanceRepositoryFacade persists per-year account opening balances.
// One row exists per (company, account, year); the database enforces the
// uniqueness.
type OpeningBalanceRepositoryFacade interface {
	// SaveOpeningBalance persists a manually entered opening balance.
	SaveOpeningBalance(ctx context.Context, ob domain.OpeningBalance) error

	// ListByYear retrieves all opening balances of a company for a year.
	// A nil tx reads outside any transaction scope.
	ListByYear(ctx context.Context, tx pgx.Tx, companyID string, year int) ([]domain.OpeningBalance, error)

	// InsertManyInTx bulk-inserts carry-forward rows inside a caller-owned
	// transaction scope.
	InsertManyInTx(ctx context.Context, tx pgx.Tx, balances []domain.OpeningBalance) error

	// DeleteCarryForwardInTx removes every carried-forward row of a year,
	// leaving manually entered rows untouched.
	DeleteCarryForwardInTx(ctx context.Context, tx pgx.Tx, companyID string, year int) error
}
