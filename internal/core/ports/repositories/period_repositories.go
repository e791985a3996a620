package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PeriodRepositoryFacade persists per-year accounting period state.
type PeriodRepositoryFacade interface {
	// FindPeriod retrieves the period row for a year, or ErrNotFound when the
	// year has never been closed or created. A nil tx reads from the pool.
	FindPeriod(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error)

	// FindPeriodForUpdate locks the period row for the remainder of the
	// caller's transaction, serializing concurrent close attempts.
	FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all period rows for a company ordered by year.
	ListPeriods(ctx context.Context, companyID string) ([]domain.AccountingPeriod, error)

	// LatestClosedYear returns the highest closed year, or ok=false when the
	// company has never closed a period.
	LatestClosedYear(ctx context.Context, tx pgx.Tx, companyID string) (int, bool, error)

	// UpsertPeriodInTx creates or updates the period row inside a
	// caller-owned transaction scope.
	UpsertPeriodInTx(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error
}
