package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data. Every
// method takes the owning company id; rows outside that scope are invisible.
type AccountReader interface {
	// FindAccountByID retrieves a company's account by its immutable id.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts of a company keyed by id.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCode resolves an account by its display code.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// ListAccounts retrieves the full chart of accounts for a company.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// FindRetainedEarningsAccount returns the company's account flagged as
	// the closing target, or ErrNotFound when none is configured.
	FindRetainedEarningsAccount(ctx context.Context, companyID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
