package services

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/dto"
)

// AccountSvcFacade defines chart-of-accounts and ledger reporting
// operations.
type AccountSvcFacade interface {
	// CreateAccount creates a chart-of-accounts node for the company.
	CreateAccount(ctx context.Context, companyID, userID string, req dto.CreateAccountRequest) (dto.AccountResponse, error)

	// GetAccount retrieves one account by id.
	GetAccount(ctx context.Context, companyID, accountID string) (dto.AccountResponse, error)

	// ListAccounts retrieves the company's full chart of accounts.
	ListAccounts(ctx context.Context, companyID string) ([]dto.AccountResponse, error)

	// SaveOpeningBalance records a manual opening balance for one account
	// and year.
	SaveOpeningBalance(ctx context.Context, companyID, userID string, req dto.CreateOpeningBalanceRequest) error

	// ListOpeningBalances retrieves the company's opening balance rows for a
	// year, manual and carried-forward alike.
	ListOpeningBalances(ctx context.Context, companyID string, year int) ([]dto.OpeningBalanceResponse, error)

	// LedgerReport computes the yearly ledger: opening, movement and ending
	// per account with parent rollup and leaf-level totals.
	LedgerReport(ctx context.Context, companyID string, year int) (*dto.LedgerReportResponse, error)
}
