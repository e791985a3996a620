package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/LattanaDev/laobooks_backend/internal/utils/accounting"
)

// accountService provides chart-of-accounts and ledger reporting operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	openingRepo portsrepo.OpeningBalanceRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	auditSink   portsrepo.AuditSink
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	openingRepo portsrepo.OpeningBalanceRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	auditSink portsrepo.AuditSink,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		openingRepo: openingRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		auditSink:   auditSink,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID, userID string, req dto.CreateAccountRequest) (dto.AccountResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	normalSide := domain.NormalSide(req.NormalSide)
	if req.NormalSide == "" {
		normalSide = domain.DefaultNormalSide(accountType)
	}

	var parentID *string
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, companyID, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return dto.AccountResponse{}, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, req.ParentAccountID)
			}
			return dto.AccountResponse{}, fmt.Errorf("failed to resolve parent account: %w", err)
		}
		if parent.AccountType != accountType {
			return dto.AccountResponse{}, fmt.Errorf("%w: parent account %s has type %s, child has type %s",
				apperrors.ErrValidation, parent.Code, parent.AccountType, accountType)
		}
		parentID = &parent.AccountID
	}

	if req.IsRetainedEarning {
		if accountType != domain.Equity {
			return dto.AccountResponse{}, fmt.Errorf("%w: retained earnings account must be of type EQUITY", apperrors.ErrValidation)
		}
		existing, err := s.accountRepo.FindRetainedEarningsAccount(ctx, companyID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return dto.AccountResponse{}, fmt.Errorf("failed to check retained earnings account: %w", err)
		}
		if existing != nil {
			return dto.AccountResponse{}, fmt.Errorf("%w: retained earnings account already configured (%s)", apperrors.ErrDuplicate, existing.Code)
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		CompanyID:         companyID,
		Code:              req.Code,
		Name:              req.Name,
		AccountType:       accountType,
		NormalSide:        normalSide,
		ParentAccountID:   parentID,
		Description:       req.Description,
		IsRetainedEarning: req.IsRetainedEarning,
		IsActive:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return dto.AccountResponse{}, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	publishAudit(ctx, s.auditSink, companyID, userID, "account.create", "account", account.AccountID, map[string]any{
		"code": account.Code,
		"type": string(account.AccountType),
	})
	return dto.ToAccountResponse(&account), nil
}

func (s *accountService) GetAccount(ctx context.Context, companyID, accountID string) (dto.AccountResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return dto.AccountResponse{}, fmt.Errorf("failed to get account: %w", err)
	}
	return dto.ToAccountResponse(account), nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]dto.AccountResponse, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	resp := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, dto.ToAccountResponse(&accounts[i]))
	}
	return resp, nil
}

func (s *accountService) SaveOpeningBalance(ctx context.Context, companyID, userID string, req dto.CreateOpeningBalanceRequest) error {
	if req.Debit.IsNegative() || req.Credit.IsNegative() {
		return fmt.Errorf("%w: opening balance amounts must not be negative", apperrors.ErrValidation)
	}
	if req.Debit.IsPositive() && req.Credit.IsPositive() {
		return fmt.Errorf("%w: opening balance must be on a single side", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, req.AccountID); err != nil {
		return fmt.Errorf("failed to resolve account: %w", err)
	}

	period, err := s.periodRepo.FindPeriod(ctx, nil, companyID, req.Year)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check period state: %w", err)
	}
	if period != nil && period.IsClosed {
		return fmt.Errorf("%w: year %d is closed", apperrors.ErrConflict, req.Year)
	}

	now := time.Now()
	ob := domain.OpeningBalance{
		OpeningBalanceID: uuid.NewString(),
		CompanyID:        companyID,
		AccountID:        req.AccountID,
		Year:             req.Year,
		Debit:            req.Debit.Round(2),
		Credit:           req.Credit.Round(2),
		Note:             req.Note,
		IsCarryForward:   false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.openingRepo.SaveOpeningBalance(ctx, ob); err != nil {
		return fmt.Errorf("failed to save opening balance: %w", err)
	}

	publishAudit(ctx, s.auditSink, companyID, userID, "opening_balance.create", "opening_balance", ob.OpeningBalanceID, map[string]any{
		"account_id": ob.AccountID,
		"year":       ob.Year,
	})
	return nil
}

func (s *accountService) ListOpeningBalances(ctx context.Context, companyID string, year int) ([]dto.OpeningBalanceResponse, error) {
	rows, err := s.openingRepo.ListByYear(ctx, nil, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening balances for year %d: %w", year, err)
	}
	resp := make([]dto.OpeningBalanceResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ToOpeningBalanceResponse(&rows[i]))
	}
	return resp, nil
}

func (s *accountService) LedgerReport(ctx context.Context, companyID string, year int) (*dto.LedgerReportResponse, error) {
	ledger, err := computeYearLedger(ctx, nil, s.accountRepo, s.openingRepo, s.journalRepo, companyID, year, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compute ledger for year %d: %w", year, err)
	}

	resp := &dto.LedgerReportResponse{
		Year: year,
		Rows: make([]dto.LedgerReportRow, 0, len(ledger.Accounts)),
	}
	for _, acc := range ledger.Accounts {
		row := ledger.Rows[acc.AccountID]
		if row == nil {
			continue
		}
		resp.Rows = append(resp.Rows, dto.ToLedgerReportRow(acc, row, accounting.IsLeaf(acc.AccountID, ledger.Index)))
	}
	sort.Slice(resp.Rows, func(i, j int) bool { return resp.Rows[i].Code < resp.Rows[j].Code })
	resp.Totals = dto.ToLedgerReportTotals(accounting.CalculateTotals(ledger.Rows, ledger.Index))

	return resp, nil
}
