package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/LattanaDev/laobooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// baseCurrency is the ledger's base currency; system-generated entries
// (closing, depreciation, asset events) are always posted in it at rate 1.
const baseCurrency = "LAK"

// closingService closes and reopens accounting years.
type closingService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	openingRepo portsrepo.OpeningBalanceRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	auditSink   portsrepo.AuditSink
	tx          portsrepo.Transactor
}

// NewClosingService creates a new closing service.
func NewClosingService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	openingRepo portsrepo.OpeningBalanceRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	auditSink portsrepo.AuditSink,
	tx portsrepo.Transactor,
) portssvc.ClosingSvcFacade {
	return &closingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		openingRepo: openingRepo,
		periodRepo:  periodRepo,
		auditSink:   auditSink,
		tx:          tx,
	}
}

var _ portssvc.ClosingSvcFacade = (*closingService)(nil)

// systemLine builds a base-currency line for a system-generated entry.
func systemLine(entryID, accountID string, side domain.EntrySide, amount decimal.Decimal, userID string, now time.Time) domain.EntryLine {
	return domain.EntryLine{
		LineID:         uuid.NewString(),
		EntryID:        entryID,
		AccountID:      accountID,
		Side:           side,
		CurrencyCode:   baseCurrency,
		ExchangeRate:   decimal.NewFromInt(1),
		AmountOriginal: amount,
		AmountBase:     amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// guardSequentialClose enforces that years close strictly in order: after
// the first close, only latest+1 may close next.
func (s *closingService) guardSequentialClose(ctx context.Context, tx pgx.Tx, companyID string, year int) error {
	latest, ok, err := s.periodRepo.LatestClosedYear(ctx, tx, companyID)
	if err != nil {
		return fmt.Errorf("failed to find latest closed year: %w", err)
	}
	if ok && year != latest+1 {
		return fmt.Errorf("%w: year %d cannot close, next closable year is %d", apperrors.ErrInvariant, year, latest+1)
	}
	return nil
}

func (s *closingService) ClosePeriod(ctx context.Context, companyID, userID string, year int) (dto.PeriodResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var period domain.AccountingPeriod
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		existing, err := s.periodRepo.FindPeriodForUpdate(ctx, tx, companyID, year)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to lock period row: %w", err)
		}
		if existing != nil && existing.IsClosed {
			return fmt.Errorf("%w: year %d is already closed", apperrors.ErrConflict, year)
		}
		if err := s.guardSequentialClose(ctx, tx, companyID, year); err != nil {
			return err
		}

		ledger, err := computeYearLedger(ctx, tx, s.accountRepo, s.openingRepo, s.journalRepo, companyID, year, false)
		if err != nil {
			return fmt.Errorf("failed to compute ledger for year %d: %w", year, err)
		}

		accountsByID := make(map[string]domain.Account, len(ledger.Accounts))
		for _, acc := range ledger.Accounts {
			accountsByID[acc.AccountID] = acc
		}

		income := decimal.Zero
		expense := decimal.Zero
		for id, row := range ledger.Rows {
			acc := accountsByID[id]
			if !acc.IsTemporary() || !accounting.IsLeaf(id, ledger.Index) {
				continue
			}
			if acc.AccountType == domain.Income {
				income = income.Add(leafNet(row, domain.NormalCredit))
			} else {
				expense = expense.Add(leafNet(row, domain.NormalDebit))
			}
		}
		netProfit := income.Sub(expense)

		retained, err := s.accountRepo.FindRetainedEarningsAccount(ctx, companyID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to resolve retained earnings account: %w", err)
		}

		// Re-closing after a rollback must not duplicate the closing entry.
		yearRef := strconv.Itoa(year)
		if err := s.journalRepo.DeleteEntriesBySourceRefInTx(ctx, tx, companyID, yearRef, []domain.EntrySource{domain.SourceClosing}); err != nil {
			return fmt.Errorf("failed to remove stale closing entries: %w", err)
		}

		now := time.Now()
		closingEntry, err := buildClosingEntry(companyID, userID, year, netProfit, ledger, accountsByID, retained, now)
		if err != nil {
			return err
		}
		if closingEntry != nil {
			if err := s.journalRepo.SaveEntryInTx(ctx, tx, *closingEntry); err != nil {
				return fmt.Errorf("failed to save closing entry: %w", err)
			}
			// Fold the closing entry into the rows so carried-forward
			// balances include the retained earnings transfer and the
			// temporary accounts zero out.
			if err := accounting.ApplyMovements(ledger.Rows, []domain.JournalEntry{*closingEntry}); err != nil {
				return err
			}
			if err := accounting.ApplyMovements(ledger.Own, []domain.JournalEntry{*closingEntry}); err != nil {
				return err
			}
			accounting.ComputeEnding(ledger.Rows)
			accounting.ComputeEnding(ledger.Own)
		}

		if err := s.openingRepo.DeleteCarryForwardInTx(ctx, tx, companyID, year+1); err != nil {
			return fmt.Errorf("failed to clear stale carry-forward rows: %w", err)
		}
		carry := buildCarryForward(companyID, userID, year, ledger, accountsByID, retained, now)
		if len(carry) > 0 {
			if err := s.openingRepo.InsertManyInTx(ctx, tx, carry); err != nil {
				return fmt.Errorf("failed to insert carry-forward openings: %w", err)
			}
		}

		if err := s.journalRepo.SetLockStateForYearInTx(ctx, tx, companyID, year, domain.Locked); err != nil {
			return fmt.Errorf("failed to lock year %d entries: %w", year, err)
		}

		closedAt := now
		period = domain.AccountingPeriod{
			CompanyID: companyID,
			Year:      year,
			IsClosed:  true,
			ClosedAt:  &closedAt,
			ClosedBy:  &userID,
			Summary: domain.PeriodSummary{
				Income:    income,
				Expense:   expense,
				NetProfit: netProfit,
			},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if existing != nil {
			period.CreatedAt = existing.CreatedAt
			period.CreatedBy = existing.CreatedBy
		}
		if err := s.periodRepo.UpsertPeriodInTx(ctx, tx, period); err != nil {
			return fmt.Errorf("failed to persist period state: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.PeriodResponse{}, err
	}

	logger.Info("Accounting year closed",
		slog.Int("year", year),
		slog.String("net_profit", period.Summary.NetProfit.String()),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "period.close", "accounting_period", strconv.Itoa(year), map[string]any{
		"income":     period.Summary.Income.String(),
		"expense":    period.Summary.Expense.String(),
		"net_profit": period.Summary.NetProfit.String(),
	})
	return dto.ToPeriodResponse(&period), nil
}

// buildClosingEntry zeroes every leaf temporary account into retained
// earnings. Returns nil when the year has no temporary activity.
func buildClosingEntry(
	companyID, userID string,
	year int,
	netProfit decimal.Decimal,
	ledger *yearLedger,
	accountsByID map[string]domain.Account,
	retained *domain.Account,
	now time.Time,
) (*domain.JournalEntry, error) {
	entryID := uuid.NewString()
	var lines []domain.EntryLine
	for id, row := range ledger.Rows {
		acc := accountsByID[id]
		if !acc.IsTemporary() || !accounting.IsLeaf(id, ledger.Index) {
			continue
		}
		switch {
		case row.EndingDr.IsPositive():
			lines = append(lines, systemLine(entryID, id, domain.Credit, row.EndingDr, userID, now))
		case row.EndingCr.IsPositive():
			lines = append(lines, systemLine(entryID, id, domain.Debit, row.EndingCr, userID, now))
		}
	}
	if len(lines) == 0 && netProfit.IsZero() {
		return nil, nil
	}

	if retained == nil {
		return nil, fmt.Errorf("%w: no retained earnings account configured", apperrors.ErrValidation)
	}
	if netProfit.IsPositive() {
		lines = append(lines, systemLine(entryID, retained.AccountID, domain.Credit, netProfit, userID, now))
	} else if netProfit.IsNegative() {
		lines = append(lines, systemLine(entryID, retained.AccountID, domain.Debit, netProfit.Abs(), userID, now))
	}

	yearRef := strconv.Itoa(year)
	return &domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		EntryDate:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Description: fmt.Sprintf("Closing entry for year %d", year),
		Reference:   fmt.Sprintf("CLOSE-%d", year),
		Status:      domain.Posted,
		LockState:   domain.Locked,
		Source:      domain.SourceClosing,
		SourceRefID: &yearRef,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

// buildCarryForward turns each leaf permanent account's non-zero ending
// balance into an opening balance row for the next year. The retained
// earnings account is carried even when it has children: the closing
// transfer posts to it directly, so its own balance is taken from the
// pre-rollup rows.
func buildCarryForward(companyID, userID string, year int, ledger *yearLedger, accountsByID map[string]domain.Account, retained *domain.Account, now time.Time) []domain.OpeningBalance {
	var carry []domain.OpeningBalance
	for id, row := range ledger.Rows {
		acc := accountsByID[id]
		if acc.IsTemporary() || !accounting.IsLeaf(id, ledger.Index) {
			continue
		}
		if row.EndingDr.IsZero() && row.EndingCr.IsZero() {
			continue
		}
		carry = append(carry, carryForwardRow(companyID, userID, year, id, row, now))
	}
	if retained != nil && !accounting.IsLeaf(retained.AccountID, ledger.Index) {
		if row, ok := ledger.Own[retained.AccountID]; ok && !(row.EndingDr.IsZero() && row.EndingCr.IsZero()) {
			carry = append(carry, carryForwardRow(companyID, userID, year, retained.AccountID, row, now))
		}
	}
	return carry
}

func carryForwardRow(companyID, userID string, year int, accountID string, row *accounting.Row, now time.Time) domain.OpeningBalance {
	return domain.OpeningBalance{
		OpeningBalanceID: uuid.NewString(),
		CompanyID:        companyID,
		AccountID:        accountID,
		Year:             year + 1,
		Debit:            row.EndingDr,
		Credit:           row.EndingCr,
		Note:             fmt.Sprintf("Carried forward from %d", year),
		IsCarryForward:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *closingService) RollbackPeriod(ctx context.Context, companyID, userID string, year int) (dto.PeriodResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var period domain.AccountingPeriod
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		existing, err := s.periodRepo.FindPeriodForUpdate(ctx, tx, companyID, year)
		if err != nil {
			return fmt.Errorf("failed to load period: %w", err)
		}
		if !existing.IsClosed {
			return fmt.Errorf("%w: year %d is not closed", apperrors.ErrConflict, year)
		}

		latest, ok, err := s.periodRepo.LatestClosedYear(ctx, tx, companyID)
		if err != nil {
			return fmt.Errorf("failed to find latest closed year: %w", err)
		}
		if !ok || year != latest {
			return fmt.Errorf("%w: year %d is not the most recently closed year (%d)", apperrors.ErrInvariant, year, latest)
		}

		// Entries already posted into the next year depend on the
		// carried-forward openings about to be deleted.
		hasNext, err := s.journalRepo.HasPostedEntriesInYear(ctx, tx, companyID, year+1)
		if err != nil {
			return fmt.Errorf("failed to check year %d activity: %w", year+1, err)
		}
		if hasNext {
			return fmt.Errorf("%w: year %d already has posted entries", apperrors.ErrConflict, year+1)
		}

		yearRef := strconv.Itoa(year)
		if err := s.journalRepo.DeleteEntriesBySourceRefInTx(ctx, tx, companyID, yearRef, []domain.EntrySource{domain.SourceClosing}); err != nil {
			return fmt.Errorf("failed to delete closing entries: %w", err)
		}
		if err := s.openingRepo.DeleteCarryForwardInTx(ctx, tx, companyID, year+1); err != nil {
			return fmt.Errorf("failed to delete carry-forward openings: %w", err)
		}
		if err := s.journalRepo.SetLockStateForYearInTx(ctx, tx, companyID, year, domain.Unlocked); err != nil {
			return fmt.Errorf("failed to unlock year %d entries: %w", year, err)
		}

		now := time.Now()
		period = *existing
		period.IsClosed = false
		period.ClosedAt = nil
		period.ClosedBy = nil
		period.Summary = domain.PeriodSummary{
			Income:    decimal.Zero,
			Expense:   decimal.Zero,
			NetProfit: decimal.Zero,
		}
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
		if err := s.periodRepo.UpsertPeriodInTx(ctx, tx, period); err != nil {
			return fmt.Errorf("failed to persist period state: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.PeriodResponse{}, err
	}

	logger.Info("Accounting year reopened", slog.Int("year", year))
	publishAudit(ctx, s.auditSink, companyID, userID, "period.rollback", "accounting_period", strconv.Itoa(year), nil)
	return dto.ToPeriodResponse(&period), nil
}

func (s *closingService) ListPeriods(ctx context.Context, companyID string) ([]dto.PeriodResponse, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	resp := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		resp = append(resp, dto.ToPeriodResponse(&periods[i]))
	}
	return resp, nil
}
