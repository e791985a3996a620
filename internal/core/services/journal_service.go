package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	maxEntryLines      = 1000
	defaultListLimit   = 50
	maxListLimit       = 100
	maxExchangeRateStr = "1000000"
)

// balanceTolerance absorbs per-line 2dp rounding; base totals further apart
// than this are rejected as unbalanced.
var balanceTolerance = decimal.RequireFromString("0.01")

var maxExchangeRate = decimal.RequireFromString(maxExchangeRateStr)

// journalService provides journal entry lifecycle operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	periodRepo  portsrepo.PeriodRepositoryFacade
	assetRepo   portsrepo.FixedAssetReader
	auditSink   portsrepo.AuditSink
}

// NewJournalService creates a new journal service.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	assetRepo portsrepo.FixedAssetReader,
	auditSink portsrepo.AuditSink,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		periodRepo:  periodRepo,
		assetRepo:   assetRepo,
		auditSink:   auditSink,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines validates the requested lines against account ownership, the
// currency set and the exchange rate bounds, derives 2dp base amounts and
// checks the balance invariant.
func (s *journalService) buildLines(ctx context.Context, companyID, entryID, userID string, reqLines []dto.EntryLineRequest, now time.Time) ([]domain.EntryLine, error) {
	if len(reqLines) == 0 {
		return nil, fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	}
	if len(reqLines) > maxEntryLines {
		return nil, fmt.Errorf("%w: entry exceeds %d lines", apperrors.ErrValidation, maxEntryLines)
	}

	accountIDs := make([]string, 0, len(reqLines))
	for _, line := range reqLines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve line accounts: %w", err)
	}

	lines := make([]domain.EntryLine, 0, len(reqLines))
	debitsSum := decimal.Zero
	creditsSum := decimal.Zero
	for i, req := range reqLines {
		account, ok := accounts[req.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: line %d references unknown account %s", apperrors.ErrValidation, i+1, req.AccountID)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: line %d uses inactive account %s", apperrors.ErrValidation, i+1, account.Code)
		}
		if !domain.IsAllowedCurrency(req.CurrencyCode) {
			return nil, fmt.Errorf("%w: line %d uses unsupported currency %s", apperrors.ErrValidation, i+1, req.CurrencyCode)
		}
		if !req.ExchangeRate.IsPositive() || req.ExchangeRate.GreaterThan(maxExchangeRate) {
			return nil, fmt.Errorf("%w: line %d exchange rate %s out of range (0, %s]", apperrors.ErrValidation, i+1, req.ExchangeRate, maxExchangeRateStr)
		}
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: line %d amount must be positive", apperrors.ErrValidation, i+1)
		}

		side := domain.EntrySide(req.Side)
		amountBase := req.Amount.Mul(req.ExchangeRate).Round(2)
		if side == domain.Debit {
			debitsSum = debitsSum.Add(amountBase)
		} else {
			creditsSum = creditsSum.Add(amountBase)
		}

		lines = append(lines, domain.EntryLine{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			AccountID:      req.AccountID,
			Side:           side,
			CurrencyCode:   req.CurrencyCode,
			ExchangeRate:   req.ExchangeRate,
			AmountOriginal: req.Amount,
			AmountBase:     amountBase,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	delta := debitsSum.Sub(creditsSum)
	if delta.Abs().GreaterThan(balanceTolerance) {
		return nil, fmt.Errorf("%w: entry is unbalanced, debits %s credits %s delta %s",
			apperrors.ErrInvariant, debitsSum, creditsSum, delta)
	}
	return lines, nil
}

// guardOpenYear refuses writes dated in a closed accounting year.
func (s *journalService) guardOpenYear(ctx context.Context, companyID string, date time.Time) error {
	period, err := s.periodRepo.FindPeriod(ctx, nil, companyID, date.Year())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check period state: %w", err)
	}
	if period.IsClosed {
		return fmt.Errorf("%w: year %d is closed", apperrors.ErrConflict, date.Year())
	}
	return nil
}

// guardUniqueReference refuses a non-empty reference already used by another
// entry of the company.
func (s *journalService) guardUniqueReference(ctx context.Context, companyID, reference, excludeEntryID string) error {
	if reference == "" {
		return nil
	}
	exists, err := s.journalRepo.ReferenceExists(ctx, companyID, reference, excludeEntryID)
	if err != nil {
		return fmt.Errorf("failed to check reference uniqueness: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: reference %q already in use", apperrors.ErrDuplicate, reference)
	}
	return nil
}

func (s *journalService) CreateEntry(ctx context.Context, companyID, userID string, req dto.CreateJournalEntryRequest) (dto.JournalEntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.guardOpenYear(ctx, companyID, req.Date); err != nil {
		return dto.JournalEntryResponse{}, err
	}
	if err := s.guardUniqueReference(ctx, companyID, req.Reference, ""); err != nil {
		return dto.JournalEntryResponse{}, err
	}

	now := time.Now()
	entryID := uuid.NewString()
	lines, err := s.buildLines(ctx, companyID, entryID, userID, req.Lines, now)
	if err != nil {
		return dto.JournalEntryResponse{}, err
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		EntryDate:   req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		Status:      domain.Posted,
		LockState:   domain.Unlocked,
		Source:      domain.SourceManual,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(entry.Lines)),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "journal.create", "journal_entry", entry.EntryID, map[string]any{
		"reference": entry.Reference,
		"lines":     len(entry.Lines),
	})
	return dto.ToJournalEntryResponse(&entry), nil
}

func (s *journalService) GetEntry(ctx context.Context, companyID, entryID string) (dto.JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return dto.ToJournalEntryResponse(entry), nil
}

func (s *journalService) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) (dto.ListEntriesResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, token, err := s.journalRepo.ListEntries(ctx, companyID, limit, nextToken)
	if err != nil {
		return dto.ListEntriesResponse{}, fmt.Errorf("failed to list journal entries: %w", err)
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, 0, len(entries)),
		NextToken: token,
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *journalService) UpdateEntry(ctx context.Context, companyID, userID, entryID string, req dto.UpdateJournalEntryRequest) (dto.JournalEntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("failed to load journal entry: %w", err)
	}
	if existing.IsLocked() {
		return dto.JournalEntryResponse{}, fmt.Errorf("%w: entry %s belongs to a closed year", apperrors.ErrConflict, entryID)
	}
	if existing.Source != domain.SourceManual {
		return dto.JournalEntryResponse{}, fmt.Errorf("%w: %s entries are system-managed", apperrors.ErrConflict, existing.Source)
	}

	if err := s.guardOpenYear(ctx, companyID, existing.EntryDate); err != nil {
		return dto.JournalEntryResponse{}, err
	}
	if err := s.guardOpenYear(ctx, companyID, req.Date); err != nil {
		return dto.JournalEntryResponse{}, err
	}
	if err := s.guardUniqueReference(ctx, companyID, req.Reference, entryID); err != nil {
		return dto.JournalEntryResponse{}, err
	}

	now := time.Now()
	lines, err := s.buildLines(ctx, companyID, entryID, userID, req.Lines, now)
	if err != nil {
		return dto.JournalEntryResponse{}, err
	}

	updated := *existing
	updated.EntryDate = req.Date
	updated.Description = req.Description
	updated.Reference = req.Reference
	updated.Lines = lines
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.journalRepo.ReplaceEntry(ctx, updated); err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("failed to replace journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID))
	publishAudit(ctx, s.auditSink, companyID, userID, "journal.update", "journal_entry", entryID, nil)
	return dto.ToJournalEntryResponse(&updated), nil
}

func (s *journalService) DeleteEntry(ctx context.Context, companyID, userID, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return fmt.Errorf("failed to load journal entry: %w", err)
	}
	if existing.IsLocked() {
		return fmt.Errorf("%w: entry %s belongs to a closed year", apperrors.ErrConflict, entryID)
	}
	if err := s.guardOpenYear(ctx, companyID, existing.EntryDate); err != nil {
		return err
	}

	switch existing.Source {
	case domain.SourceClosing:
		return fmt.Errorf("%w: closing entries are removed by period rollback", apperrors.ErrConflict)
	case domain.SourceAssetPurchase, domain.SourceAssetSale, domain.SourceAssetDisposal:
		return fmt.Errorf("%w: %s entries are removed by asset rollback", apperrors.ErrConflict, existing.Source)
	}

	// A purchase entry may predate the Source tagging; the asset link is
	// authoritative.
	if _, err := s.assetRepo.FindAssetByPurchaseEntry(ctx, companyID, entryID); err == nil {
		return fmt.Errorf("%w: entry %s backs a fixed asset purchase", apperrors.ErrConflict, entryID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check asset linkage: %w", err)
	}

	// Depreciation entries cascade their ledger row in the repository.
	if err := s.journalRepo.DeleteEntry(ctx, companyID, entryID); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	logger.Info("Journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("source", string(existing.Source)),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "journal.delete", "journal_entry", entryID, map[string]any{
		"source": string(existing.Source),
	})
	return nil
}
