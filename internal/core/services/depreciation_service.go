package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
	"github.com/LattanaDev/laobooks_backend/internal/middleware"
	"github.com/LattanaDev/laobooks_backend/internal/utils/depreciation"
	"github.com/shopspring/decimal"
)

// depreciationService manages the fixed asset lifecycle.
type depreciationService struct {
	assetRepo     portsrepo.FixedAssetRepositoryFacade
	depLedgerRepo portsrepo.DepreciationLedgerRepositoryFacade
	journalRepo   portsrepo.JournalRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	periodRepo    portsrepo.PeriodRepositoryFacade
	auditSink     portsrepo.AuditSink
	tx            portsrepo.Transactor
}

// NewDepreciationService creates a new depreciation service.
func NewDepreciationService(
	assetRepo portsrepo.FixedAssetRepositoryFacade,
	depLedgerRepo portsrepo.DepreciationLedgerRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	auditSink portsrepo.AuditSink,
	tx portsrepo.Transactor,
) portssvc.DepreciationSvcFacade {
	return &depreciationService{
		assetRepo:     assetRepo,
		depLedgerRepo: depLedgerRepo,
		journalRepo:   journalRepo,
		accountRepo:   accountRepo,
		periodRepo:    periodRepo,
		auditSink:     auditSink,
		tx:            tx,
	}
}

var _ portssvc.DepreciationSvcFacade = (*depreciationService)(nil)

// guardOpenYearInTx refuses postings dated in a closed accounting year.
func (s *depreciationService) guardOpenYearInTx(ctx context.Context, tx pgx.Tx, companyID string, year int) error {
	period, err := s.periodRepo.FindPeriod(ctx, tx, companyID, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check period state: %w", err)
	}
	if period.IsClosed {
		return fmt.Errorf("%w: year %d is closed", apperrors.ErrConflict, year)
	}
	return nil
}

func (s *depreciationService) CreateAsset(ctx context.Context, companyID, userID string, req dto.CreateFixedAssetRequest) (dto.FixedAssetResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Cost.IsPositive() {
		return dto.FixedAssetResponse{}, fmt.Errorf("%w: cost must be positive", apperrors.ErrValidation)
	}
	if req.SalvageValue.IsNegative() || req.SalvageValue.GreaterThanOrEqual(req.Cost) {
		return dto.FixedAssetResponse{}, fmt.Errorf("%w: salvage value must be non-negative and less than cost", apperrors.ErrValidation)
	}
	if req.StartUseDate.Before(req.PurchaseDate) {
		return dto.FixedAssetResponse{}, fmt.Errorf("%w: start of use cannot precede purchase", apperrors.ErrValidation)
	}

	required := []string{req.AssetAccountID, req.AccumDepAccountID, req.DepExpenseAccountID, req.PaidAccountID}
	optional := []*string{}
	for _, id := range []string{req.GainAccountID, req.LossAccountID, req.ProceedsAccountID} {
		if id != "" {
			required = append(required, id)
			v := id
			optional = append(optional, &v)
		} else {
			optional = append(optional, nil)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, required)
	if err != nil {
		return dto.FixedAssetResponse{}, fmt.Errorf("failed to resolve asset accounts: %w", err)
	}
	for _, id := range required {
		if _, ok := accounts[id]; !ok {
			return dto.FixedAssetResponse{}, fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
	}

	now := time.Now()
	cost := req.Cost.Round(2)
	asset := domain.FixedAsset{
		AssetID:                 uuid.NewString(),
		CompanyID:               companyID,
		AssetCode:               req.AssetCode,
		Name:                    req.Name,
		Cost:                    cost,
		SalvageValue:            req.SalvageValue.Round(2),
		UsefulLifeYears:         req.UsefulLifeYears,
		StartUseDate:            req.StartUseDate,
		PurchaseDate:            req.PurchaseDate,
		Status:                  domain.AssetActive,
		AccumulatedDepreciation: decimal.Zero,
		NetBookValue:            cost,
		Accounts: domain.AssetAccounts{
			AssetAccountID:      req.AssetAccountID,
			AccumDepAccountID:   req.AccumDepAccountID,
			DepExpenseAccountID: req.DepExpenseAccountID,
			PaidAccountID:       req.PaidAccountID,
			GainAccountID:       optional[0],
			LossAccountID:       optional[1],
			ProceedsAccountID:   optional[2],
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.guardOpenYearInTx(ctx, tx, companyID, req.PurchaseDate.Year()); err != nil {
			return err
		}

		entry := s.buildAssetEntry(companyID, userID, asset.AssetID, req.PurchaseDate,
			fmt.Sprintf("Purchase of asset %s", asset.AssetCode), domain.SourceAssetPurchase, now,
			systemLine("", asset.Accounts.AssetAccountID, domain.Debit, cost, userID, now),
			systemLine("", asset.Accounts.PaidAccountID, domain.Credit, cost, userID, now),
		)
		if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to save purchase entry: %w", err)
		}

		asset.PurchaseEntryID = &entry.EntryID
		if err := s.assetRepo.SaveAssetInTx(ctx, tx, asset); err != nil {
			return fmt.Errorf("failed to save asset: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.FixedAssetResponse{}, err
	}

	logger.Info("Fixed asset created",
		slog.String("asset_id", asset.AssetID),
		slog.String("asset_code", asset.AssetCode),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "asset.create", "fixed_asset", asset.AssetID, map[string]any{
		"asset_code": asset.AssetCode,
		"cost":       asset.Cost.String(),
	})
	return dto.ToFixedAssetResponse(&asset), nil
}

// buildAssetEntry assembles a system-generated journal entry tied to an
// asset. Line EntryIDs are stamped here.
func (s *depreciationService) buildAssetEntry(companyID, userID, assetID string, date time.Time, description string, source domain.EntrySource, now time.Time, lines ...domain.EntryLine) domain.JournalEntry {
	entryID := uuid.NewString()
	for i := range lines {
		lines[i].EntryID = entryID
	}
	return domain.JournalEntry{
		EntryID:     entryID,
		CompanyID:   companyID,
		EntryDate:   date,
		Description: description,
		Status:      domain.Posted,
		LockState:   domain.Unlocked,
		Source:      source,
		SourceRefID: &assetID,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *depreciationService) GetAsset(ctx context.Context, companyID, assetID string) (dto.FixedAssetResponse, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, companyID, assetID)
	if err != nil {
		return dto.FixedAssetResponse{}, fmt.Errorf("failed to get asset: %w", err)
	}
	return dto.ToFixedAssetResponse(asset), nil
}

func (s *depreciationService) ListAssets(ctx context.Context, companyID string) ([]dto.FixedAssetResponse, error) {
	assets, err := s.assetRepo.ListAssets(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	resp := make([]dto.FixedAssetResponse, 0, len(assets))
	for i := range assets {
		resp = append(resp, dto.ToFixedAssetResponse(&assets[i]))
	}
	return resp, nil
}

func (s *depreciationService) PreviewSchedule(ctx context.Context, companyID, assetID string) (dto.ScheduleResponse, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, companyID, assetID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("failed to get asset: %w", err)
	}
	posted, err := s.depLedgerRepo.ListByAsset(ctx, companyID, assetID)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("failed to list posted depreciation: %w", err)
	}

	postedByPeriod := make(map[depreciation.YearMonth]domain.DepreciationLedger, len(posted))
	for _, row := range posted {
		postedByPeriod[depreciation.YearMonth{Year: row.Year, Month: row.Month}] = row
	}

	months := depreciation.Schedule(*asset)
	for i := range months {
		if row, ok := postedByPeriod[months[i].YearMonth]; ok {
			// The ledger is authoritative for months already posted.
			months[i].Amount = row.DepreciationAmount
			months[i].Status = depreciation.StatusPosted
		}
	}
	return dto.ScheduleResponse{AssetID: assetID, Months: months}, nil
}

// nextPostablePeriod returns the month that must be posted next: the month
// after the last posted one, or the first month of use.
func (s *depreciationService) nextPostablePeriod(ctx context.Context, tx pgx.Tx, asset *domain.FixedAsset) (depreciation.YearMonth, error) {
	last, ok, err := s.depLedgerRepo.LastPostedPeriod(ctx, tx, asset.CompanyID, asset.AssetID)
	if err != nil {
		return depreciation.YearMonth{}, fmt.Errorf("failed to find last posted period: %w", err)
	}
	if !ok {
		return depreciation.Of(asset.StartUseDate), nil
	}
	return last.Next(), nil
}

// postOneMonth writes one depreciation month inside the caller's
// transaction: journal entry, ledger row and asset totals. The caller has
// already validated sequencing and period state. Returns the entry, which is
// nil for a zero-amount month.
func (s *depreciationService) postOneMonth(ctx context.Context, tx pgx.Tx, asset *domain.FixedAsset, userID string, ym depreciation.YearMonth, now time.Time) (*domain.JournalEntry, error) {
	sm := depreciation.MonthFor(*asset, ym)

	amount := sm.Amount
	// Rounding drift never pushes accumulated depreciation past the base.
	remaining := asset.DepreciableBase().Sub(asset.AccumulatedDepreciation)
	if amount.GreaterThan(remaining) {
		amount = remaining
	}
	if !amount.IsPositive() {
		// Only the sale back-fill reaches here, when the base is exhausted
		// before the event month. The zero row keeps the sequence intact.
		row := domain.DepreciationLedger{
			LedgerID:           uuid.NewString(),
			AssetID:            asset.AssetID,
			CompanyID:          asset.CompanyID,
			Year:               ym.Year,
			Month:              ym.Month,
			DepreciationAmount: decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.depLedgerRepo.InsertInTx(ctx, tx, row); err != nil {
			return nil, fmt.Errorf("failed to insert depreciation ledger row: %w", err)
		}
		return nil, nil
	}

	entryDate := time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	entry := s.buildAssetEntry(asset.CompanyID, userID, asset.AssetID, entryDate,
		fmt.Sprintf("Depreciation %s for asset %s", ym, asset.AssetCode), domain.SourceDepreciation, now,
		systemLine("", asset.Accounts.DepExpenseAccountID, domain.Debit, amount, userID, now),
		systemLine("", asset.Accounts.AccumDepAccountID, domain.Credit, amount, userID, now),
	)
	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to save depreciation entry: %w", err)
	}

	row := domain.DepreciationLedger{
		LedgerID:           uuid.NewString(),
		AssetID:            asset.AssetID,
		CompanyID:          asset.CompanyID,
		Year:               ym.Year,
		Month:              ym.Month,
		DepreciationAmount: amount,
		EntryID:            entry.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.depLedgerRepo.InsertInTx(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("failed to insert depreciation ledger row: %w", err)
	}

	asset.AccumulatedDepreciation = asset.AccumulatedDepreciation.Add(amount)
	asset.NetBookValue = asset.Cost.Sub(asset.AccumulatedDepreciation)
	asset.LastUpdatedAt = now
	asset.LastUpdatedBy = userID
	return &entry, nil
}

func (s *depreciationService) PostDepreciation(ctx context.Context, companyID, userID, assetID string, req dto.PostDepreciationRequest) (dto.JournalEntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var entry *domain.JournalEntry
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		asset, err := s.assetRepo.FindAssetByID(ctx, companyID, assetID)
		if err != nil {
			return fmt.Errorf("failed to get asset: %w", err)
		}
		if asset.Status != domain.AssetActive {
			return fmt.Errorf("%w: asset %s is %s", apperrors.ErrConflict, asset.AssetCode, asset.Status)
		}

		ym := depreciation.YearMonth{Year: req.Year, Month: req.Month}
		next, err := s.nextPostablePeriod(ctx, tx, asset)
		if err != nil {
			return err
		}
		if ym != next {
			return fmt.Errorf("%w: next postable month for asset %s is %s", apperrors.ErrInvariant, asset.AssetCode, next)
		}
		if ym.After(depreciation.Of(asset.EndOfUsefulLife())) {
			return fmt.Errorf("%w: asset %s is past its useful life", apperrors.ErrConflict, asset.AssetCode)
		}
		if !asset.DepreciableBase().Sub(asset.AccumulatedDepreciation).IsPositive() {
			return fmt.Errorf("%w: asset %s is fully depreciated", apperrors.ErrConflict, asset.AssetCode)
		}
		if err := s.guardOpenYearInTx(ctx, tx, companyID, ym.Year); err != nil {
			return err
		}

		entry, err = s.postOneMonth(ctx, tx, asset, userID, ym, time.Now())
		if err != nil {
			return err
		}
		if err := s.assetRepo.UpdateAssetInTx(ctx, tx, *asset); err != nil {
			return fmt.Errorf("failed to update asset totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.JournalEntryResponse{}, err
	}
	if entry == nil {
		return dto.JournalEntryResponse{}, nil
	}

	logger.Info("Depreciation posted",
		slog.String("asset_id", assetID),
		slog.Int("year", req.Year),
		slog.Int("month", req.Month),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "depreciation.post", "fixed_asset", assetID, map[string]any{
		"year":  req.Year,
		"month": req.Month,
	})
	return dto.ToJournalEntryResponse(entry), nil
}

// disposeAsset runs the shared sale/disposal flow: back-fill depreciation
// through the event month, then post the derecognition entry.
func (s *depreciationService) disposeAsset(ctx context.Context, companyID, userID, assetID string, eventDate time.Time, proceeds decimal.Decimal, source domain.EntrySource, status domain.AssetStatus) (dto.DisposalResult, error) {
	var result dto.DisposalResult
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		asset, err := s.assetRepo.FindAssetByID(ctx, companyID, assetID)
		if err != nil {
			return fmt.Errorf("failed to get asset: %w", err)
		}
		if asset.Status != domain.AssetActive {
			return fmt.Errorf("%w: asset %s is %s", apperrors.ErrConflict, asset.AssetCode, asset.Status)
		}
		if eventDate.Before(asset.StartUseDate) {
			return fmt.Errorf("%w: event date precedes start of use", apperrors.ErrValidation)
		}
		if err := s.guardOpenYearInTx(ctx, tx, companyID, eventDate.Year()); err != nil {
			return err
		}

		// Cap proration at the event date for the back-filled months.
		eventDay := eventDate
		asset.SoldDate = &eventDay

		now := time.Now()
		eventYM := depreciation.Of(eventDate)
		lastYM := depreciation.Of(asset.EndOfUsefulLife())
		if lastYM.After(eventYM) {
			lastYM = eventYM
		}
		for {
			next, err := s.nextPostablePeriod(ctx, tx, asset)
			if err != nil {
				return err
			}
			if next.After(lastYM) {
				break
			}
			if err := s.guardOpenYearInTx(ctx, tx, companyID, next.Year); err != nil {
				return err
			}
			if _, err := s.postOneMonth(ctx, tx, asset, userID, next, now); err != nil {
				return err
			}
		}

		netBookValue := asset.Cost.Sub(asset.AccumulatedDepreciation)
		gainLoss := proceeds.Sub(netBookValue)

		lines := []domain.EntryLine{
			systemLine("", asset.Accounts.AssetAccountID, domain.Credit, asset.Cost, userID, now),
		}
		if asset.AccumulatedDepreciation.IsPositive() {
			lines = append(lines, systemLine("", asset.Accounts.AccumDepAccountID, domain.Debit, asset.AccumulatedDepreciation, userID, now))
		}
		if proceeds.IsPositive() {
			proceedsAccount := asset.Accounts.PaidAccountID
			if asset.Accounts.ProceedsAccountID != nil {
				proceedsAccount = *asset.Accounts.ProceedsAccountID
			}
			lines = append(lines, systemLine("", proceedsAccount, domain.Debit, proceeds, userID, now))
		}
		switch {
		case gainLoss.IsPositive():
			if asset.Accounts.GainAccountID == nil {
				return fmt.Errorf("%w: asset %s has no gain account configured", apperrors.ErrValidation, asset.AssetCode)
			}
			lines = append(lines, systemLine("", *asset.Accounts.GainAccountID, domain.Credit, gainLoss, userID, now))
		case gainLoss.IsNegative():
			if asset.Accounts.LossAccountID == nil {
				return fmt.Errorf("%w: asset %s has no loss account configured", apperrors.ErrValidation, asset.AssetCode)
			}
			lines = append(lines, systemLine("", *asset.Accounts.LossAccountID, domain.Debit, gainLoss.Abs(), userID, now))
		}

		verb := "Sale"
		if source == domain.SourceAssetDisposal {
			verb = "Disposal"
		}
		entry := s.buildAssetEntry(companyID, userID, assetID, eventDate,
			fmt.Sprintf("%s of asset %s", verb, asset.AssetCode), source, now, lines...)
		if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("failed to save %s entry: %w", verb, err)
		}

		asset.Status = status
		asset.NetBookValue = decimal.Zero
		asset.LastUpdatedAt = now
		asset.LastUpdatedBy = userID
		if err := s.assetRepo.UpdateAssetInTx(ctx, tx, *asset); err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}

		result = dto.DisposalResult{
			AssetID:      assetID,
			GainLoss:     gainLoss,
			NetBookValue: netBookValue,
			EntryID:      entry.EntryID,
		}
		return nil
	})
	if err != nil {
		return dto.DisposalResult{}, err
	}
	return result, nil
}

func (s *depreciationService) SellAsset(ctx context.Context, companyID, userID, assetID string, req dto.SellAssetRequest) (dto.DisposalResult, error) {
	if req.Proceeds.IsNegative() {
		return dto.DisposalResult{}, fmt.Errorf("%w: proceeds must not be negative", apperrors.ErrValidation)
	}
	result, err := s.disposeAsset(ctx, companyID, userID, assetID, req.EventDate, req.Proceeds, domain.SourceAssetSale, domain.AssetSold)
	if err != nil {
		return dto.DisposalResult{}, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Fixed asset sold",
		slog.String("asset_id", assetID),
		slog.String("gain_loss", result.GainLoss.String()),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "asset.sell", "fixed_asset", assetID, map[string]any{
		"proceeds":  req.Proceeds.String(),
		"gain_loss": result.GainLoss.String(),
	})
	return result, nil
}

func (s *depreciationService) DisposeAsset(ctx context.Context, companyID, userID, assetID string, req dto.DisposeAssetRequest) (dto.DisposalResult, error) {
	result, err := s.disposeAsset(ctx, companyID, userID, assetID, req.EventDate, decimal.Zero, domain.SourceAssetDisposal, domain.AssetDisposal)
	if err != nil {
		return dto.DisposalResult{}, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Fixed asset disposed",
		slog.String("asset_id", assetID),
		slog.String("loss", result.GainLoss.String()),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "asset.dispose", "fixed_asset", assetID, map[string]any{
		"loss": result.GainLoss.String(),
	})
	return result, nil
}

func (s *depreciationService) RollbackAsset(ctx context.Context, companyID, userID, assetID string, deleteAsset bool) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		asset, err := s.assetRepo.FindAssetByID(ctx, companyID, assetID)
		if err != nil {
			return fmt.Errorf("failed to get asset: %w", err)
		}

		latest, ok, err := s.periodRepo.LatestClosedYear(ctx, tx, companyID)
		if err != nil {
			return fmt.Errorf("failed to find latest closed year: %w", err)
		}
		if ok {
			rows, err := s.depLedgerRepo.ListByAsset(ctx, companyID, assetID)
			if err != nil {
				return fmt.Errorf("failed to list posted depreciation: %w", err)
			}
			for _, row := range rows {
				if row.Year <= latest {
					return fmt.Errorf("%w: depreciation %04d-%02d falls in a closed year", apperrors.ErrConflict, row.Year, row.Month)
				}
			}
			if asset.SoldDate != nil && asset.SoldDate.Year() <= latest {
				return fmt.Errorf("%w: sale falls in a closed year", apperrors.ErrConflict)
			}
			if deleteAsset && asset.PurchaseDate.Year() <= latest {
				return fmt.Errorf("%w: purchase falls in a closed year", apperrors.ErrConflict)
			}
		}

		sources := []domain.EntrySource{domain.SourceDepreciation, domain.SourceAssetSale, domain.SourceAssetDisposal}
		if err := s.journalRepo.DeleteEntriesBySourceRefInTx(ctx, tx, companyID, assetID, sources); err != nil {
			return fmt.Errorf("failed to delete asset entries: %w", err)
		}
		if err := s.depLedgerRepo.DeleteByAssetInTx(ctx, tx, companyID, assetID); err != nil {
			return fmt.Errorf("failed to delete depreciation ledger: %w", err)
		}

		if deleteAsset {
			if err := s.journalRepo.DeleteEntriesBySourceRefInTx(ctx, tx, companyID, assetID, []domain.EntrySource{domain.SourceAssetPurchase}); err != nil {
				return fmt.Errorf("failed to delete purchase entry: %w", err)
			}
			if err := s.assetRepo.DeleteAssetInTx(ctx, tx, companyID, assetID); err != nil {
				return fmt.Errorf("failed to delete asset: %w", err)
			}
			return nil
		}

		now := time.Now()
		asset.Status = domain.AssetActive
		asset.SoldDate = nil
		asset.AccumulatedDepreciation = decimal.Zero
		asset.NetBookValue = asset.Cost
		asset.LastUpdatedAt = now
		asset.LastUpdatedBy = userID
		if err := s.assetRepo.UpdateAssetInTx(ctx, tx, *asset); err != nil {
			return fmt.Errorf("failed to reset asset: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Fixed asset rolled back",
		slog.String("asset_id", assetID),
		slog.Bool("deleted", deleteAsset),
	)
	publishAudit(ctx, s.auditSink, companyID, userID, "asset.rollback", "fixed_asset", assetID, map[string]any{
		"deleted": deleteAsset,
	})
	return nil
}
