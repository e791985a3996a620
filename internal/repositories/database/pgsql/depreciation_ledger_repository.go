package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/LattanaDev/laobooks_backend/internal/utils/depreciation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const depLedgerColumns = `ledger_id, asset_id, company_id, year, month, depreciation_amount, entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxDepreciationLedgerRepository struct {
	BaseRepository
}

// newPgxDepreciationLedgerRepository creates a new repository for posted
// depreciation months.
func newPgxDepreciationLedgerRepository(pool *pgxpool.Pool) portsrepo.DepreciationLedgerRepositoryFacade {
	return &PgxDepreciationLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DepreciationLedgerRepositoryFacade = (*PgxDepreciationLedgerRepository)(nil)

func (r *PgxDepreciationLedgerRepository) LastPostedPeriod(ctx context.Context, tx pgx.Tx, companyID, assetID string) (depreciation.YearMonth, bool, error) {
	query := `
		SELECT year, month FROM depreciation_ledger
		WHERE company_id = $1 AND asset_id = $2
		ORDER BY year DESC, month DESC
		LIMIT 1;
	`
	var ym depreciation.YearMonth
	err := r.q(tx).QueryRow(ctx, query, companyID, assetID).Scan(&ym.Year, &ym.Month)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return depreciation.YearMonth{}, false, nil
		}
		return depreciation.YearMonth{}, false, fmt.Errorf("failed to find last posted period for asset %s: %w", assetID, err)
	}
	return ym, true, nil
}

func (r *PgxDepreciationLedgerRepository) ListByAsset(ctx context.Context, companyID, assetID string) ([]domain.DepreciationLedger, error) {
	query := `SELECT ` + depLedgerColumns + ` FROM depreciation_ledger WHERE company_id = $1 AND asset_id = $2 ORDER BY year, month;`
	rows, err := r.Pool.Query(ctx, query, companyID, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list depreciation ledger for asset %s: %w", assetID, err)
	}
	defer rows.Close()

	var ledger []domain.DepreciationLedger
	for rows.Next() {
		var row domain.DepreciationLedger
		err := rows.Scan(
			&row.LedgerID,
			&row.AssetID,
			&row.CompanyID,
			&row.Year,
			&row.Month,
			&row.DepreciationAmount,
			&row.EntryID,
			&row.CreatedAt,
			&row.CreatedBy,
			&row.LastUpdatedAt,
			&row.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan depreciation ledger row: %w", err)
		}
		ledger = append(ledger, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating depreciation ledger rows: %w", err)
	}
	return ledger, nil
}

func (r *PgxDepreciationLedgerRepository) InsertInTx(ctx context.Context, tx pgx.Tx, row domain.DepreciationLedger) error {
	query := `
		INSERT INTO depreciation_ledger (` + depLedgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.q(tx).Exec(ctx, query,
		row.LedgerID,
		row.AssetID,
		row.CompanyID,
		row.Year,
		row.Month,
		row.DepreciationAmount,
		row.EntryID,
		row.CreatedAt,
		row.CreatedBy,
		row.LastUpdatedAt,
		row.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: depreciation for asset %s %04d-%02d already posted", apperrors.ErrDuplicate, row.AssetID, row.Year, row.Month)
		}
		return fmt.Errorf("failed to insert depreciation ledger row: %w", err)
	}
	return nil
}

func (r *PgxDepreciationLedgerRepository) DeleteByAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error {
	query := `DELETE FROM depreciation_ledger WHERE company_id = $1 AND asset_id = $2;`
	if _, err := r.q(tx).Exec(ctx, query, companyID, assetID); err != nil {
		return fmt.Errorf("failed to delete depreciation ledger for asset %s: %w", assetID, err)
	}
	return nil
}
