package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const assetColumns = `asset_id, company_id, asset_code, name, cost, salvage_value, useful_life_years, start_use_date, purchase_date, status, sold_date, accumulated_depreciation, net_book_value, purchase_entry_id, asset_account_id, accum_dep_account_id, dep_expense_account_id, paid_account_id, gain_account_id, loss_account_id, proceeds_account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxFixedAssetRepository struct {
	BaseRepository
}

// newPgxFixedAssetRepository creates a new repository for fixed asset data.
func newPgxFixedAssetRepository(pool *pgxpool.Pool) portsrepo.FixedAssetRepositoryFacade {
	return &PgxFixedAssetRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.FixedAssetRepositoryFacade = (*PgxFixedAssetRepository)(nil)

func scanAsset(row pgx.Row) (*domain.FixedAsset, error) {
	var a domain.FixedAsset
	err := row.Scan(
		&a.AssetID,
		&a.CompanyID,
		&a.AssetCode,
		&a.Name,
		&a.Cost,
		&a.SalvageValue,
		&a.UsefulLifeYears,
		&a.StartUseDate,
		&a.PurchaseDate,
		&a.Status,
		&a.SoldDate,
		&a.AccumulatedDepreciation,
		&a.NetBookValue,
		&a.PurchaseEntryID,
		&a.Accounts.AssetAccountID,
		&a.Accounts.AccumDepAccountID,
		&a.Accounts.DepExpenseAccountID,
		&a.Accounts.PaidAccountID,
		&a.Accounts.GainAccountID,
		&a.Accounts.LossAccountID,
		&a.Accounts.ProceedsAccountID,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxFixedAssetRepository) SaveAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error {
	query := `
		INSERT INTO fixed_assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err := r.q(tx).Exec(ctx, query,
		asset.AssetID,
		asset.CompanyID,
		asset.AssetCode,
		asset.Name,
		asset.Cost,
		asset.SalvageValue,
		asset.UsefulLifeYears,
		asset.StartUseDate,
		asset.PurchaseDate,
		asset.Status,
		asset.SoldDate,
		asset.AccumulatedDepreciation,
		asset.NetBookValue,
		asset.PurchaseEntryID,
		asset.Accounts.AssetAccountID,
		asset.Accounts.AccumDepAccountID,
		asset.Accounts.DepExpenseAccountID,
		asset.Accounts.PaidAccountID,
		asset.Accounts.GainAccountID,
		asset.Accounts.LossAccountID,
		asset.Accounts.ProceedsAccountID,
		asset.CreatedAt,
		asset.CreatedBy,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asset code %s already exists", apperrors.ErrDuplicate, asset.AssetCode)
		}
		return fmt.Errorf("failed to save asset %s: %w", asset.AssetID, err)
	}
	return nil
}

func (r *PgxFixedAssetRepository) UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error {
	query := `
		UPDATE fixed_assets
		SET status = $3, sold_date = $4, accumulated_depreciation = $5, net_book_value = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE company_id = $1 AND asset_id = $2;
	`
	tag, err := r.q(tx).Exec(ctx, query,
		asset.CompanyID,
		asset.AssetID,
		asset.Status,
		asset.SoldDate,
		asset.AccumulatedDepreciation,
		asset.NetBookValue,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", asset.AssetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFixedAssetRepository) DeleteAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error {
	tag, err := r.q(tx).Exec(ctx, `DELETE FROM fixed_assets WHERE company_id = $1 AND asset_id = $2;`, companyID, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", assetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFixedAssetRepository) FindAssetByID(ctx context.Context, companyID, assetID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE company_id = $1 AND asset_id = $2;`
	asset, err := scanAsset(r.Pool.QueryRow(ctx, query, companyID, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset %s: %w", assetID, err)
	}
	return asset, nil
}

func (r *PgxFixedAssetRepository) FindAssetByPurchaseEntry(ctx context.Context, companyID, entryID string) (*domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE company_id = $1 AND purchase_entry_id = $2;`
	asset, err := scanAsset(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find asset by purchase entry %s: %w", entryID, err)
	}
	return asset, nil
}

func (r *PgxFixedAssetRepository) ListAssets(ctx context.Context, companyID string) ([]domain.FixedAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM fixed_assets WHERE company_id = $1 ORDER BY asset_code;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.FixedAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return assets, nil
}
