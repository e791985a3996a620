package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/LattanaDev/laobooks_backend/internal/utils/depreciation"
	"github.com/jackc/pgx/v5"
)

// FixedAssetReader defines read operations for fixed assets.
type FixedAssetReader interface {
	// FindAssetByID retrieves a company's fixed asset by id.
	FindAssetByID(ctx context.Context, companyID, assetID string) (*domain.FixedAsset, error)

	// FindAssetByPurchaseEntry resolves the asset created by a purchase
	// journal entry, or ErrNotFound.
	FindAssetByPurchaseEntry(ctx context.Context, companyID, entryID string) (*domain.FixedAsset, error)

	// ListAssets retrieves all fixed assets of a company.
	ListAssets(ctx context.Context, companyID string) ([]domain.FixedAsset, error)
}

// FixedAssetWriter defines write operations for fixed assets.
type FixedAssetWriter interface {
	// SaveAssetInTx persists a new asset inside a caller-owned scope.
	SaveAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error

	// UpdateAssetInTx updates an asset's mutable state (status, totals,
	// sold date) inside a caller-owned scope.
	UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error

	// DeleteAssetInTx removes the asset record inside a caller-owned scope.
	DeleteAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error
}

// FixedAssetRepositoryFacade combines asset reader and writer.
type FixedAssetRepositoryFacade interface {
	FixedAssetReader
	FixedAssetWriter
}

// DepreciationLedgerRepositoryFacade persists the authoritative record of
// already-posted depreciation months. Rows are unique per
// (asset, year, month) by database constraint.
type DepreciationLedgerRepositoryFacade interface {
	// LastPostedPeriod returns the latest (year, month) posted for the asset,
	// or ok=false when nothing has been posted yet.
	LastPostedPeriod(ctx context.Context, tx pgx.Tx, companyID, assetID string) (depreciation.YearMonth, bool, error)

	// ListByAsset retrieves all posted rows for an asset ordered by period.
	ListByAsset(ctx context.Context, companyID, assetID string) ([]domain.DepreciationLedger, error)

	// InsertInTx appends one posted month inside a caller-owned scope.
	InsertInTx(ctx context.Context, tx pgx.Tx, row domain.DepreciationLedger) error

	// DeleteByAssetInTx removes every row of an asset inside a caller-owned
	// scope (asset rollback).
	DeleteByAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error
}
