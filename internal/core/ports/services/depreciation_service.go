package services

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/dto"
)

// DepreciationSvcFacade defines fixed asset lifecycle operations: purchase,
// monthly depreciation posting, sale or disposal, and rollback.
type DepreciationSvcFacade interface {
	// CreateAsset registers an asset and posts its purchase entry
	// atomically.
	CreateAsset(ctx context.Context, companyID, userID string, req dto.CreateFixedAssetRequest) (dto.FixedAssetResponse, error)

	// GetAsset retrieves one asset.
	GetAsset(ctx context.Context, companyID, assetID string) (dto.FixedAssetResponse, error)

	// ListAssets retrieves all assets of the company.
	ListAssets(ctx context.Context, companyID string) ([]dto.FixedAssetResponse, error)

	// PreviewSchedule returns the full schedule with posted months marked.
	PreviewSchedule(ctx context.Context, companyID, assetID string) (dto.ScheduleResponse, error)

	// PostDepreciation posts the next schedule month: one ledger row plus
	// its backing journal entry.
	PostDepreciation(ctx context.Context, companyID, userID, assetID string, req dto.PostDepreciationRequest) (dto.JournalEntryResponse, error)

	// SellAsset back-fills depreciation through the sale date, then posts
	// the sale entry with its gain or loss line.
	SellAsset(ctx context.Context, companyID, userID, assetID string, req dto.SellAssetRequest) (dto.DisposalResult, error)

	// DisposeAsset writes the asset off with no proceeds.
	DisposeAsset(ctx context.Context, companyID, userID, assetID string, req dto.DisposeAssetRequest) (dto.DisposalResult, error)

	// RollbackAsset deletes the asset's depreciation and sale postings and
	// restores it to ACTIVE; with deleteAsset the purchase entry and the
	// asset itself are removed too.
	RollbackAsset(ctx context.Context, companyID, userID, assetID string, deleteAsset bool) error
}
