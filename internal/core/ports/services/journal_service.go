package services

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/dto"
)

// JournalSvcFacade defines journal entry lifecycle operations. All writes
// enforce the balance invariant and the closed-period guard.
type JournalSvcFacade interface {
	// CreateEntry validates and posts a manual journal entry.
	CreateEntry(ctx context.Context, companyID, userID string, req dto.CreateJournalEntryRequest) (dto.JournalEntryResponse, error)

	// GetEntry retrieves one entry with its lines.
	GetEntry(ctx context.Context, companyID, entryID string) (dto.JournalEntryResponse, error)

	// ListEntries retrieves a page of entries without lines.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) (dto.ListEntriesResponse, error)

	// UpdateEntry replaces an unlocked entry's header and lines after full
	// revalidation.
	UpdateEntry(ctx context.Context, companyID, userID, entryID string, req dto.UpdateJournalEntryRequest) (dto.JournalEntryResponse, error)

	// DeleteEntry removes an unlocked entry. Purchase entries backing a
	// fixed asset are refused; depreciation entries cascade their ledger row.
	DeleteEntry(ctx context.Context, companyID, userID, entryID string) error
}
