package repositories

import (
	"context"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal entries and lines.
type JournalReader interface {
	// FindEntryByID retrieves a company's journal entry with its lines.
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a company using
	// token-based pagination. Lines are not populated.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// FindPostedEntriesByYear loads all posted entries (with lines) dated in
	// the given calendar year. Closing-sourced entries are excluded unless
	// includeClosing is set.
	FindPostedEntriesByYear(ctx context.Context, tx pgx.Tx, companyID string, year int, includeClosing bool) ([]domain.JournalEntry, error)

	// HasPostedEntriesInYear reports whether any posted entry is dated in the
	// given year.
	HasPostedEntriesInYear(ctx context.Context, tx pgx.Tx, companyID string, year int) (bool, error)

	// ReferenceExists reports whether another entry of the company already
	// uses the reference. excludeEntryID may be empty.
	ReferenceExists(ctx context.Context, companyID, reference, excludeEntryID string) (bool, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// SaveEntry persists an entry and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveEntryInTx persists an entry and its lines inside a caller-owned
	// transaction scope.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// ReplaceEntry updates an entry's header and replaces all of its lines
	// atomically.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes an entry and its lines, cascading to the
	// depreciation ledger row backed by the entry when one exists.
	DeleteEntry(ctx context.Context, companyID, entryID string) error

	// DeleteEntryInTx removes a single entry inside a caller-owned scope.
	DeleteEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) error

	// DeleteEntriesBySourceRefInTx removes every entry of the company whose
	// source is one of sources and whose sourceRefID matches.
	DeleteEntriesBySourceRefInTx(ctx context.Context, tx pgx.Tx, companyID, sourceRefID string, sources []domain.EntrySource) error

	// SetLockStateForYearInTx flips the lock flag on all posted entries dated
	// in the given year.
	SetLockStateForYearInTx(ctx context.Context, tx pgx.Tx, companyID string, year int, lock domain.LockState) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
