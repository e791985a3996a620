package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/LattanaDev/laobooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, company_id, entry_date, description, reference, status, lock_state, source, source_ref_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, side, currency_code, exchange_rate, amount_original, amount_base, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.CompanyID,
		&e.EntryDate,
		&e.Description,
		&e.Reference,
		&e.Status,
		&e.LockState,
		&e.Source,
		&e.SourceRefID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanLine(row pgx.Row) (*domain.EntryLine, error) {
	var l domain.EntryLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.Side,
		&l.CurrencyCode,
		&l.ExchangeRate,
		&l.AmountOriginal,
		&l.AmountBase,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// loadLines attaches lines to the given entries, preserving entry order.
func (r *PgxJournalRepository) loadLines(ctx context.Context, q querier, entries []*domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[string]*domain.JournalEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.EntryID] = e
		ids = append(ids, e.EntryID)
	}

	query := `SELECT ` + lineColumns + ` FROM entry_lines WHERE entry_id = ANY($1) ORDER BY created_at, line_id;`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query entry lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return fmt.Errorf("failed to scan entry line: %w", err)
		}
		entry := byID[line.EntryID]
		entry.Lines = append(entry.Lines, *line)
	}
	return rows.Err()
}

func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return r.SaveEntryInTx(ctx, tx, entry)
	})
}

func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.q(tx).Exec(ctx, query,
		entry.EntryID,
		entry.CompanyID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.Status,
		entry.LockState,
		entry.Source,
		entry.SourceRefID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reference %q already in use", apperrors.ErrDuplicate, entry.Reference)
		}
		return fmt.Errorf("failed to save journal entry %s: %w", entry.EntryID, err)
	}
	return r.insertLines(ctx, tx, entry.Lines)
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, tx pgx.Tx, lines []domain.EntryLine) error {
	query := `
		INSERT INTO entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		_, err := r.q(tx).Exec(ctx, query,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Side,
			line.CurrencyCode,
			line.ExchangeRate,
			line.AmountOriginal,
			line.AmountBase,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to save entry line %s: %w", line.LineID, err)
		}
	}
	return nil
}

func (r *PgxJournalRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE journal_entries
			SET entry_date = $3, description = $4, reference = $5, last_updated_at = $6, last_updated_by = $7
			WHERE company_id = $1 AND entry_id = $2;
		`
		tag, err := tx.Exec(ctx, query,
			entry.CompanyID,
			entry.EntryID,
			entry.EntryDate,
			entry.Description,
			entry.Reference,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: reference %q already in use", apperrors.ErrDuplicate, entry.Reference)
			}
			return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
			return fmt.Errorf("failed to delete old lines of entry %s: %w", entry.EntryID, err)
		}
		return r.insertLines(ctx, tx, entry.Lines)
	})
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if err := r.loadLines(ctx, r.Pool, []*domain.JournalEntry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1
	`
	args := []any{companyID}
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, entryDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

func yearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func (r *PgxJournalRepository) FindPostedEntriesByYear(ctx context.Context, tx pgx.Tx, companyID string, year int, includeClosing bool) ([]domain.JournalEntry, error) {
	start, end := yearBounds(year)
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND status = $2 AND entry_date >= $3 AND entry_date < $4
	`
	args := []any{companyID, domain.Posted, start, end}
	if !includeClosing {
		query += ` AND source <> $5`
		args = append(args, domain.SourceClosing)
	}
	query += ` ORDER BY entry_date, created_at;`

	rows, err := r.q(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries for year %d: %w", year, err)
	}
	defer rows.Close()

	var entryPtrs []*domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entryPtrs = append(entryPtrs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	rows.Close()

	if err := r.loadLines(ctx, r.q(tx), entryPtrs); err != nil {
		return nil, err
	}
	entries := make([]domain.JournalEntry, 0, len(entryPtrs))
	for _, e := range entryPtrs {
		entries = append(entries, *e)
	}
	return entries, nil
}

func (r *PgxJournalRepository) HasPostedEntriesInYear(ctx context.Context, tx pgx.Tx, companyID string, year int) (bool, error) {
	start, end := yearBounds(year)
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE company_id = $1 AND status = $2 AND entry_date >= $3 AND entry_date < $4
		);
	`
	var exists bool
	if err := r.q(tx).QueryRow(ctx, query, companyID, domain.Posted, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check entries for year %d: %w", year, err)
	}
	return exists, nil
}

func (r *PgxJournalRepository) ReferenceExists(ctx context.Context, companyID, reference, excludeEntryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE company_id = $1 AND reference = $2 AND entry_id <> $3
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, reference, excludeEntryID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reference %q: %w", reference, err)
	}
	return exists, nil
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, companyID, entryID string) error {
	return r.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return r.DeleteEntryInTx(ctx, tx, companyID, entryID)
	})
}

func (r *PgxJournalRepository) DeleteEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) error {
	// A depreciation entry's ledger row goes with it so the schedule can be
	// re-posted.
	if _, err := r.q(tx).Exec(ctx, `DELETE FROM depreciation_ledger WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID); err != nil {
		return fmt.Errorf("failed to delete depreciation ledger row for entry %s: %w", entryID, err)
	}
	if _, err := r.q(tx).Exec(ctx, `DELETE FROM entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}
	tag, err := r.q(tx).Exec(ctx, `DELETE FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) DeleteEntriesBySourceRefInTx(ctx context.Context, tx pgx.Tx, companyID, sourceRefID string, sources []domain.EntrySource) error {
	sourceStrs := make([]string, 0, len(sources))
	for _, s := range sources {
		sourceStrs = append(sourceStrs, string(s))
	}
	query := `
		DELETE FROM entry_lines
		WHERE entry_id IN (
			SELECT entry_id FROM journal_entries
			WHERE company_id = $1 AND source_ref_id = $2 AND source = ANY($3)
		);
	`
	if _, err := r.q(tx).Exec(ctx, query, companyID, sourceRefID, sourceStrs); err != nil {
		return fmt.Errorf("failed to delete lines by source ref %s: %w", sourceRefID, err)
	}
	query = `DELETE FROM journal_entries WHERE company_id = $1 AND source_ref_id = $2 AND source = ANY($3);`
	if _, err := r.q(tx).Exec(ctx, query, companyID, sourceRefID, sourceStrs); err != nil {
		return fmt.Errorf("failed to delete entries by source ref %s: %w", sourceRefID, err)
	}
	return nil
}

func (r *PgxJournalRepository) SetLockStateForYearInTx(ctx context.Context, tx pgx.Tx, companyID string, year int, lock domain.LockState) error {
	start, end := yearBounds(year)
	query := `
		UPDATE journal_entries
		SET lock_state = $2
		WHERE company_id = $1 AND status = $3 AND entry_date >= $4 AND entry_date < $5;
	`
	if _, err := r.q(tx).Exec(ctx, query, companyID, lock, domain.Posted, start, end); err != nil {
		return fmt.Errorf("failed to set lock state for year %d: %w", year, err)
	}
	return nil
}
