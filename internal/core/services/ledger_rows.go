package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/LattanaDev/laobooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// yearLedger is the fully computed balance state of one company year:
// per-account rows with parent rollup and normalized ending balances. Own
// holds the pre-rollup rows, where a parent account carries only the amounts
// posted to it directly.
type yearLedger struct {
	Accounts []domain.Account
	Index    map[string][]string
	Rows     map[string]*accounting.Row
	Own      map[string]*accounting.Row
}

// computeYearLedger loads a year's accounts, opening balances and posted
// entries and runs the full balance pipeline: init, apply openings, apply
// movements, roll up the tree, normalize endings. A nil tx reads from the
// pool; inside a close transaction the caller's tx keeps the reads
// consistent with its writes.
func computeYearLedger(
	ctx context.Context,
	tx pgx.Tx,
	accountRepo portsrepo.AccountReader,
	openingRepo portsrepo.OpeningBalanceRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	companyID string,
	year int,
	includeClosing bool,
) (*yearLedger, error) {
	accounts, err := accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	openings, err := openingRepo.ListByYear(ctx, tx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening balances: %w", err)
	}

	entries, err := journalRepo.FindPostedEntriesByYear(ctx, tx, companyID, year, includeClosing)
	if err != nil {
		return nil, fmt.Errorf("failed to load posted entries: %w", err)
	}

	rows := accounting.InitRows(accounts)
	if err := accounting.ApplyOpening(rows, openings); err != nil {
		return nil, err
	}
	if err := accounting.ApplyMovements(rows, entries); err != nil {
		return nil, err
	}

	// Snapshot before rollup: parents here hold only their own postings.
	own := make(map[string]*accounting.Row, len(rows))
	for id, row := range rows {
		c := *row
		own[id] = &c
	}

	index := accounting.BuildChildIndex(accounts)
	if err := accounting.RollUp(rows, index); err != nil {
		return nil, err
	}
	accounting.ComputeEnding(rows)
	accounting.ComputeEnding(own)

	return &yearLedger{Accounts: accounts, Index: index, Rows: rows, Own: own}, nil
}

// leafNet returns the signed net balance of a row relative to the given
// side: ending on that side minus ending on the opposite side.
func leafNet(row *accounting.Row, side domain.NormalSide) decimal.Decimal {
	if side == domain.NormalDebit {
		return row.EndingDr.Sub(row.EndingCr)
	}
	return row.EndingCr.Sub(row.EndingDr)
}
