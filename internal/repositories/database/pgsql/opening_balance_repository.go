package pgsql

import (
	"context"
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const openingColumns = `opening_balance_id, company_id, account_id, year, debit, credit, note, is_carry_forward, created_at, created_by, last_updated_at, last_updated_by`

type PgxOpeningBalanceRepository struct {
	BaseRepository
}

// newPgxOpeningBalanceRepository creates a new repository for opening
// balance data.
func newPgxOpeningBalanceRepository(pool *pgxpool.Pool) portsrepo.OpeningBalanceRepositoryFacade {
	return &PgxOpeningBalanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.OpeningBalanceRepositoryFacade = (*PgxOpeningBalanceRepository)(nil)

func (r *PgxOpeningBalanceRepository) insertOne(ctx context.Context, q querier, ob domain.OpeningBalance) error {
	query := `
		INSERT INTO opening_balances (` + openingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := q.Exec(ctx, query,
		ob.OpeningBalanceID,
		ob.CompanyID,
		ob.AccountID,
		ob.Year,
		ob.Debit,
		ob.Credit,
		ob.Note,
		ob.IsCarryForward,
		ob.CreatedAt,
		ob.CreatedBy,
		ob.LastUpdatedAt,
		ob.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: opening balance for account %s year %d already exists", apperrors.ErrDuplicate, ob.AccountID, ob.Year)
		}
		return fmt.Errorf("failed to save opening balance %s: %w", ob.OpeningBalanceID, err)
	}
	return nil
}

func (r *PgxOpeningBalanceRepository) SaveOpeningBalance(ctx context.Context, ob domain.OpeningBalance) error {
	return r.insertOne(ctx, r.Pool, ob)
}

func (r *PgxOpeningBalanceRepository) InsertManyInTx(ctx context.Context, tx pgx.Tx, balances []domain.OpeningBalance) error {
	for _, ob := range balances {
		if err := r.insertOne(ctx, r.q(tx), ob); err != nil {
			return err
		}
	}
	return nil
}

func (r *PgxOpeningBalanceRepository) ListByYear(ctx context.Context, tx pgx.Tx, companyID string, year int) ([]domain.OpeningBalance, error) {
	query := `SELECT ` + openingColumns + ` FROM opening_balances WHERE company_id = $1 AND year = $2;`
	rows, err := r.q(tx).Query(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list opening balances for year %d: %w", year, err)
	}
	defer rows.Close()

	var balances []domain.OpeningBalance
	for rows.Next() {
		var ob domain.OpeningBalance
		err := rows.Scan(
			&ob.OpeningBalanceID,
			&ob.CompanyID,
			&ob.AccountID,
			&ob.Year,
			&ob.Debit,
			&ob.Credit,
			&ob.Note,
			&ob.IsCarryForward,
			&ob.CreatedAt,
			&ob.CreatedBy,
			&ob.LastUpdatedAt,
			&ob.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opening balance row: %w", err)
		}
		balances = append(balances, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opening balance rows: %w", err)
	}
	return balances, nil
}

func (r *PgxOpeningBalanceRepository) DeleteCarryForwardInTx(ctx context.Context, tx pgx.Tx, companyID string, year int) error {
	query := `DELETE FROM opening_balances WHERE company_id = $1 AND year = $2 AND is_carry_forward;`
	if _, err := r.q(tx).Exec(ctx, query, companyID, year); err != nil {
		return fmt.Errorf("failed to delete carry-forward openings for year %d: %w", year, err)
	}
	return nil
}
