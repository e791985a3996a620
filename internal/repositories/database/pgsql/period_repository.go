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

const periodColumns = `company_id, year, is_closed, closed_at, closed_by, income, expense, net_profit, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for accounting period
// data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.CompanyID,
		&p.Year,
		&p.IsClosed,
		&p.ClosedAt,
		&p.ClosedBy,
		&p.Summary.Income,
		&p.Summary.Expense,
		&p.Summary.NetProfit,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxPeriodRepository) findPeriod(ctx context.Context, q querier, companyID string, year int, forUpdate bool) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE company_id = $1 AND year = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	period, err := scanPeriod(q.QueryRow(ctx, query+`;`, companyID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %d: %w", year, err)
	}
	return period, nil
}

func (r *PgxPeriodRepository) FindPeriod(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error) {
	return r.findPeriod(ctx, r.q(tx), companyID, year, false)
}

func (r *PgxPeriodRepository) FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error) {
	return r.findPeriod(ctx, r.q(tx), companyID, year, true)
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, companyID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE company_id = $1 ORDER BY year;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.AccountingPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

func (r *PgxPeriodRepository) LatestClosedYear(ctx context.Context, tx pgx.Tx, companyID string) (int, bool, error) {
	query := `SELECT MAX(year) FROM accounting_periods WHERE company_id = $1 AND is_closed;`
	var year *int
	if err := r.q(tx).QueryRow(ctx, query, companyID).Scan(&year); err != nil {
		return 0, false, fmt.Errorf("failed to find latest closed year: %w", err)
	}
	if year == nil {
		return 0, false, nil
	}
	return *year, true, nil
}

func (r *PgxPeriodRepository) UpsertPeriodInTx(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id, year) DO UPDATE SET
			is_closed = EXCLUDED.is_closed,
			closed_at = EXCLUDED.closed_at,
			closed_by = EXCLUDED.closed_by,
			income = EXCLUDED.income,
			expense = EXCLUDED.expense,
			net_profit = EXCLUDED.net_profit,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.q(tx).Exec(ctx, query,
		period.CompanyID,
		period.Year,
		period.IsClosed,
		period.ClosedAt,
		period.ClosedBy,
		period.Summary.Income,
		period.Summary.Expense,
		period.Summary.NetProfit,
		period.CreatedAt,
		period.CreatedBy,
		period.LastUpdatedAt,
		period.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert period %d: %w", period.Year, err)
	}
	return nil
}
