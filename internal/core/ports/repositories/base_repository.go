package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor runs a function inside a single database transaction. The
// transaction is committed when fn returns nil and rolled back otherwise;
// no partial write is ever observable.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// TransactionManager exposes explicit transaction control for repositories
// that manage their own scopes.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
