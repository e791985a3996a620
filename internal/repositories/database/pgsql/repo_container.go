package pgsql

import (
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		OpeningRepo:   newPgxOpeningBalanceRepository(dbPool),
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		AssetRepo:     newPgxFixedAssetRepository(dbPool),
		DepLedgerRepo: newPgxDepreciationLedgerRepository(dbPool),
		AuditSink:     newPgxAuditOutboxRepository(dbPool),
		Tx:            &BaseRepository{Pool: dbPool},
	}
}
