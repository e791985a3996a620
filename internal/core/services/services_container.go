package services

import (
	portsrepo "github.com/LattanaDev/laobooks_backend/internal/core/ports/repositories"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.AccountRepo,
		repos.OpeningRepo,
		repos.JournalRepo,
		repos.PeriodRepo,
		repos.AuditSink,
	)
	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PeriodRepo,
		repos.AssetRepo,
		repos.AuditSink,
	)
	container.Closing = NewClosingService(
		repos.AccountRepo,
		repos.JournalRepo,
		repos.OpeningRepo,
		repos.PeriodRepo,
		repos.AuditSink,
		repos.Tx,
	)
	container.Depreciation = NewDepreciationService(
		repos.AssetRepo,
		repos.DepLedgerRepo,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PeriodRepo,
		repos.AuditSink,
		repos.Tx,
	)

	return container
}
