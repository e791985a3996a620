package services

// ServiceContainer holds all services for injection into the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Journal      JournalSvcFacade
	Closing      ClosingSvcFacade
	Depreciation DepreciationSvcFacade
}
