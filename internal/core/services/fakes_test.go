package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	portssvc "github.com/LattanaDev/laobooks_backend/internal/core/ports/services"
	"github.com/LattanaDev/laobooks_backend/internal/utils/depreciation"
)

// In-memory repository fakes. WithTx runs the closure against a nil pgx.Tx;
// the fakes ignore the tx argument entirely, so transactional and
// non-transactional paths hit the same state.

type fakeTransactor struct{}

func (fakeTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type fakeAccountRepo struct {
	accounts map[string]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) add(acc domain.Account) { r.accounts[acc.AccountID] = acc }

func (r *fakeAccountRepo) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	acc, ok := r.accounts[accountID]
	if !ok || acc.CompanyID != companyID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (r *fakeAccountRepo) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account)
	for _, id := range accountIDs {
		if acc, ok := r.accounts[id]; ok && acc.CompanyID == companyID {
			out[id] = acc
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	for _, acc := range r.accounts {
		if acc.CompanyID == companyID && acc.Code == code {
			out := acc
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
}

func (r *fakeAccountRepo) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	var out []domain.Account
	for _, acc := range r.accounts {
		if acc.CompanyID == companyID {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeAccountRepo) FindRetainedEarningsAccount(ctx context.Context, companyID string) (*domain.Account, error) {
	for _, acc := range r.accounts {
		if acc.CompanyID == companyID && acc.IsRetainedEarning {
			out := acc
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: no retained earnings account", apperrors.ErrNotFound)
}

func (r *fakeAccountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	for _, acc := range r.accounts {
		if acc.CompanyID == account.CompanyID && acc.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	r.accounts[account.AccountID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateAccount(ctx context.Context, account domain.Account) error {
	if _, ok := r.accounts[account.AccountID]; !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	r.accounts[account.AccountID] = account
	return nil
}

type fakeJournalRepo struct {
	entries       map[string]domain.JournalEntry
	lastListLimit int
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{entries: make(map[string]domain.JournalEntry)}
}

func (r *fakeJournalRepo) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, ok := r.entries[entryID]
	if !ok || entry.CompanyID != companyID {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (r *fakeJournalRepo) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	r.lastListLimit = limit
	var out []domain.JournalEntry
	for _, entry := range r.entries {
		if entry.CompanyID == companyID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (r *fakeJournalRepo) FindPostedEntriesByYear(ctx context.Context, tx pgx.Tx, companyID string, year int, includeClosing bool) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	for _, entry := range r.entries {
		if entry.CompanyID != companyID || entry.EntryDate.Year() != year || entry.Status != domain.Posted {
			continue
		}
		if !includeClosing && entry.Source == domain.SourceClosing {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r *fakeJournalRepo) HasPostedEntriesInYear(ctx context.Context, tx pgx.Tx, companyID string, year int) (bool, error) {
	for _, entry := range r.entries {
		if entry.CompanyID == companyID && entry.EntryDate.Year() == year && entry.Status == domain.Posted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJournalRepo) ReferenceExists(ctx context.Context, companyID, reference, excludeEntryID string) (bool, error) {
	for _, entry := range r.entries {
		if entry.CompanyID == companyID && entry.Reference == reference && entry.EntryID != excludeEntryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeJournalRepo) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	r.entries[entry.EntryID] = entry
	return nil
}

func (r *fakeJournalRepo) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	return r.SaveEntry(ctx, entry)
}

func (r *fakeJournalRepo) ReplaceEntry(ctx context.Context, entry domain.JournalEntry) error {
	if _, ok := r.entries[entry.EntryID]; !ok {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	r.entries[entry.EntryID] = entry
	return nil
}

func (r *fakeJournalRepo) DeleteEntry(ctx context.Context, companyID, entryID string) error {
	entry, ok := r.entries[entryID]
	if !ok || entry.CompanyID != companyID {
		return fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
	}
	delete(r.entries, entryID)
	return nil
}

func (r *fakeJournalRepo) DeleteEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) error {
	return r.DeleteEntry(ctx, companyID, entryID)
}

func (r *fakeJournalRepo) DeleteEntriesBySourceRefInTx(ctx context.Context, tx pgx.Tx, companyID, sourceRefID string, sources []domain.EntrySource) error {
	for id, entry := range r.entries {
		if entry.CompanyID != companyID || entry.SourceRefID == nil || *entry.SourceRefID != sourceRefID {
			continue
		}
		for _, src := range sources {
			if entry.Source == src {
				delete(r.entries, id)
				break
			}
		}
	}
	return nil
}

func (r *fakeJournalRepo) SetLockStateForYearInTx(ctx context.Context, tx pgx.Tx, companyID string, year int, lock domain.LockState) error {
	for id, entry := range r.entries {
		if entry.CompanyID == companyID && entry.EntryDate.Year() == year && entry.Status == domain.Posted {
			entry.LockState = lock
			r.entries[id] = entry
		}
	}
	return nil
}

// entriesBySource returns stored entries with the given source, any company.
func (r *fakeJournalRepo) entriesBySource(source domain.EntrySource) []domain.JournalEntry {
	var out []domain.JournalEntry
	for _, entry := range r.entries {
		if entry.Source == source {
			out = append(out, entry)
		}
	}
	return out
}

type fakeOpeningRepo struct {
	rows []domain.OpeningBalance
}

func (r *fakeOpeningRepo) SaveOpeningBalance(ctx context.Context, ob domain.OpeningBalance) error {
	for _, existing := range r.rows {
		if existing.CompanyID == ob.CompanyID && existing.AccountID == ob.AccountID && existing.Year == ob.Year {
			return fmt.Errorf("%w: opening balance for account %s year %d", apperrors.ErrDuplicate, ob.AccountID, ob.Year)
		}
	}
	r.rows = append(r.rows, ob)
	return nil
}

func (r *fakeOpeningRepo) ListByYear(ctx context.Context, tx pgx.Tx, companyID string, year int) ([]domain.OpeningBalance, error) {
	var out []domain.OpeningBalance
	for _, ob := range r.rows {
		if ob.CompanyID == companyID && ob.Year == year {
			out = append(out, ob)
		}
	}
	return out, nil
}

func (r *fakeOpeningRepo) InsertManyInTx(ctx context.Context, tx pgx.Tx, balances []domain.OpeningBalance) error {
	r.rows = append(r.rows, balances...)
	return nil
}

func (r *fakeOpeningRepo) DeleteCarryForwardInTx(ctx context.Context, tx pgx.Tx, companyID string, year int) error {
	kept := r.rows[:0]
	for _, ob := range r.rows {
		if ob.CompanyID == companyID && ob.Year == year && ob.IsCarryForward {
			continue
		}
		kept = append(kept, ob)
	}
	r.rows = kept
	return nil
}

type periodKey struct {
	companyID string
	year      int
}

type fakePeriodRepo struct {
	periods map[periodKey]domain.AccountingPeriod
}

func newFakePeriodRepo() *fakePeriodRepo {
	return &fakePeriodRepo{periods: make(map[periodKey]domain.AccountingPeriod)}
}

func (r *fakePeriodRepo) FindPeriod(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error) {
	p, ok := r.periods[periodKey{companyID, year}]
	if !ok {
		return nil, fmt.Errorf("%w: period %d", apperrors.ErrNotFound, year)
	}
	return &p, nil
}

func (r *fakePeriodRepo) FindPeriodForUpdate(ctx context.Context, tx pgx.Tx, companyID string, year int) (*domain.AccountingPeriod, error) {
	return r.FindPeriod(ctx, tx, companyID, year)
}

func (r *fakePeriodRepo) ListPeriods(ctx context.Context, companyID string) ([]domain.AccountingPeriod, error) {
	var out []domain.AccountingPeriod
	for key, p := range r.periods {
		if key.companyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (r *fakePeriodRepo) LatestClosedYear(ctx context.Context, tx pgx.Tx, companyID string) (int, bool, error) {
	latest := 0
	found := false
	for key, p := range r.periods {
		if key.companyID == companyID && p.IsClosed && (!found || p.Year > latest) {
			latest = p.Year
			found = true
		}
	}
	return latest, found, nil
}

func (r *fakePeriodRepo) UpsertPeriodInTx(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	r.periods[periodKey{period.CompanyID, period.Year}] = period
	return nil
}

type fakeAssetRepo struct {
	assets map[string]domain.FixedAsset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]domain.FixedAsset)}
}

func (r *fakeAssetRepo) FindAssetByID(ctx context.Context, companyID, assetID string) (*domain.FixedAsset, error) {
	asset, ok := r.assets[assetID]
	if !ok || asset.CompanyID != companyID {
		return nil, fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
	}
	return &asset, nil
}

func (r *fakeAssetRepo) FindAssetByPurchaseEntry(ctx context.Context, companyID, entryID string) (*domain.FixedAsset, error) {
	for _, asset := range r.assets {
		if asset.CompanyID == companyID && asset.PurchaseEntryID != nil && *asset.PurchaseEntryID == entryID {
			out := asset
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: no asset for entry %s", apperrors.ErrNotFound, entryID)
}

func (r *fakeAssetRepo) ListAssets(ctx context.Context, companyID string) ([]domain.FixedAsset, error) {
	var out []domain.FixedAsset
	for _, asset := range r.assets {
		if asset.CompanyID == companyID {
			out = append(out, asset)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetCode < out[j].AssetCode })
	return out, nil
}

func (r *fakeAssetRepo) SaveAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error {
	for _, existing := range r.assets {
		if existing.CompanyID == asset.CompanyID && existing.AssetCode == asset.AssetCode {
			return fmt.Errorf("%w: asset code %s", apperrors.ErrDuplicate, asset.AssetCode)
		}
	}
	r.assets[asset.AssetID] = asset
	return nil
}

func (r *fakeAssetRepo) UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset domain.FixedAsset) error {
	if _, ok := r.assets[asset.AssetID]; !ok {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, asset.AssetID)
	}
	r.assets[asset.AssetID] = asset
	return nil
}

func (r *fakeAssetRepo) DeleteAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error {
	asset, ok := r.assets[assetID]
	if !ok || asset.CompanyID != companyID {
		return fmt.Errorf("%w: asset %s", apperrors.ErrNotFound, assetID)
	}
	delete(r.assets, assetID)
	return nil
}

type fakeDepLedgerRepo struct {
	rows []domain.DepreciationLedger
}

func (r *fakeDepLedgerRepo) LastPostedPeriod(ctx context.Context, tx pgx.Tx, companyID, assetID string) (depreciation.YearMonth, bool, error) {
	var last depreciation.YearMonth
	found := false
	for _, row := range r.rows {
		if row.CompanyID != companyID || row.AssetID != assetID {
			continue
		}
		ym := depreciation.YearMonth{Year: row.Year, Month: row.Month}
		if !found || ym.After(last) {
			last = ym
			found = true
		}
	}
	return last, found, nil
}

func (r *fakeDepLedgerRepo) ListByAsset(ctx context.Context, companyID, assetID string) ([]domain.DepreciationLedger, error) {
	var out []domain.DepreciationLedger
	for _, row := range r.rows {
		if row.CompanyID == companyID && row.AssetID == assetID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (r *fakeDepLedgerRepo) InsertInTx(ctx context.Context, tx pgx.Tx, row domain.DepreciationLedger) error {
	for _, existing := range r.rows {
		if existing.AssetID == row.AssetID && existing.Year == row.Year && existing.Month == row.Month {
			return fmt.Errorf("%w: depreciation %04d-%02d already posted", apperrors.ErrDuplicate, row.Year, row.Month)
		}
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *fakeDepLedgerRepo) DeleteByAssetInTx(ctx context.Context, tx pgx.Tx, companyID, assetID string) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CompanyID == companyID && row.AssetID == assetID {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return nil
}

const (
	testCompany = "comp-1"
	testUser    = "user-1"
)

func chartAccount(id, code string, accType domain.AccountType, side domain.NormalSide) domain.Account {
	return domain.Account{
		AccountID:   id,
		CompanyID:   testCompany,
		Code:        code,
		Name:        "Account " + code,
		AccountType: accType,
		NormalSide:  side,
		IsActive:    true,
	}
}

// seedChart loads a minimal chart of accounts shared by the service tests.
func seedChart(f *fixture) {
	f.accounts.add(chartAccount("cash", "1100", domain.Asset, domain.NormalDebit))
	f.accounts.add(chartAccount("equip", "1500", domain.Asset, domain.NormalDebit))
	f.accounts.add(chartAccount("accum", "1590", domain.Asset, domain.NormalCredit))
	f.accounts.add(chartAccount("capital", "3000", domain.Equity, domain.NormalCredit))
	retained := chartAccount("retained", "3900", domain.Equity, domain.NormalCredit)
	retained.IsRetainedEarning = true
	f.accounts.add(retained)
	f.accounts.add(chartAccount("sales", "4000", domain.Income, domain.NormalCredit))
	f.accounts.add(chartAccount("gain", "4900", domain.Income, domain.NormalCredit))
	f.accounts.add(chartAccount("rent", "5100", domain.Expense, domain.NormalDebit))
	f.accounts.add(chartAccount("depexp", "5200", domain.Expense, domain.NormalDebit))
	f.accounts.add(chartAccount("loss", "5900", domain.Expense, domain.NormalDebit))
}

// fixture wires every fake repository into fresh service instances.
type fixture struct {
	accounts *fakeAccountRepo
	journals *fakeJournalRepo
	openings *fakeOpeningRepo
	periods  *fakePeriodRepo
	assets   *fakeAssetRepo
	depRows  *fakeDepLedgerRepo
	audit    *fakeAuditSink
}

func newFixture() *fixture {
	return &fixture{
		accounts: newFakeAccountRepo(),
		journals: newFakeJournalRepo(),
		openings: &fakeOpeningRepo{},
		periods:  newFakePeriodRepo(),
		assets:   newFakeAssetRepo(),
		depRows:  &fakeDepLedgerRepo{},
		audit:    &fakeAuditSink{},
	}
}

func (f *fixture) accountService() portssvc.AccountSvcFacade {
	return NewAccountService(f.accounts, f.openings, f.journals, f.periods, f.audit)
}

func (f *fixture) journalService() portssvc.JournalSvcFacade {
	return NewJournalService(f.journals, f.accounts, f.periods, f.assets, f.audit)
}

func (f *fixture) closingService() portssvc.ClosingSvcFacade {
	return NewClosingService(f.accounts, f.journals, f.openings, f.periods, f.audit, fakeTransactor{})
}

func (f *fixture) depreciationService() portssvc.DepreciationSvcFacade {
	return NewDepreciationService(f.assets, f.depRows, f.journals, f.accounts, f.periods, f.audit, fakeTransactor{})
}

type fakeAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *fakeAuditSink) Append(ctx context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *fakeAuditSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}
