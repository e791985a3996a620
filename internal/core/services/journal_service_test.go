package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LattanaDev/laobooks_backend/internal/apperrors"
	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/LattanaDev/laobooks_backend/internal/dto"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lineReq(accountID, side, currency, rate, amount string) dto.EntryLineRequest {
	return dto.EntryLineRequest{
		AccountID:    accountID,
		Side:         side,
		CurrencyCode: currency,
		ExchangeRate: dec(rate),
		Amount:       dec(amount),
	}
}

func entryReq(date time.Time, reference string, lines ...dto.EntryLineRequest) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:        date,
		Description: "test entry",
		Reference:   reference,
		Lines:       lines,
	}
}

func TestCreateEntry(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	resp, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "INV-001",
		lineReq("cash", "DEBIT", "LAK", "1", "100"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.EntryID)
	assert.Equal(t, string(domain.Posted), resp.Status)
	assert.Equal(t, string(domain.Unlocked), resp.LockState)
	assert.Equal(t, string(domain.SourceManual), resp.Source)
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[0].AmountBase.Equal(dec("100")))

	stored, err := f.journals.FindEntryByID(context.Background(), testCompany, resp.EntryID)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", stored.Reference)
	assert.Contains(t, f.audit.actions(), "journal.create")
}

func TestCreateEntryDerivesBaseFromExchangeRate(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// 10 USD at 20833.3333 rounds to 208333.33 base.
	resp, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "",
		lineReq("cash", "DEBIT", "USD", "20833.3333", "10"),
		lineReq("sales", "CREDIT", "LAK", "1", "208333.33"),
	))
	require.NoError(t, err)
	assert.True(t, resp.Lines[0].AmountBase.Equal(dec("208333.33")), "base = %s", resp.Lines[0].AmountBase)
}

func TestCreateEntryBalanceTolerance(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// One cent apart passes.
	_, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "",
		lineReq("cash", "DEBIT", "LAK", "1", "100.01"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	require.NoError(t, err)

	// Two cents apart fails the invariant.
	_, err = svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "",
		lineReq("cash", "DEBIT", "LAK", "1", "100.02"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	assert.ErrorIs(t, err, apperrors.ErrInvariant)
}

func TestCreateEntryLineValidation(t *testing.T) {
	f := newFixture()
	seedChart(f)
	inactive := chartAccount("dormant", "1900", domain.Asset, domain.NormalDebit)
	inactive.IsActive = false
	f.accounts.add(inactive)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		lines []dto.EntryLineRequest
	}{
		{"unknown account", []dto.EntryLineRequest{
			lineReq("ghost", "DEBIT", "LAK", "1", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
		{"inactive account", []dto.EntryLineRequest{
			lineReq("dormant", "DEBIT", "LAK", "1", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
		{"unsupported currency", []dto.EntryLineRequest{
			lineReq("cash", "DEBIT", "GBP", "1", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
		{"zero exchange rate", []dto.EntryLineRequest{
			lineReq("cash", "DEBIT", "USD", "0", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
		{"exchange rate above cap", []dto.EntryLineRequest{
			lineReq("cash", "DEBIT", "USD", "1000001", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
		{"non-positive amount", []dto.EntryLineRequest{
			lineReq("cash", "DEBIT", "LAK", "1", "0"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "", tc.lines...))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateEntryClosedYearRejected(t *testing.T) {
	f := newFixture()
	seedChart(f)
	f.periods.periods[periodKey{testCompany, 2023}] = domain.AccountingPeriod{
		CompanyID: testCompany, Year: 2023, IsClosed: true,
	}
	svc := f.journalService()

	_, err := svc.CreateEntry(context.Background(), testCompany, testUser,
		entryReq(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "",
			lineReq("cash", "DEBIT", "LAK", "1", "100"),
			lineReq("sales", "CREDIT", "LAK", "1", "100"),
		))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateEntryDuplicateReference(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "INV-7",
		lineReq("cash", "DEBIT", "LAK", "1", "100"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	require.NoError(t, err)

	_, err = svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "INV-7",
		lineReq("cash", "DEBIT", "LAK", "1", "50"),
		lineReq("sales", "CREDIT", "LAK", "1", "50"),
	))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "INV-1",
		lineReq("cash", "DEBIT", "LAK", "1", "100"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	require.NoError(t, err)

	updated, err := svc.UpdateEntry(context.Background(), testCompany, testUser, created.EntryID, dto.UpdateJournalEntryRequest{
		Date:        date.AddDate(0, 0, 5),
		Description: "corrected",
		Reference:   "INV-1-FIX",
		Lines: []dto.EntryLineRequest{
			lineReq("cash", "DEBIT", "LAK", "1", "250"),
			lineReq("sales", "CREDIT", "LAK", "1", "250"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "corrected", updated.Description)
	assert.Equal(t, "INV-1-FIX", updated.Reference)
	require.Len(t, updated.Lines, 2)
	assert.True(t, updated.Lines[0].AmountBase.Equal(dec("250")))
}

func TestUpdateEntryLockedRejected(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()

	entry := domain.JournalEntry{
		EntryID: "locked-1", CompanyID: testCompany,
		EntryDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:    domain.Posted, LockState: domain.Locked, Source: domain.SourceManual,
	}
	require.NoError(t, f.journals.SaveEntry(context.Background(), entry))

	_, err := svc.UpdateEntry(context.Background(), testCompany, testUser, "locked-1", dto.UpdateJournalEntryRequest{
		Date: entry.EntryDate, Description: "x",
		Lines: []dto.EntryLineRequest{lineReq("cash", "DEBIT", "LAK", "1", "1"), lineReq("sales", "CREDIT", "LAK", "1", "1")},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateEntrySystemSourceRejected(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()

	entry := domain.JournalEntry{
		EntryID: "sys-1", CompanyID: testCompany,
		EntryDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    domain.Posted, LockState: domain.Unlocked, Source: domain.SourceDepreciation,
	}
	require.NoError(t, f.journals.SaveEntry(context.Background(), entry))

	_, err := svc.UpdateEntry(context.Background(), testCompany, testUser, "sys-1", dto.UpdateJournalEntryRequest{
		Date: entry.EntryDate, Description: "x",
		Lines: []dto.EntryLineRequest{lineReq("cash", "DEBIT", "LAK", "1", "1"), lineReq("sales", "CREDIT", "LAK", "1", "1")},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateEntry(context.Background(), testCompany, testUser, entryReq(date, "",
		lineReq("cash", "DEBIT", "LAK", "1", "100"),
		lineReq("sales", "CREDIT", "LAK", "1", "100"),
	))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(context.Background(), testCompany, testUser, created.EntryID))
	_, err = f.journals.FindEntryByID(context.Background(), testCompany, created.EntryID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteEntrySystemSourcesRejected(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, source := range []domain.EntrySource{domain.SourceClosing, domain.SourceAssetPurchase, domain.SourceAssetSale, domain.SourceAssetDisposal} {
		id := "sys-" + string(source)
		require.NoError(t, f.journals.SaveEntry(context.Background(), domain.JournalEntry{
			EntryID: id, CompanyID: testCompany, EntryDate: date,
			Status: domain.Posted, LockState: domain.Unlocked, Source: source,
		}))
		err := svc.DeleteEntry(context.Background(), testCompany, testUser, id)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "source %s", source)
	}
}

func TestDeleteEntryBackingAssetPurchaseRejected(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Entry tagged MANUAL but linked from an asset's purchase_entry_id.
	require.NoError(t, f.journals.SaveEntry(context.Background(), domain.JournalEntry{
		EntryID: "buy-1", CompanyID: testCompany, EntryDate: date,
		Status: domain.Posted, LockState: domain.Unlocked, Source: domain.SourceManual,
	}))
	purchaseID := "buy-1"
	f.assets.assets["asset-1"] = domain.FixedAsset{
		AssetID: "asset-1", CompanyID: testCompany, PurchaseEntryID: &purchaseID,
	}

	err := svc.DeleteEntry(context.Background(), testCompany, testUser, "buy-1")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestListEntriesClampsLimit(t *testing.T) {
	f := newFixture()
	seedChart(f)
	svc := f.journalService()

	_, err := svc.ListEntries(context.Background(), testCompany, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, f.journals.lastListLimit)

	_, err = svc.ListEntries(context.Background(), testCompany, 5000, nil)
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, f.journals.lastListLimit)
}
