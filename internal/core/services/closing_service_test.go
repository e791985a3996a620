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
)

// postManual stores a balanced two-line base-currency entry directly.
func postManual(t *testing.T, f *fixture, id string, date time.Time, drAccount, crAccount, amount string) {
	t.Helper()
	amt := dec(amount)
	entry := domain.JournalEntry{
		EntryID: id, CompanyID: testCompany, EntryDate: date,
		Description: "seed " + id,
		Status:      domain.Posted, LockState: domain.Unlocked, Source: domain.SourceManual,
		Lines: []domain.EntryLine{
			{LineID: id + "-dr", EntryID: id, AccountID: drAccount, Side: domain.Debit, CurrencyCode: "LAK", ExchangeRate: decimal.NewFromInt(1), AmountOriginal: amt, AmountBase: amt},
			{LineID: id + "-cr", EntryID: id, AccountID: crAccount, Side: domain.Credit, CurrencyCode: "LAK", ExchangeRate: decimal.NewFromInt(1), AmountOriginal: amt, AmountBase: amt},
		},
	}
	require.NoError(t, f.journals.SaveEntry(context.Background(), entry))
}

func seedOpening(t *testing.T, f *fixture, id, accountID string, year int, debit, credit string) {
	t.Helper()
	require.NoError(t, f.openings.SaveOpeningBalance(context.Background(), domain.OpeningBalance{
		OpeningBalanceID: id, CompanyID: testCompany, AccountID: accountID, Year: year,
		Debit: dec(debit), Credit: dec(credit),
	}))
}

// seedYear2024 sets up a small trading year: 1000 opening capital, 300 of
// sales and 120 of rent.
func seedYear2024(t *testing.T, f *fixture) {
	t.Helper()
	seedChart(f)
	seedOpening(t, f, "ob-cash", "cash", 2024, "1000", "0")
	seedOpening(t, f, "ob-capital", "capital", 2024, "0", "1000")
	postManual(t, f, "je-sales", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "cash", "sales", "300")
	postManual(t, f, "je-rent", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "rent", "cash", "120")
}

func TestClosePeriod(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	resp, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	assert.True(t, resp.IsClosed)
	assert.True(t, resp.Income.Equal(dec("300")), "income = %s", resp.Income)
	assert.True(t, resp.Expense.Equal(dec("120")), "expense = %s", resp.Expense)
	assert.True(t, resp.NetProfit.Equal(dec("180")), "net profit = %s", resp.NetProfit)

	// Closing entry zeroes the temporary accounts into retained earnings.
	closings := f.journals.entriesBySource(domain.SourceClosing)
	require.Len(t, closings, 1)
	closing := closings[0]
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), closing.EntryDate)
	assert.Equal(t, "CLOSE-2024", closing.Reference)
	assert.Equal(t, domain.Locked, closing.LockState)

	lineAmounts := map[string]string{}
	for _, line := range closing.Lines {
		lineAmounts[line.AccountID+"/"+string(line.Side)] = line.AmountBase.String()
	}
	assert.Equal(t, "300", lineAmounts["sales/DEBIT"])
	assert.Equal(t, "120", lineAmounts["rent/CREDIT"])
	assert.Equal(t, "180", lineAmounts["retained/CREDIT"])

	// Carry-forward openings for 2025: cash 1180 Dr, capital 1000 Cr,
	// retained 180 Cr. Temporary accounts carry nothing.
	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2025)
	require.NoError(t, err)
	byAccount := map[string]domain.OpeningBalance{}
	for _, ob := range openings {
		assert.True(t, ob.IsCarryForward)
		byAccount[ob.AccountID] = ob
	}
	require.Len(t, byAccount, 3)
	assert.True(t, byAccount["cash"].Debit.Equal(dec("1180")), "cash carry = %s", byAccount["cash"].Debit)
	assert.True(t, byAccount["capital"].Credit.Equal(dec("1000")))
	assert.True(t, byAccount["retained"].Credit.Equal(dec("180")))

	// Year entries are locked.
	sales, err := f.journals.FindEntryByID(context.Background(), testCompany, "je-sales")
	require.NoError(t, err)
	assert.Equal(t, domain.Locked, sales.LockState)

	assert.Contains(t, f.audit.actions(), "period.close")
}

func TestClosePeriodRetainedEarningsWithChildren(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	// A reserve account under retained earnings makes it a non-leaf; the
	// closing transfer must still carry forward.
	reserve := chartAccount("reserves", "3910", domain.Equity, domain.NormalCredit)
	parentID := "retained"
	reserve.ParentAccountID = &parentID
	f.accounts.add(reserve)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2025)
	require.NoError(t, err)
	byAccount := map[string]domain.OpeningBalance{}
	totalDr, totalCr := decimal.Zero, decimal.Zero
	for _, ob := range openings {
		byAccount[ob.AccountID] = ob
		totalDr = totalDr.Add(ob.Debit)
		totalCr = totalCr.Add(ob.Credit)
	}
	require.Len(t, openings, 3)

	retained, ok := byAccount["retained"]
	require.True(t, ok, "retained earnings must carry forward despite children")
	assert.True(t, retained.Credit.Equal(dec("180")), "retained carry = %s", retained.Credit)
	assert.True(t, retained.IsCarryForward)

	// The zero-balance child carries nothing and the set stays balanced.
	_, ok = byAccount["reserves"]
	assert.False(t, ok)
	assert.True(t, totalDr.Equal(totalCr), "%s Dr vs %s Cr", totalDr, totalCr)
}

func TestClosePeriodAlreadyClosed(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	_, err = svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestClosePeriodOutOfOrder(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	// 2026 skips 2025.
	_, err = svc.ClosePeriod(context.Background(), testCompany, testUser, 2026)
	assert.ErrorIs(t, err, apperrors.ErrInvariant)
}

func TestClosePeriodNoRetainedEarningsAccount(t *testing.T) {
	f := newFixture()
	seedChart(f)
	// Replace the retained earnings flag.
	plain := chartAccount("retained", "3900", domain.Equity, domain.NormalCredit)
	f.accounts.add(plain)
	postManual(t, f, "je-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "cash", "sales", "100")
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClosePeriodNetLoss(t *testing.T) {
	f := newFixture()
	seedChart(f)
	postManual(t, f, "je-rent", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "rent", "cash", "500")
	postManual(t, f, "je-sales", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "cash", "sales", "200")
	svc := f.closingService()

	resp, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	assert.True(t, resp.NetProfit.Equal(dec("-300")), "net profit = %s", resp.NetProfit)

	closings := f.journals.entriesBySource(domain.SourceClosing)
	require.Len(t, closings, 1)
	var retainedSide domain.EntrySide
	var retainedAmount decimal.Decimal
	for _, line := range closings[0].Lines {
		if line.AccountID == "retained" {
			retainedSide = line.Side
			retainedAmount = line.AmountBase
		}
	}
	assert.Equal(t, domain.Debit, retainedSide, "a loss debits retained earnings")
	assert.True(t, retainedAmount.Equal(dec("300")))
}

func TestClosePeriodNoActivity(t *testing.T) {
	f := newFixture()
	seedChart(f)
	seedOpening(t, f, "ob-cash", "cash", 2024, "700", "0")
	seedOpening(t, f, "ob-capital", "capital", 2024, "0", "700")
	svc := f.closingService()

	resp, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	assert.True(t, resp.NetProfit.IsZero())

	// No temporary activity means no closing entry, but permanent balances
	// still carry forward.
	assert.Empty(t, f.journals.entriesBySource(domain.SourceClosing))
	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2025)
	require.NoError(t, err)
	assert.Len(t, openings, 2)
}

func TestRollbackPeriod(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	resp, err := svc.RollbackPeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	assert.False(t, resp.IsClosed)
	assert.True(t, resp.NetProfit.IsZero())

	assert.Empty(t, f.journals.entriesBySource(domain.SourceClosing))
	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2025)
	require.NoError(t, err)
	assert.Empty(t, openings)

	sales, err := f.journals.FindEntryByID(context.Background(), testCompany, "je-sales")
	require.NoError(t, err)
	assert.Equal(t, domain.Unlocked, sales.LockState)
	assert.Contains(t, f.audit.actions(), "period.rollback")
}

func TestRollbackPeriodNotClosed(t *testing.T) {
	f := newFixture()
	seedChart(f)
	f.periods.periods[periodKey{testCompany, 2024}] = domain.AccountingPeriod{
		CompanyID: testCompany, Year: 2024, IsClosed: false,
	}
	svc := f.closingService()

	_, err := svc.RollbackPeriod(context.Background(), testCompany, testUser, 2024)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRollbackPeriodNotLatest(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	_, err = svc.ClosePeriod(context.Background(), testCompany, testUser, 2025)
	require.NoError(t, err)

	_, err = svc.RollbackPeriod(context.Background(), testCompany, testUser, 2024)
	assert.ErrorIs(t, err, apperrors.ErrInvariant)
}

func TestRollbackPeriodBlockedByNextYearActivity(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	postManual(t, f, "je-next", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "cash", "sales", "10")

	_, err = svc.RollbackPeriod(context.Background(), testCompany, testUser, 2024)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestClosePeriodReCloseAfterRollback(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	_, err = svc.RollbackPeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	resp, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)
	assert.True(t, resp.NetProfit.Equal(dec("180")))

	// Exactly one closing entry and one carry-forward set survive.
	assert.Len(t, f.journals.entriesBySource(domain.SourceClosing), 1)
	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2025)
	require.NoError(t, err)
	assert.Len(t, openings, 3)
}

func TestCloseTwoConsecutiveYears(t *testing.T) {
	f := newFixture()
	seedYear2024(t, f)
	svc := f.closingService()

	_, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2024)
	require.NoError(t, err)

	// 2025 trades on the carried-forward balances.
	postManual(t, f, "je-2025", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "cash", "sales", "50")
	resp, err := svc.ClosePeriod(context.Background(), testCompany, testUser, 2025)
	require.NoError(t, err)
	assert.True(t, resp.NetProfit.Equal(dec("50")))

	// Retained earnings now carries both years' profit into 2026.
	openings, err := f.openings.ListByYear(context.Background(), nil, testCompany, 2026)
	require.NoError(t, err)
	byAccount := map[string]domain.OpeningBalance{}
	for _, ob := range openings {
		byAccount[ob.AccountID] = ob
	}
	assert.True(t, byAccount["retained"].Credit.Equal(dec("230")), "retained carry = %s", byAccount["retained"].Credit)
	assert.True(t, byAccount["cash"].Debit.Equal(dec("1230")), "cash carry = %s", byAccount["cash"].Debit)

	periods, err := svc.ListPeriods(context.Background(), testCompany)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, 2024, periods[0].Year)
	assert.Equal(t, 2025, periods[1].Year)
}
