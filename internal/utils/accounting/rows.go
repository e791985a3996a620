package accounting

import (
	"fmt"

	"github.com/LattanaDev/laobooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Row is the per-account accumulator for a balance computation: opening,
// movement and ending amounts on both sides, keyed by the immutable account
// id.
type Row struct {
	AccountID       string
	Code            string
	AccountType     domain.AccountType
	NormalSide      domain.NormalSide
	ParentAccountID *string
	OpeningDr       decimal.Decimal
	OpeningCr       decimal.Decimal
	MovementDr      decimal.Decimal
	MovementCr      decimal.Decimal
	EndingDr        decimal.Decimal
	EndingCr        decimal.Decimal
}

// Totals sums row amounts across leaf accounts only; parent rows repeat
// their children and would double-count.
type Totals struct {
	OpeningDr  decimal.Decimal
	OpeningCr  decimal.Decimal
	MovementDr decimal.Decimal
	MovementCr decimal.Decimal
	EndingDr   decimal.Decimal
	EndingCr   decimal.Decimal
}

// InitRows builds one zeroed Row per account.
func InitRows(accounts []domain.Account) map[string]*Row {
	rows := make(map[string]*Row, len(accounts))
	for _, acc := range accounts {
		rows[acc.AccountID] = &Row{
			AccountID:       acc.AccountID,
			Code:            acc.Code,
			AccountType:     acc.AccountType,
			NormalSide:      acc.NormalSide,
			ParentAccountID: acc.ParentAccountID,
			OpeningDr:       decimal.Zero,
			OpeningCr:       decimal.Zero,
			MovementDr:      decimal.Zero,
			MovementCr:      decimal.Zero,
			EndingDr:        decimal.Zero,
			EndingCr:        decimal.Zero,
		}
	}
	return rows
}

// ApplyOpening adds each opening balance into its account row. Callers must
// pre-filter openings to the year under computation.
func ApplyOpening(rows map[string]*Row, openings []domain.OpeningBalance) error {
	for _, ob := range openings {
		row, ok := rows[ob.AccountID]
		if !ok {
			return fmt.Errorf("opening balance %s references unknown account %s", ob.OpeningBalanceID, ob.AccountID)
		}
		row.OpeningDr = row.OpeningDr.Add(ob.Debit)
		row.OpeningCr = row.OpeningCr.Add(ob.Credit)
	}
	return nil
}

// ApplyMovements adds every line's base amount into the owning row's
// movement on the line's side.
func ApplyMovements(rows map[string]*Row, entries []domain.JournalEntry) error {
	for _, entry := range entries {
		for _, line := range entry.Lines {
			row, ok := rows[line.AccountID]
			if !ok {
				return fmt.Errorf("entry %s references unknown account %s", entry.EntryID, line.AccountID)
			}
			if line.Side == domain.Debit {
				row.MovementDr = row.MovementDr.Add(line.AmountBase)
			} else {
				row.MovementCr = row.MovementCr.Add(line.AmountBase)
			}
		}
	}
	return nil
}

// ComputeEnding normalizes each row's balance onto a single side. The net is
// taken relative to the account's normal side; a non-negative net lands on
// the normal side, a negative net flips to the opposite side with magnitude
// |net|. This is the canonical rule for every displayed or carried-forward
// balance.
func ComputeEnding(rows map[string]*Row) {
	for _, row := range rows {
		var net decimal.Decimal
		if row.NormalSide == domain.NormalDebit {
			net = row.OpeningDr.Sub(row.OpeningCr).Add(row.MovementDr.Sub(row.MovementCr))
		} else {
			net = row.OpeningCr.Sub(row.OpeningDr).Add(row.MovementCr.Sub(row.MovementDr))
		}

		row.EndingDr = decimal.Zero
		row.EndingCr = decimal.Zero
		onNormal := net.GreaterThanOrEqual(decimal.Zero)
		mag := net.Abs()
		if (row.NormalSide == domain.NormalDebit) == onNormal {
			row.EndingDr = mag
		} else {
			row.EndingCr = mag
		}
	}
}

// CalculateTotals sums opening, movement and ending amounts across leaf rows.
func CalculateTotals(rows map[string]*Row, index map[string][]string) Totals {
	t := Totals{
		OpeningDr:  decimal.Zero,
		OpeningCr:  decimal.Zero,
		MovementDr: decimal.Zero,
		MovementCr: decimal.Zero,
		EndingDr:   decimal.Zero,
		EndingCr:   decimal.Zero,
	}
	for id, row := range rows {
		if !IsLeaf(id, index) {
			continue
		}
		t.OpeningDr = t.OpeningDr.Add(row.OpeningDr)
		t.OpeningCr = t.OpeningCr.Add(row.OpeningCr)
		t.MovementDr = t.MovementDr.Add(row.MovementDr)
		t.MovementCr = t.MovementCr.Add(row.MovementCr)
		t.EndingDr = t.EndingDr.Add(row.EndingDr)
		t.EndingCr = t.EndingCr.Add(row.EndingCr)
	}
	return t
}
