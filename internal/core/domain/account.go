package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account conventionally carries a
// positive balance.
type NormalSide string

const (
	NormalDebit  NormalSide = "DR"
	NormalCredit NormalSide = "CR"
)

// DefaultNormalSide returns the conventional normal side for an account type:
// asset and expense accounts are debit-normal, everything else credit-normal.
func DefaultNormalSide(t AccountType) NormalSide {
	if t == Asset || t == Expense {
		return NormalDebit
	}
	return NormalCredit
}

// Account represents one node of a company's chart of accounts.
//
// AccountID is the immutable primary key used for all aggregation and
// referencing; Code is a display/lookup attribute that may be renamed.
type Account struct {
	AccountID         string      `json:"accountID"` // Primary key (UUID)
	CompanyID         string      `json:"companyID"` // Tenant scope (NON-NULL)
	Code              string      `json:"code"`      // Unique per company
	Name              string      `json:"name"`
	AccountType       AccountType `json:"accountType"`
	NormalSide        NormalSide  `json:"normalSide"`
	ParentAccountID   *string     `json:"parentAccountID"` // Self-referencing, nullable
	Description       string      `json:"description"`
	IsRetainedEarning bool        `json:"isRetainedEarning"` // Target of closing entries
	IsActive          bool        `json:"isActive"`
	AuditFields
}

// IsTemporary reports whether the account is zeroed into retained earnings
// when its period closes.
func (a Account) IsTemporary() bool {
	return a.AccountType == Income || a.AccountType == Expense
}
