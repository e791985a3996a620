package domain

// AllowedCurrencies is the fixed set of currency codes journal lines may use.
// The base currency of every company ledger is LAK; other currencies are
// converted per line via the supplied exchange rate.
var AllowedCurrencies = map[string]struct{}{
	"LAK": {},
	"THB": {},
	"USD": {},
	"CNY": {},
	"EUR": {},
	"JPY": {},
}

// IsAllowedCurrency reports whether code is in the allowed currency set.
func IsAllowedCurrency(code string) bool {
	_, ok := AllowedCurrencies[code]
	return ok
}
