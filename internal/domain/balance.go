package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger holds per-currency balances. It is not internally synchronized;
// the execution engine serializes access under its own lock.
//
// Balances are never hard-clamped at zero. The acceptance rule in the
// engine pre-checks sufficiency before any mutation, which is what keeps
// them non-negative.
type Ledger struct {
	balances map[string]decimal.Decimal
}

// NewLedger creates a ledger from seed balances.
func NewLedger(seed map[string]decimal.Decimal) *Ledger {
	balances := make(map[string]decimal.Decimal, len(seed))
	for currency, amount := range seed {
		balances[currency] = amount
	}
	return &Ledger{balances: balances}
}

// DefaultBalances returns the simulated account: 400000 USD and a zero
// position in the nine other supported currencies.
func DefaultBalances() map[string]decimal.Decimal {
	balances := map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(400000),
	}
	for _, currency := range []string{"BTC", "JPY", "GBP", "ETH", "EUR", "CAD", "LTC", "XRP", "BCH"} {
		balances[currency] = decimal.Zero
	}
	return balances
}

// Get returns the balance for a currency, zero if the currency is unknown.
func (l *Ledger) Get(currency string) decimal.Decimal {
	return l.balances[currency]
}

// Credit adds funds to a currency balance.
func (l *Ledger) Credit(currency string, amount decimal.Decimal) {
	l.balances[currency] = l.balances[currency].Add(amount)
}

// Debit removes funds from a currency balance.
func (l *Ledger) Debit(currency string, amount decimal.Decimal) {
	l.balances[currency] = l.balances[currency].Sub(amount)
}

// Snapshot returns a copy of all balances.
func (l *Ledger) Snapshot() map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(l.balances))
	for currency, amount := range l.balances {
		result[currency] = amount
	}
	return result
}

// Currencies returns the held currency codes in sorted order.
func (l *Ledger) Currencies() []string {
	codes := make([]string, 0, len(l.balances))
	for currency := range l.balances {
		codes = append(codes, currency)
	}
	sort.Strings(codes)
	return codes
}
