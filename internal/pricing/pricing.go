package pricing

import (
	"math/rand"
	"sort"
	"sync"

	"otc_go/internal/domain"

	"github.com/shopspring/decimal"
)

// Range bounds the random price perturbation, in whole percent.
type Range struct {
	Lower int
	Upper int
}

// DefaultRange is +-1% around the reference price.
var DefaultRange = &Range{Lower: -1, Upper: 1}

// Model looks up reference prices and applies a bounded random
// fluctuation. With a nil range the model is fully deterministic, which is
// what the tests pin their scenarios on.
type Model struct {
	mu          sync.Mutex
	prices      map[string]decimal.Decimal
	fluctuation *Range
	rng         *rand.Rand
}

// NewModel creates a pricing model. seed makes the fluctuation draw
// reproducible; it is ignored when fluctuation is nil.
func NewModel(prices map[string]decimal.Decimal, fluctuation *Range, seed int64) *Model {
	return &Model{
		prices:      prices,
		fluctuation: fluctuation,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// DefaultPrices returns the simulated venue's reference prices.
func DefaultPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"BTCUSD.CFD":  decimal.RequireFromString("57497.30"),
		"BTCUSD.SPOT": decimal.RequireFromString("57497.30"),
		"BTCEUR.SPOT": decimal.RequireFromString("49575.32"),
		"BTCGBP.SPOT": decimal.RequireFromString("42045.56"),
		"ETHBTC.SPOT": decimal.RequireFromString("0.065388"),
		"ETHUSD.SPOT": decimal.RequireFromString("3758.64"),
		"LTCUSD.SPOT": decimal.RequireFromString("179.60"),
		"XRPUSD.SPOT": decimal.RequireFromString("1.12906"),
		"BCHUSD.SPOT": decimal.RequireFromString("595.72"),
	}
}

// Price returns the current price for an instrument: the reference price
// perturbed by a uniform percentage within the configured range, drawn at
// hundredth-of-a-percent resolution.
func (m *Model) Price(instrument string) (decimal.Decimal, error) {
	price, ok := m.prices[instrument]
	if !ok {
		return decimal.Decimal{}, domain.ErrUnknownInstrument
	}

	if m.fluctuation == nil {
		return price, nil
	}

	m.mu.Lock()
	steps := (m.fluctuation.Upper - m.fluctuation.Lower) * 100
	n := m.rng.Intn(steps) + m.fluctuation.Lower*100
	m.mu.Unlock()

	// n is in hundredths of a percent, so scale by 10^-4.
	pct := decimal.New(int64(n), -4)
	return price.Mul(decimal.NewFromInt(1).Add(pct)), nil
}

// Instruments lists the quotable instruments in sorted name order.
func (m *Model) Instruments() []domain.Instrument {
	names := make([]string, 0, len(m.prices))
	for name := range m.prices {
		names = append(names, name)
	}
	sort.Strings(names)

	instruments := make([]domain.Instrument, len(names))
	for i, name := range names {
		instruments[i] = domain.Instrument{Name: name}
	}
	return instruments
}
