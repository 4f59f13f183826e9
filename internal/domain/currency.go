package domain

// Currency codes the venue recognizes. Instrument decomposition (see
// instrument.go) only accepts splits where both halves are listed here.
var currencies = map[string]bool{
	"USD":  true,
	"EUR":  true,
	"GBP":  true,
	"JPY":  true,
	"CAD":  true,
	"BTC":  true,
	"ETH":  true,
	"LTC":  true,
	"XRP":  true,
	"BCH":  true,
	"USDT": true,
	"USDC": true,
}

var fiatCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"CAD": true,
}

// IsCurrency reports whether code is a recognized currency code.
func IsCurrency(code string) bool {
	return currencies[code]
}

// IsFiat reports whether code is a fiat currency. Display layers use this
// to pick precision (2 decimals for fiat, 8 for crypto).
func IsFiat(code string) bool {
	return fiatCurrencies[code]
}
