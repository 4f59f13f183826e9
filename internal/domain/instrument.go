package domain

import "strings"

// Instrument identifies a tradable pair, e.g. "BTCUSD.SPOT".
// The suffix after the last dot is the instrument type (SPOT, CFD, ...).
type Instrument struct {
	Name string `json:"name"`
}

// Pair holds the decomposition of an instrument name.
type Pair struct {
	Base  string
	Quote string
	Type  string
}

// ResolveInstrument splits an instrument name into base, quote and type.
//
// The pair segment before the type suffix is split 3/3 when it is 6
// characters long. A 7-character segment is tried 3/4 then 4/3, taking the
// first split where both halves are recognized currency codes. Any other
// length is invalid.
func ResolveInstrument(name string) (Pair, error) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return Pair{}, ErrInvalidInstrument
	}
	pair, typ := name[:idx], name[idx+1:]

	switch len(pair) {
	case 6:
		return Pair{Base: pair[:3], Quote: pair[3:], Type: typ}, nil
	case 7:
		if IsCurrency(pair[:3]) && IsCurrency(pair[3:]) {
			return Pair{Base: pair[:3], Quote: pair[3:], Type: typ}, nil
		}
		if IsCurrency(pair[:4]) && IsCurrency(pair[4:]) {
			return Pair{Base: pair[:4], Quote: pair[4:], Type: typ}, nil
		}
	}
	return Pair{}, ErrInvalidInstrument
}

// Pair resolves the instrument name. See ResolveInstrument.
func (i Instrument) Pair() (Pair, error) {
	return ResolveInstrument(i.Name)
}
