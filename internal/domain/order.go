package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "buy"
	SideSell = "sell"

	OrderTypeFOK = "FOK"
	OrderTypeMKT = "MKT"
)

// ValidSide reports whether s is a supported order side.
func ValidSide(s string) bool {
	return s == SideBuy || s == SideSell
}

// OrderRequest is an order submission. ClientOrderID is the caller-supplied
// idempotency key: resubmitting with the same id is an error, not an update.
type OrderRequest struct {
	Instrument    string          `json:"instrument"`
	Side          string          `json:"side"`
	Quantity      decimal.Decimal `json:"quantity"`
	ClientOrderID string          `json:"client_order_id"`
	Price         decimal.Decimal `json:"price"`
	OrderType     string          `json:"order_type"`
	ValidUntil    time.Time       `json:"valid_until"`
	ExecutingUnit string          `json:"executing_unit,omitempty"`
	ForceOpen     bool            `json:"force_open,omitempty"`

	// Basis points, serialized as a string like the other decimals.
	AcceptableSlippageBps string `json:"acceptable_slippage_in_basis_points,omitempty"`
}

// Order is the venue's record of a submission. Immutable once created.
// ExecutedPrice is nil when the order was rejected by the acceptance rule;
// a rejected order carries no trades.
type Order struct {
	OrderID       string           `json:"order_id"`
	ClientOrderID string           `json:"client_order_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Side          string           `json:"side"`
	Instrument    string           `json:"instrument"`
	Price         decimal.Decimal  `json:"price"`
	ExecutedPrice *decimal.Decimal `json:"executed_price"`
	ExecutingUnit string           `json:"executing_unit"`
	Trades        []Trade          `json:"trades"`
	Created       time.Time        `json:"created"`
}

// IsRejected reports whether the acceptance rule turned the order down.
// Rejection is a business outcome, not an error.
func (o *Order) IsRejected() bool {
	return o.ExecutedPrice == nil
}
