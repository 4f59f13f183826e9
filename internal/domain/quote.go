package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RFQRequest asks the venue for an indicative price.
type RFQRequest struct {
	Instrument  string          `json:"instrument"`
	Side        string          `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	ClientRFQID string          `json:"client_rfq_id"`
}

// Quote is a time-bounded indicative quote. ValidUntil is advisory
// metadata: the engine does not reject late submissions against an expired
// quote, callers are expected to honor it.
type Quote struct {
	ValidUntil  time.Time       `json:"valid_until"`
	RFQID       string          `json:"rfq_id"`
	ClientRFQID string          `json:"client_rfq_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Side        string          `json:"side"`
	Instrument  string          `json:"instrument"`
	Price       decimal.Decimal `json:"price"`
	Created     time.Time       `json:"created"`
}

// HasExpired reports whether the quote's validity window has passed.
func (q *Quote) HasExpired() bool {
	return !q.ValidUntil.After(time.Now())
}
