package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeOriginRest marks trades created through the REST order endpoint.
const TradeOriginRest = "rest"

// Trade is the execution produced by an accepted order. Exactly one trade
// is created per accepted order; rejected orders create none.
type Trade struct {
	Instrument    string          `json:"instrument"`
	TradeID       string          `json:"trade_id"`
	Origin        string          `json:"origin"`
	RFQID         *string         `json:"rfq_id"`
	Created       time.Time       `json:"created"`
	Price         decimal.Decimal `json:"price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Order         string          `json:"order"`
	Side          string          `json:"side"`
	ExecutingUnit string          `json:"executing_unit"`
}

// Ledger entry types and groups.
const (
	LedgerTypeTrade   = "trade"
	LedgerGroupDebit  = "debit"
	LedgerGroupCredit = "credit"
)

// LedgerEntry is one leg of a balance movement. An accepted order appends
// two entries, one per currency touched, referencing the resulting trade.
type LedgerEntry struct {
	TransactionID string          `json:"transaction_id"`
	Created       time.Time       `json:"created"`
	Reference     string          `json:"reference"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Group         string          `json:"group"`
}
