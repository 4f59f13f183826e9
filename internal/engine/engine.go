package engine

import (
	"log/slog"
	"sync"
	"time"

	"otc_go/internal/domain"
	"otc_go/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultValidityWindow bounds how long a quote stays indicative.
const DefaultValidityWindow = 10 * time.Second

// maxPriceRatio rejects buys whose requested price trails the market by
// more than 11%: market/requested > 1.11 means the caller's price is stale.
var maxPriceRatio = decimal.RequireFromString("1.11")

// Engine owns the venue's process-wide state: the ledger, the order/trade
// registry and the ledger journal. One mutex spans the whole of an order
// submission (duplicate check, balance read, mutation, registry insert) so
// concurrent submissions cannot race a stale balance check.
type Engine struct {
	mu       sync.Mutex
	pricing  *pricing.Model
	ledger   *domain.Ledger
	registry *Registry
	journal  []domain.LedgerEntry
	validity time.Duration
	logger   *slog.Logger

	// onTrade runs after a submission commits, outside the lock.
	onTrade func(domain.Trade)
}

// New creates an engine. A validity of zero falls back to the default
// quote window.
func New(model *pricing.Model, ledger *domain.Ledger, validity time.Duration) *Engine {
	if validity <= 0 {
		validity = DefaultValidityWindow
	}
	return &Engine{
		pricing:  model,
		ledger:   ledger,
		registry: NewRegistry(),
		validity: validity,
		logger:   slog.Default().With("module", "engine"),
	}
}

// SetTradeListener registers a callback invoked with every executed trade.
// The callback runs after state has committed; rejected orders never reach it.
func (e *Engine) SetTradeListener(fn func(domain.Trade)) {
	e.onTrade = fn
}

// RequestQuote builds an indicative quote. It never mutates shared state.
//
// ValidUntil is advisory: Execute does not check it. The upstream venue
// behaves the same way, so late submissions against an expired quote are
// deliberately not rejected here.
func (e *Engine) RequestQuote(req domain.RFQRequest) (*domain.Quote, error) {
	if !domain.ValidSide(req.Side) {
		return nil, &domain.APIError{Kind: domain.KindGeneric, Message: "side must be buy or sell"}
	}

	price, err := e.pricing.Price(req.Instrument)
	if err != nil {
		return nil, err
	}

	created := time.Now()
	return &domain.Quote{
		ValidUntil:  created.Add(e.validity),
		RFQID:       uuid.NewString(),
		ClientRFQID: req.ClientRFQID,
		Quantity:    req.Quantity,
		Side:        req.Side,
		Instrument:  req.Instrument,
		Price:       price,
		Created:     created,
	}, nil
}

// Execute evaluates an order request against the current market price and
// the ledger. Accepted orders mutate the ledger, produce exactly one trade
// and two journal entries; rejected orders are still recorded, with a nil
// executed price and no trades. Either way the order becomes retrievable
// by both its generated id and its client order id.
func (e *Engine) Execute(req domain.OrderRequest) (*domain.Order, error) {
	if !domain.ValidSide(req.Side) {
		return nil, &domain.APIError{Kind: domain.KindGeneric, Message: "side must be buy or sell"}
	}

	order, trade, err := e.submit(req)
	if err != nil {
		return nil, err
	}

	if order.IsRejected() {
		e.logger.Info("order rejected",
			slog.String("order_id", order.OrderID),
			slog.String("instrument", order.Instrument),
			slog.String("side", order.Side))
	} else {
		e.logger.Info("order executed",
			slog.String("order_id", order.OrderID),
			slog.String("instrument", order.Instrument),
			slog.String("side", order.Side),
			slog.String("executed_price", order.ExecutedPrice.String()))
		if trade != nil && e.onTrade != nil {
			e.onTrade(*trade)
		}
	}
	return order, nil
}

// submit holds the lock for the full check-then-act sequence.
func (e *Engine) submit(req domain.OrderRequest) (*domain.Order, *domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.registry.HasClientOrderID(req.ClientOrderID) {
		return nil, nil, domain.ErrDuplicateOrder
	}

	marketPrice, err := e.pricing.Price(req.Instrument)
	if err != nil {
		return nil, nil, err
	}
	pair, err := domain.ResolveInstrument(req.Instrument)
	if err != nil {
		return nil, nil, err
	}

	orderID := uuid.NewString()
	created := time.Now()
	totalAmount := marketPrice.Mul(req.Quantity)
	baseBalance := e.ledger.Get(pair.Base)
	quoteBalance := e.ledger.Get(pair.Quote)

	// A non-positive requested price counts as stale rather than dividing
	// by zero.
	staleBuyPrice := !req.Price.IsPositive() ||
		marketPrice.Div(req.Price).GreaterThan(maxPriceRatio)
	rejected := (req.Side == domain.SideBuy &&
		(staleBuyPrice || quoteBalance.LessThan(totalAmount))) ||
		(req.Side == domain.SideSell && baseBalance.LessThan(req.Quantity))

	order := &domain.Order{
		OrderID:       orderID,
		ClientOrderID: req.ClientOrderID,
		Quantity:      req.Quantity,
		Side:          req.Side,
		Instrument:    req.Instrument,
		Price:         req.Price,
		ExecutingUnit: req.ExecutingUnit,
		Trades:        []domain.Trade{},
		Created:       created,
	}

	var trade *domain.Trade
	if !rejected {
		if req.Side == domain.SideBuy {
			e.ledger.Debit(pair.Quote, totalAmount)
			e.ledger.Credit(pair.Base, req.Quantity)
		} else {
			e.ledger.Credit(pair.Quote, totalAmount)
			e.ledger.Debit(pair.Base, req.Quantity)
		}

		executed := marketPrice
		order.ExecutedPrice = &executed
		trade = &domain.Trade{
			Instrument:    req.Instrument,
			TradeID:       uuid.NewString(),
			Origin:        domain.TradeOriginRest,
			Created:       created,
			Price:         executed,
			Quantity:      req.Quantity,
			Order:         orderID,
			Side:          req.Side,
			ExecutingUnit: req.ExecutingUnit,
		}
		order.Trades = []domain.Trade{*trade}
		e.appendJournal(trade, pair, totalAmount)
	}

	if err := e.registry.PutOrder(order); err != nil {
		return nil, nil, err
	}
	if trade != nil {
		e.registry.PutTrade(trade)
	}
	return order, trade, nil
}

// appendJournal records the two legs of a balance movement. Must be called
// with the lock held, together with the ledger mutation it mirrors.
func (e *Engine) appendJournal(trade *domain.Trade, pair domain.Pair, totalAmount decimal.Decimal) {
	debited, credited := pair.Quote, pair.Base
	debitAmount, creditAmount := totalAmount, trade.Quantity
	if trade.Side == domain.SideSell {
		debited, credited = pair.Base, pair.Quote
		debitAmount, creditAmount = trade.Quantity, totalAmount
	}

	e.journal = append(e.journal,
		domain.LedgerEntry{
			TransactionID: uuid.NewString(),
			Created:       trade.Created,
			Reference:     trade.TradeID,
			Currency:      debited,
			Amount:        debitAmount.Neg(),
			Type:          domain.LedgerTypeTrade,
			Group:         domain.LedgerGroupDebit,
		},
		domain.LedgerEntry{
			TransactionID: uuid.NewString(),
			Created:       trade.Created,
			Reference:     trade.TradeID,
			Currency:      credited,
			Amount:        creditAmount,
			Type:          domain.LedgerTypeTrade,
			Group:         domain.LedgerGroupCredit,
		},
	)
}

// Balances returns a consistent snapshot of all ledger balances.
func (e *Engine) Balances() map[string]decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Snapshot()
}

// Instruments lists the quotable instruments.
func (e *Engine) Instruments() []domain.Instrument {
	return e.pricing.Instruments()
}

// Order looks up an order by generated id or client order id.
func (e *Engine) Order(id string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetOrder(id)
}

// Orders lists all orders in insertion order.
func (e *Engine) Orders() []*domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ListOrders()
}

// Trade looks up a trade by id.
func (e *Engine) Trade(id string) (*domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetTrade(id)
}

// Trades lists all trades in insertion order.
func (e *Engine) Trades() []*domain.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ListTrades()
}

// LedgerEntries lists the journal in insertion order.
func (e *Engine) LedgerEntries() []domain.LedgerEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := make([]domain.LedgerEntry, len(e.journal))
	copy(entries, e.journal)
	return entries
}
