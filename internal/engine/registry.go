package engine

import "otc_go/internal/domain"

// Registry stores orders and trades for the lifetime of the process.
// Orders are dual-indexed: by the generated order id and by the
// caller-supplied client order id. Listings preserve insertion order.
//
// Registry is not internally synchronized; the engine serializes access
// under its submission lock.
type Registry struct {
	ordersByID       map[string]*domain.Order
	ordersByClientID map[string]*domain.Order
	orderIDs         []string

	tradesByID map[string]*domain.Trade
	tradeIDs   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ordersByID:       make(map[string]*domain.Order),
		ordersByClientID: make(map[string]*domain.Order),
		tradesByID:       make(map[string]*domain.Trade),
	}
}

// HasClientOrderID reports whether the idempotency key was already used.
func (r *Registry) HasClientOrderID(clientOrderID string) bool {
	_, ok := r.ordersByClientID[clientOrderID]
	return ok
}

// PutOrder stores an order under both indexes. Fails with DuplicateOrder
// when the client order id is already present.
func (r *Registry) PutOrder(order *domain.Order) error {
	if r.HasClientOrderID(order.ClientOrderID) {
		return domain.ErrDuplicateOrder
	}
	r.ordersByID[order.OrderID] = order
	r.ordersByClientID[order.ClientOrderID] = order
	r.orderIDs = append(r.orderIDs, order.OrderID)
	return nil
}

// GetOrder looks up an order by generated id, falling back to the client
// order id index.
func (r *Registry) GetOrder(id string) (*domain.Order, error) {
	if order, ok := r.ordersByID[id]; ok {
		return order, nil
	}
	if order, ok := r.ordersByClientID[id]; ok {
		return order, nil
	}
	return nil, domain.ErrNotFound
}

// ListOrders returns all orders in insertion order.
func (r *Registry) ListOrders() []*domain.Order {
	orders := make([]*domain.Order, len(r.orderIDs))
	for i, id := range r.orderIDs {
		orders[i] = r.ordersByID[id]
	}
	return orders
}

// PutTrade stores a trade.
func (r *Registry) PutTrade(trade *domain.Trade) {
	r.tradesByID[trade.TradeID] = trade
	r.tradeIDs = append(r.tradeIDs, trade.TradeID)
}

// GetTrade looks up a trade by id.
func (r *Registry) GetTrade(id string) (*domain.Trade, error) {
	trade, ok := r.tradesByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return trade, nil
}

// ListTrades returns all trades in insertion order.
func (r *Registry) ListTrades() []*domain.Trade {
	trades := make([]*domain.Trade, len(r.tradeIDs))
	for i, id := range r.tradeIDs {
		trades[i] = r.tradesByID[id]
	}
	return trades
}
