package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"otc_go/internal/domain"
	"otc_go/internal/engine"
	"otc_go/internal/pricing"
	"otc_go/internal/server"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	model := pricing.NewModel(pricing.DefaultPrices(), nil, 0)
	eng := engine.New(model, domain.NewLedger(domain.DefaultBalances()), 0)
	ts := httptest.NewServer(server.NewServer(eng).Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL, "test-token")
}

func TestClient_Balance(t *testing.T) {
	c := newTestClient(t)

	balances, err := c.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balances["USD"].Equal(decimal.NewFromInt(400000)) {
		t.Errorf("Expected USD 400000, got %s", balances["USD"])
	}
	if len(balances) != 10 {
		t.Errorf("Expected 10 currencies, got %d", len(balances))
	}
}

func TestClient_Instruments(t *testing.T) {
	c := newTestClient(t)

	instruments, err := c.Instruments(context.Background())
	if err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if len(instruments) != 9 {
		t.Errorf("Expected 9 instruments, got %d", len(instruments))
	}
}

func TestClient_QuoteThenOrder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	quote, err := c.RequestQuote(ctx, "BTCUSD.SPOT", domain.SideBuy, decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("RequestQuote failed: %v", err)
	}
	if quote.ClientRFQID == "" {
		t.Error("Expected a generated client rfq id")
	}
	if !quote.Price.Equal(decimal.RequireFromString("57497.30")) {
		t.Errorf("Expected price 57497.30, got %s", quote.Price)
	}

	order, err := c.OrderFromQuote(ctx, quote, domain.OrderTypeFOK, "")
	if err != nil {
		t.Fatalf("OrderFromQuote failed: %v", err)
	}
	if order.IsRejected() {
		t.Fatal("Expected acceptance at the quoted price")
	}
	if !order.ExecutedPrice.Equal(quote.Price) {
		t.Errorf("Executed at %s, quoted %s", order.ExecutedPrice, quote.Price)
	}

	// The round trip shows up in history and detail lookups.
	orders, err := c.OrderHistory(ctx)
	if err != nil {
		t.Fatalf("OrderHistory failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}

	detail, err := c.OrderDetail(ctx, order.ClientOrderID)
	if err != nil {
		t.Fatalf("OrderDetail by client id failed: %v", err)
	}
	if detail.OrderID != order.OrderID {
		t.Errorf("Detail returned %s, want %s", detail.OrderID, order.OrderID)
	}

	trades, err := c.TradeHistory(ctx)
	if err != nil {
		t.Fatalf("TradeHistory failed: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(trades))
	}

	trade, err := c.TradeDetail(ctx, trades[0].TradeID)
	if err != nil {
		t.Fatalf("TradeDetail failed: %v", err)
	}
	if trade.Order != order.OrderID {
		t.Errorf("Trade references %s, want %s", trade.Order, order.OrderID)
	}

	entries, err := c.LedgerHistory(ctx)
	if err != nil {
		t.Fatalf("LedgerHistory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 ledger entries, got %d", len(entries))
	}
}

func TestClient_ErrorKinds(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.RequestQuote(ctx, "DOGUSD.SPOT", domain.SideBuy, decimal.NewFromInt(1))
	if domain.KindOf(err) != domain.KindUnknownInstrument {
		t.Errorf("Expected UnknownInstrument, got %v", err)
	}

	_, err = c.OrderDetail(ctx, "missing")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}

	req := domain.OrderRequest{
		Instrument:    "BTCUSD.SPOT",
		Side:          domain.SideBuy,
		Quantity:      decimal.NewFromInt(1),
		ClientOrderID: "dup-1",
		Price:         decimal.RequireFromString("57497.30"),
		OrderType:     domain.OrderTypeFOK,
	}
	if _, err := c.CreateOrder(ctx, req); err != nil {
		t.Fatalf("First CreateOrder failed: %v", err)
	}
	_, err = c.CreateOrder(ctx, req)
	if domain.KindOf(err) != domain.KindDuplicateOrder {
		t.Errorf("Expected DuplicateOrder, got %v", err)
	}
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var header string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer ts.Close()

	c := New(ts.URL, "secret")
	if _, err := c.Instruments(context.Background()); err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if header != "Token secret" {
		t.Errorf("Expected 'Token secret' header, got %q", header)
	}

	// Without a token the header stays off the wire.
	c = New(ts.URL, "")
	if _, err := c.Instruments(context.Background()); err != nil {
		t.Fatalf("Instruments failed: %v", err)
	}
	if header != "" {
		t.Errorf("Expected no Authorization header, got %q", header)
	}
}

func TestClient_CheckConnection(t *testing.T) {
	c := newTestClient(t)
	if !c.CheckConnection(context.Background()) {
		t.Error("Expected connection check to pass")
	}

	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	c = New(dead.URL, "")
	if c.CheckConnection(context.Background()) {
		t.Error("Expected connection check to fail against a closed server")
	}
}

func TestClient_DecodeErrorFallback(t *testing.T) {
	// Status-only errors without an envelope still map onto kinds.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(ts.URL, "")
	_, err := c.OrderDetail(context.Background(), "anything")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Errorf("Expected NotFound from bare 404, got %v", err)
	}
}
