package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"otc_go/internal/domain"
	"otc_go/internal/engine"
	"otc_go/internal/pricing"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	model := pricing.NewModel(pricing.DefaultPrices(), nil, 0)
	eng := engine.New(model, domain.NewLedger(domain.DefaultBalances()), 0)
	srv := NewServer(eng)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decoding %s failed: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url string, body, out interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Decoding %s failed: %v", url, err)
		}
	}
	return resp
}

func errorCode(t *testing.T, resp *http.Response, body *errorEnvelope) int {
	t.Helper()
	if len(body.Errors) != 1 {
		t.Fatalf("Expected 1 error in envelope, got %d", len(body.Errors))
	}
	return body.Errors[0].Code
}

func TestBalanceEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var balances map[string]string
	resp := getJSON(t, ts.URL+"/balance/", &balances)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if balances["USD"] != "400000" {
		t.Errorf("Expected USD 400000, got %s", balances["USD"])
	}
	if len(balances) != 10 {
		t.Errorf("Expected 10 currencies, got %d", len(balances))
	}
}

func TestInstrumentsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var instruments []domain.Instrument
	getJSON(t, ts.URL+"/instruments/", &instruments)
	if len(instruments) != 9 {
		t.Fatalf("Expected 9 instruments, got %d", len(instruments))
	}
	for _, instrument := range instruments {
		if instrument.Name == "" {
			t.Error("Instrument missing name")
		}
	}
}

func TestRequestForQuote(t *testing.T) {
	_, ts := newTestServer(t)

	var quote domain.Quote
	resp := postJSON(t, ts.URL+"/request_for_quote/", map[string]string{
		"instrument":    "BTCUSD.SPOT",
		"side":          "buy",
		"quantity":      "1.5",
		"client_rfq_id": "rfq-1",
	}, &quote)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !quote.Price.Equal(decimal.RequireFromString("57497.30")) {
		t.Errorf("Expected price 57497.30, got %s", quote.Price)
	}
	if quote.RFQID == "" {
		t.Error("Expected generated rfq id")
	}
	if quote.ClientRFQID != "rfq-1" {
		t.Errorf("Expected client rfq id rfq-1, got %s", quote.ClientRFQID)
	}
	if !quote.ValidUntil.After(quote.Created) {
		t.Error("Expected valid_until after created")
	}
}

func TestRequestForQuote_UnknownInstrument(t *testing.T) {
	_, ts := newTestServer(t)

	var envelope errorEnvelope
	resp := postJSON(t, ts.URL+"/request_for_quote/", map[string]string{
		"instrument": "DOGUSD.SPOT",
		"side":       "buy",
		"quantity":   "1",
	}, &envelope)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp, &envelope); code != 1002 {
		t.Errorf("Expected code 1002, got %d", code)
	}
}

func TestOrderLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	var order domain.Order
	resp := postJSON(t, ts.URL+"/order/", map[string]string{
		"instrument":      "BTCUSD.SPOT",
		"side":            "buy",
		"quantity":        "1.0",
		"client_order_id": "lifecycle-1",
		"price":           "57497.30",
		"order_type":      "FOK",
	}, &order)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if order.IsRejected() {
		t.Fatal("Expected accepted order")
	}
	if len(order.Trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(order.Trades))
	}

	// Retrievable by both the generated id and the client order id.
	var byGenerated, byClient domain.Order
	getJSON(t, ts.URL+"/order/"+order.OrderID+"/", &byGenerated)
	getJSON(t, ts.URL+"/order/lifecycle-1/", &byClient)
	if byGenerated.OrderID != order.OrderID || byClient.OrderID != order.OrderID {
		t.Error("Order lookup returned a different order")
	}

	var trade domain.Trade
	getJSON(t, ts.URL+"/trade/"+order.Trades[0].TradeID+"/", &trade)
	if trade.Order != order.OrderID {
		t.Errorf("Trade references %s, want %s", trade.Order, order.OrderID)
	}

	var orders []domain.Order
	getJSON(t, ts.URL+"/order/", &orders)
	if len(orders) != 1 {
		t.Errorf("Expected 1 order in history, got %d", len(orders))
	}

	var trades []domain.Trade
	getJSON(t, ts.URL+"/trade/", &trades)
	if len(trades) != 1 {
		t.Errorf("Expected 1 trade in history, got %d", len(trades))
	}

	var entries []domain.LedgerEntry
	getJSON(t, ts.URL+"/ledger/", &entries)
	if len(entries) != 2 {
		t.Errorf("Expected 2 ledger entries, got %d", len(entries))
	}

	var balances map[string]string
	getJSON(t, ts.URL+"/balance/", &balances)
	if !decimal.RequireFromString(balances["BTC"]).Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected BTC 1, got %s", balances["BTC"])
	}
	if !decimal.RequireFromString(balances["USD"]).Equal(decimal.RequireFromString("342502.70")) {
		t.Errorf("Expected USD 342502.70, got %s", balances["USD"])
	}
}

func TestOrder_RejectionStillReturned(t *testing.T) {
	_, ts := newTestServer(t)

	var order domain.Order
	resp := postJSON(t, ts.URL+"/order/", map[string]string{
		"instrument":      "BTCUSD.SPOT",
		"side":            "sell",
		"quantity":        "1.0",
		"client_order_id": "reject-1",
		"price":           "57497.30",
		"order_type":      "FOK",
	}, &order)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Rejection is still a 200, got %d", resp.StatusCode)
	}
	if !order.IsRejected() {
		t.Error("Expected rejected order")
	}
	if len(order.Trades) != 0 {
		t.Errorf("Rejected order carries no trades, got %d", len(order.Trades))
	}
}

func TestOrder_DuplicateClientOrderID(t *testing.T) {
	_, ts := newTestServer(t)

	body := map[string]string{
		"instrument":      "BTCUSD.SPOT",
		"side":            "buy",
		"quantity":        "1.0",
		"client_order_id": "dup-1",
		"price":           "57497.30",
		"order_type":      "FOK",
	}
	postJSON(t, ts.URL+"/order/", body, nil)

	var envelope errorEnvelope
	resp := postJSON(t, ts.URL+"/order/", body, &envelope)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp, &envelope); code != 1003 {
		t.Errorf("Expected code 1003, got %d", code)
	}
}

func TestOrder_NotFound(t *testing.T) {
	_, ts := newTestServer(t)

	var envelope errorEnvelope
	resp := getJSON(t, ts.URL+"/order/missing/", &envelope)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp, &envelope); code != 1004 {
		t.Errorf("Expected code 1004, got %d", code)
	}

	resp = getJSON(t, ts.URL+"/trade/missing/", &envelope)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for trade, got %d", resp.StatusCode)
	}
}

func TestOrder_MalformedBody(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/order/", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if code := errorCode(t, resp, &envelope); code != 1000 {
		t.Errorf("Expected code 1000, got %d", code)
	}
}

func TestMetricsCounters(t *testing.T) {
	srv, ts := newTestServer(t)

	postJSON(t, ts.URL+"/request_for_quote/", map[string]string{
		"instrument": "BTCUSD.SPOT", "side": "buy", "quantity": "1",
	}, nil)
	postJSON(t, ts.URL+"/order/", map[string]string{
		"instrument": "BTCUSD.SPOT", "side": "buy", "quantity": "1.0",
		"client_order_id": "m-1", "price": "57497.30", "order_type": "FOK",
	}, nil)
	postJSON(t, ts.URL+"/order/", map[string]string{
		"instrument": "BTCUSD.SPOT", "side": "sell", "quantity": "99",
		"client_order_id": "m-2", "price": "57497.30", "order_type": "FOK",
	}, nil)
	getJSON(t, ts.URL+"/order/missing/", nil)

	snapshot := srv.Metrics()
	if snapshot.QuotesServed != 1 {
		t.Errorf("Expected 1 quote served, got %d", snapshot.QuotesServed)
	}
	if snapshot.OrdersAccepted != 1 {
		t.Errorf("Expected 1 accepted order, got %d", snapshot.OrdersAccepted)
	}
	if snapshot.OrdersRejected != 1 {
		t.Errorf("Expected 1 rejected order, got %d", snapshot.OrdersRejected)
	}
	if snapshot.ErrorsTotal != 1 {
		t.Errorf("Expected 1 error, got %d", snapshot.ErrorsTotal)
	}
}
