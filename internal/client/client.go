package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"otc_go/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAPIURL points at the hosted UAT venue; local simulation runs
// override it through configuration.
const DefaultAPIURL = "https://api.uat.b2c2.net"

// Client is the REST API client for the OTC venue (boundary layer).
// Business errors come back as *domain.APIError so callers can match on
// the closed error kinds instead of HTTP statuses.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an API client. An empty apiURL falls back to the default.
func New(apiURL, token string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiURL: apiURL,
		token:  token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "api_client"),
	}
}

// Balance returns the account balance per currency.
func (c *Client) Balance(ctx context.Context) (map[string]decimal.Decimal, error) {
	var raw map[string]string
	if err := c.get(ctx, "/balance/", &raw); err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(raw))
	for currency, amount := range raw {
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("balance for %s is not a decimal: %w", currency, err)
		}
		balances[currency] = value
	}
	return balances, nil
}

// Instruments returns the instruments available for trading.
func (c *Client) Instruments(ctx context.Context) ([]domain.Instrument, error) {
	var instruments []domain.Instrument
	if err := c.get(ctx, "/instruments/", &instruments); err != nil {
		return nil, err
	}
	return instruments, nil
}

// RequestQuote sends an RFQ with a generated client_rfq_id.
func (c *Client) RequestQuote(ctx context.Context, instrument, side string, quantity decimal.Decimal) (*domain.Quote, error) {
	req := domain.RFQRequest{
		Instrument:  instrument,
		Side:        side,
		Quantity:    quantity,
		ClientRFQID: uuid.NewString(),
	}

	var quote domain.Quote
	if err := c.post(ctx, "/request_for_quote/", req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateOrder submits an order request.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.post(ctx, "/order/", req, &order); err != nil {
		return nil, err
	}

	if order.IsRejected() {
		c.logger.Warn("order rejected", slog.String("order_id", order.OrderID))
	} else {
		c.logger.Info("order placed", slog.String("order_id", order.OrderID))
	}
	return &order, nil
}

// OrderFromQuote submits an order executing a previously requested quote
// at its quoted price, with a fresh client order id.
func (c *Client) OrderFromQuote(ctx context.Context, quote *domain.Quote, orderType, executingUnit string) (*domain.Order, error) {
	return c.CreateOrder(ctx, domain.OrderRequest{
		Instrument:    quote.Instrument,
		Side:          quote.Side,
		Quantity:      quote.Quantity,
		ClientOrderID: uuid.NewString(),
		Price:         quote.Price,
		OrderType:     orderType,
		ValidUntil:    quote.ValidUntil,
		ExecutingUnit: executingUnit,
	})
}

// OrderHistory returns all orders in insertion order.
func (c *Client) OrderHistory(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, "/order/", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderDetail returns a single order by generated or client order id.
func (c *Client) OrderDetail(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, "/order/"+orderID+"/", &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// TradeHistory returns all trades in insertion order.
func (c *Client) TradeHistory(ctx context.Context) ([]domain.Trade, error) {
	var trades []domain.Trade
	if err := c.get(ctx, "/trade/", &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// TradeDetail returns a single trade by id.
func (c *Client) TradeDetail(ctx context.Context, tradeID string) (*domain.Trade, error) {
	var trade domain.Trade
	if err := c.get(ctx, "/trade/"+tradeID+"/", &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// LedgerHistory returns the venue's ledger journal.
func (c *Client) LedgerHistory(ctx context.Context) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	if err := c.get(ctx, "/ledger/", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CheckConnection reports whether the venue answers at all.
func (c *Client) CheckConnection(ctx context.Context) bool {
	var instruments []domain.Instrument
	if err := c.get(ctx, "/instruments/", &instruments); err != nil {
		c.logger.Warn("connection check failed", slog.Any("error", err))
		return false
	}
	return true
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.doRequest(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.doRequest(ctx, http.MethodPost, endpoint, body, out)
}

// doRequest handles auth headers, serialization and error decoding.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+endpoint, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return c.decodeError(resp.StatusCode, respBytes)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeError rebuilds a typed error from the envelope, falling back to
// the HTTP status when the body carries no recognizable envelope.
func (c *Client) decodeError(status int, body []byte) error {
	var envelope struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		for _, e := range envelope.Errors {
			c.logger.Error("api error", slog.Int("code", e.Code), slog.String("message", e.Message))
		}
		return &domain.APIError{Kind: domain.KindForCode(first.Code), Message: first.Message}
	}

	kind := domain.KindGeneric
	if status == http.StatusNotFound {
		kind = domain.KindNotFound
	}
	return &domain.APIError{Kind: kind, Message: fmt.Sprintf("unexpected status %d", status)}
}
