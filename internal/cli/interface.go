package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"otc_go/internal/client"
	"otc_go/internal/domain"
	"otc_go/internal/infra/storage"
)

// Interface is the interactive menu over the venue API. It keeps the API
// token and URL in the settings store so they survive restarts.
type Interface struct {
	store  *storage.Store
	prompt *prompter
	out    io.Writer
	logger *slog.Logger

	api    *client.Client
	apiURL string
	token  string
}

// New builds the CLI from persisted settings. defaultAPIURL applies when
// the store holds no URL yet.
func New(store *storage.Store, defaultAPIURL string, in io.Reader, out io.Writer) (*Interface, error) {
	token, err := store.Token()
	if err != nil {
		return nil, err
	}
	apiURL, err := store.APIURL()
	if err != nil {
		return nil, err
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	i := &Interface{
		store:  store,
		prompt: newPrompter(in, out),
		out:    out,
		logger: slog.Default().With("module", "cli"),
		apiURL: apiURL,
		token:  token,
	}
	i.rebuildClient()
	return i, nil
}

func (i *Interface) rebuildClient() {
	i.api = client.New(i.apiURL, i.token)
}

type menuItem struct {
	title  string
	action func(ctx context.Context)
}

// Run loops the menu until the user quits or ctx is cancelled.
func (i *Interface) Run(ctx context.Context) {
	if i.token == "" {
		i.tokenSettings()
	}

	items := []menuItem{
		{"List Instruments", i.listInstruments},
		{"Request for Quote", i.requestForQuote},
		{"Display Balance", i.displayBalance},
		{"Display Order History", i.displayOrderHistory},
		{"Display Trade History", i.displayTradeHistory},
		{"Display Order Details", i.displayOrderDetails},
		{"Display Trade Details", i.displayTradeDetails},
		{"Display Ledger", i.displayLedger},
		{"Token Settings", func(context.Context) { i.tokenSettings() }},
		{"API URL Settings", func(context.Context) { i.apiURLSettings() }},
		{"Check Connection", i.checkConnection},
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Fprintln(i.out, "\n==================================================")
		for n, item := range items {
			fmt.Fprintf(i.out, "%2d) %s\n", n+1, item.title)
		}
		fmt.Fprintln(i.out, " q) Quit")

		choice := i.prompt.String("Action:")
		if choice == "q" || choice == "quit" {
			return
		}
		var n int
		if _, err := fmt.Sscanf(choice, "%d", &n); err != nil || n < 1 || n > len(items) {
			fmt.Fprintln(i.out, "Unknown action.")
			continue
		}
		items[n-1].action(ctx)
	}
}

// requireConnection guards network actions: bail out early with a
// message instead of failing mid-prompt.
func (i *Interface) requireConnection(ctx context.Context) bool {
	if i.api.CheckConnection(ctx) {
		return true
	}
	fmt.Fprintln(i.out, "Could not connect to the server. Please try again later.")
	return false
}

func (i *Interface) listInstruments(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	instruments, err := i.api.Instruments(ctx)
	if err != nil {
		fmt.Fprintf(i.out, "Could not list instruments: %v\n", err)
		return
	}

	fmt.Fprintln(i.out, "Available instruments:")
	for _, instrument := range instruments {
		fmt.Fprintf(i.out, "  %s\n", instrument.Name)
	}
	if i.prompt.YesNo("Request a quote for one of these?") {
		i.quoteFlow(ctx, i.prompt.String("Instrument:"))
	}
}

func (i *Interface) requestForQuote(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	i.quoteFlow(ctx, i.prompt.String("Instrument:"))
}

// quoteFlow requests a quote and optionally executes an order against it,
// then shows the updated balance.
func (i *Interface) quoteFlow(ctx context.Context, instrument string) {
	side := i.prompt.Choice("Side:", []string{domain.SideBuy, domain.SideSell})
	quantity := i.prompt.Decimal("Quantity:")

	quote, err := i.api.RequestQuote(ctx, instrument, side, quantity)
	if err != nil {
		fmt.Fprintf(i.out, "Could not get a quote: %v\n", err)
		return
	}
	printQuote(i.out, quote)

	if !i.prompt.YesNo("Do you want to execute an order with these details?") {
		return
	}
	if quote.HasExpired() {
		fmt.Fprintln(i.out, "Note: this quote has expired; the venue may reject the price.")
	}
	orderType := i.prompt.Choice("Order Type:", []string{domain.OrderTypeFOK, domain.OrderTypeMKT})
	executingUnit := i.prompt.String("Executing Unit (optional):")

	order, err := i.api.OrderFromQuote(ctx, quote, orderType, executingUnit)
	if err != nil {
		fmt.Fprintf(i.out, "Order failed: %v\n", err)
		return
	}
	if order.IsRejected() {
		fmt.Fprintln(i.out, "\nYour order was rejected.")
	} else {
		fmt.Fprintln(i.out, "\nYour order was successfully placed.")
	}
	printOrder(i.out, order)
	i.displayBalance(ctx)
}

func (i *Interface) displayBalance(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	balances, err := i.api.Balance(ctx)
	if err != nil {
		fmt.Fprintf(i.out, "Could not fetch balance: %v\n", err)
		return
	}
	printBalance(i.out, balances)
}

func (i *Interface) displayOrderHistory(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	orders, err := i.api.OrderHistory(ctx)
	if err != nil {
		fmt.Fprintf(i.out, "Could not fetch orders: %v\n", err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(i.out, "No orders yet.")
		return
	}
	for n := range orders {
		printOrder(i.out, &orders[n])
	}
}

func (i *Interface) displayTradeHistory(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	trades, err := i.api.TradeHistory(ctx)
	if err != nil {
		fmt.Fprintf(i.out, "Could not fetch trades: %v\n", err)
		return
	}
	if len(trades) == 0 {
		fmt.Fprintln(i.out, "No trades yet.")
		return
	}
	for n := range trades {
		printTrade(i.out, &trades[n])
	}
}

func (i *Interface) displayOrderDetails(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	order, err := i.api.OrderDetail(ctx, i.prompt.String("Order id:"))
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			fmt.Fprintln(i.out, "Order not found.")
		} else {
			fmt.Fprintf(i.out, "Could not fetch order: %v\n", err)
		}
		return
	}
	printOrder(i.out, order)
}

func (i *Interface) displayTradeDetails(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	trade, err := i.api.TradeDetail(ctx, i.prompt.String("Trade id:"))
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			fmt.Fprintln(i.out, "Trade not found.")
		} else {
			fmt.Fprintf(i.out, "Could not fetch trade: %v\n", err)
		}
		return
	}
	printTrade(i.out, trade)
}

func (i *Interface) displayLedger(ctx context.Context) {
	if !i.requireConnection(ctx) {
		return
	}
	entries, err := i.api.LedgerHistory(ctx)
	if err != nil {
		fmt.Fprintf(i.out, "Could not fetch ledger: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(i.out, "Ledger is empty.")
		return
	}
	printLedger(i.out, entries)
}

func (i *Interface) tokenSettings() {
	token := i.prompt.String("API token:")
	if token == "" {
		return
	}
	if err := i.store.SetToken(token); err != nil {
		i.logger.Error("failed to persist token", slog.Any("error", err))
	}
	i.token = token
	i.rebuildClient()
	fmt.Fprintln(i.out, "Token saved.")
}

func (i *Interface) apiURLSettings() {
	url := i.prompt.String("API URL:")
	if url == "" {
		return
	}
	if err := i.store.SetAPIURL(url); err != nil {
		i.logger.Error("failed to persist API URL", slog.Any("error", err))
	}
	i.apiURL = url
	i.rebuildClient()
	fmt.Fprintln(i.out, "API URL saved.")
}

func (i *Interface) checkConnection(ctx context.Context) {
	if i.api.CheckConnection(ctx) {
		fmt.Fprintln(i.out, "Connection OK.")
	} else {
		fmt.Fprintln(i.out, "Connection failed.")
	}
}
