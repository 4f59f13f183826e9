package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"otc_go/internal/domain"

	"github.com/shopspring/decimal"
)

// printBalance renders balances with fiat at 2 decimals and crypto at 8,
// sorted by currency code.
func printBalance(out io.Writer, balances map[string]decimal.Decimal) {
	fmt.Fprintln(out, "==================== Balances ====================")
	codes := make([]string, 0, len(balances))
	for currency := range balances {
		codes = append(codes, currency)
	}
	sort.Strings(codes)

	for _, currency := range codes {
		places := int32(8)
		if domain.IsFiat(currency) {
			places = 2
		}
		fmt.Fprintf(out, "%-4s: %22s\n", currency, balances[currency].StringFixed(places))
	}
}

func printQuote(out io.Writer, quote *domain.Quote) {
	fmt.Fprintln(out, "==================== RFQ Response ====================")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Rfq id\t%s\n", quote.RFQID)
	fmt.Fprintf(w, "Client rfq id\t%s\n", quote.ClientRFQID)
	fmt.Fprintf(w, "Instrument\t%s\n", quote.Instrument)
	fmt.Fprintf(w, "Side\t%s\n", quote.Side)
	fmt.Fprintf(w, "Quantity\t%s\n", quote.Quantity)
	fmt.Fprintf(w, "Price\t%s\n", quote.Price)
	fmt.Fprintf(w, "Created\t%s\n", quote.Created.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Valid until\t%s\n", quote.ValidUntil.Format("2006-01-02 15:04:05"))
	w.Flush()
}

func printOrder(out io.Writer, order *domain.Order) {
	status := "executed"
	if order.IsRejected() {
		status = "REJECTED"
	}
	fmt.Fprintf(out, "==================== Order %s (%s) ====================\n", order.OrderID, status)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Client order id\t%s\n", order.ClientOrderID)
	fmt.Fprintf(w, "Instrument\t%s\n", order.Instrument)
	fmt.Fprintf(w, "Side\t%s\n", order.Side)
	fmt.Fprintf(w, "Quantity\t%s\n", order.Quantity)
	fmt.Fprintf(w, "Price\t%s\n", order.Price)
	if order.ExecutedPrice != nil {
		fmt.Fprintf(w, "Executed price\t%s\n", order.ExecutedPrice)
	} else {
		fmt.Fprintf(w, "Executed price\t-\n")
	}
	if order.ExecutingUnit != "" {
		fmt.Fprintf(w, "Executing unit\t%s\n", order.ExecutingUnit)
	}
	fmt.Fprintf(w, "Created\t%s\n", order.Created.Format("2006-01-02 15:04:05"))
	w.Flush()

	for i := range order.Trades {
		printTrade(out, &order.Trades[i])
	}
}

func printTrade(out io.Writer, trade *domain.Trade) {
	fmt.Fprintf(out, "---------- Trade %s ----------\n", trade.TradeID)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Order\t%s\n", trade.Order)
	fmt.Fprintf(w, "Instrument\t%s\n", trade.Instrument)
	fmt.Fprintf(w, "Side\t%s\n", trade.Side)
	fmt.Fprintf(w, "Quantity\t%s\n", trade.Quantity)
	fmt.Fprintf(w, "Price\t%s\n", trade.Price)
	fmt.Fprintf(w, "Origin\t%s\n", trade.Origin)
	fmt.Fprintf(w, "Created\t%s\n", trade.Created.Format("2006-01-02 15:04:05"))
	w.Flush()
}

func printLedger(out io.Writer, entries []domain.LedgerEntry) {
	fmt.Fprintln(out, "==================== Ledger ====================")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CREATED\tCURRENCY\tAMOUNT\tGROUP\tREFERENCE\n")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			entry.Created.Format("2006-01-02 15:04:05"),
			entry.Currency, entry.Amount, entry.Group, entry.Reference)
	}
	w.Flush()
}
