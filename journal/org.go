package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradelab/pkg/num"
)

// FormatTradeOrg renders a trade as an Org-mode block. Structured facts go
// in a PROPERTIES drawer, exits in a table, and the notes under Review.
func FormatTradeOrg(t TradeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, t.Direction, shortID(t.ID))
	if len(t.Tags) > 0 {
		// org tags can't contain spaces
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = strings.ReplaceAll(tag, " ", "_")
		}
		fmt.Fprintf(&b, "   :%s:\n", strings.Join(tags, ":"))
	}

	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":CATEGORY: %s\n", t.Category)
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %s\n", num.Fixed(t.EntryPrice, 5))
	fmt.Fprintf(&b, ":QUANTITY: %s\n", num.Fixed(t.Quantity, 8))
	if t.StopPrice > 0 {
		fmt.Fprintf(&b, ":STOP_PRICE: %s\n", num.Fixed(t.StopPrice, 5))
	}
	fmt.Fprintf(&b, ":TOTAL_PNL: %s\n", num.Fixed(t.TotalPnL, 2))
	b.WriteString(":END:\n")

	if len(t.Exits) > 0 {
		b.WriteString("\n*** Exits\n")
		b.WriteString("| time | price | quantity | pnl |\n")
		b.WriteString("|------+-------+----------+-----|\n")
		for _, x := range t.Exits {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				x.Time.UTC().Format(time.RFC3339),
				num.Fixed(x.Price, 5),
				num.Fixed(x.Quantity, 8),
				num.Signed(x.PnL),
			)
		}
	}

	b.WriteString("\n*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		fmt.Fprintf(&b, "- %s\n", t.Notes)
	} else {
		b.WriteString("- \n")
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
