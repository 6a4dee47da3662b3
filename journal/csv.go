package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"trade_id", "symbol", "direction", "category", "status",
	"entry_time", "entry_price", "quantity", "leverage", "stop_price",
	"exits", "exited_quantity", "avg_exit_price", "closed_at",
	"total_pnl", "tags", "notes",
}

// WriteCSV writes one row per trade with a header line.
func WriteCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range recs {
		closedAt := ""
		if c := t.ClosedAt(); !c.IsZero() {
			closedAt = c.UTC().Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.Symbol,
			string(t.Direction),
			string(t.Category),
			string(t.Status),
			t.EntryTime.UTC().Format(time.RFC3339),
			f(t.EntryPrice),
			f(t.Quantity),
			f(t.Leverage),
			f(t.StopPrice),
			strconv.Itoa(len(t.Exits)),
			f(t.ExitedQuantity()),
			f(t.AverageExitPrice()),
			closedAt,
			strconv.FormatFloat(t.TotalPnL, 'f', 2, 64),
			strings.Join(t.Tags, ";"),
			t.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
