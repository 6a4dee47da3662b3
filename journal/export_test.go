package journal

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedBTC(t *testing.T) TradeRecord {
	t.Helper()
	tr := btcLong(t)
	tr.Notes = "took profit into resistance"
	_, err := tr.AddExit(45000, 0.05, t0.Add(24*time.Hour))
	require.NoError(t, err)
	_, err = tr.AddExit(46500, 0.05, t0.Add(48*time.Hour))
	require.NoError(t, err)
	return tr
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	open, err := NewTrade(Entry{
		Symbol: "AVAX/USDT", Direction: Long, EntryPrice: 35.5, EntryTime: t0, Quantity: 50,
	}, Position, "", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []TradeRecord{closedBTC(t), open}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	col := func(name string) int {
		for i, h := range csvHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}

	btc := rows[1]
	assert.Equal(t, "BTC/USDT", btc[col("symbol")])
	assert.Equal(t, "closed", btc[col("status")])
	assert.Equal(t, "2", btc[col("exits")])
	avg, err := strconv.ParseFloat(btc[col("avg_exit_price")], 64)
	require.NoError(t, err)
	assert.InDelta(t, 45750, avg, 1e-6)
	assert.Equal(t, "375.00", btc[col("total_pnl")])
	assert.Equal(t, "breakout;btc", btc[col("tags")])
	assert.Equal(t, "2024-01-17T09:30:00Z", btc[col("closed_at")])

	avax := rows[2]
	assert.Equal(t, "open", avax[col("status")])
	assert.Equal(t, "", avax[col("closed_at")])
	assert.Equal(t, "35.5", avax[col("entry_price")])
}

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	tr := closedBTC(t)
	out := FormatTradeOrg(tr)

	assert.True(t, strings.HasPrefix(out, "** Trade: BTC/USDT LONG ("+tr.ID[:8]+")\n"))
	assert.Contains(t, out, "   :breakout:btc:\n")
	assert.Contains(t, out, ":ID: "+tr.ID+"\n")
	assert.Contains(t, out, ":STATUS: closed\n")
	assert.Contains(t, out, ":TOTAL_PNL: 375.00\n")
	assert.Contains(t, out, "| 2024-01-16T09:30:00Z | 45000.00000 | 0.05000000 | +150.00 |\n")
	assert.Contains(t, out, "*** Review\n- took profit into resistance\n")
	assert.NotContains(t, out, ":STOP_PRICE:")
}

func TestFormatTradesOrgSeparates(t *testing.T) {
	t.Parallel()

	a := btcLong(t)
	b := btcLong(t)
	out := FormatTradesOrg([]TradeRecord{a, b})
	assert.Equal(t, 2, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, "\n\n\n** Trade:")
	assert.Empty(t, FormatTradesOrg(nil))
}
