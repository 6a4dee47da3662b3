package analytics

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/tradelab/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// closed builds a long trade entered on day i and fully exited for pnl.
func closed(t *testing.T, i int, pnl float64) journal.TradeRecord {
	t.Helper()
	at := day0.Add(time.Duration(i) * 24 * time.Hour)
	tr, err := journal.NewTrade(journal.Entry{
		Symbol: "BTC/USDT", Direction: journal.Long, EntryPrice: 100, EntryTime: at, Quantity: 1,
	}, journal.Swing, "", nil)
	require.NoError(t, err)
	_, err = tr.AddExit(100+pnl, 1, at.Add(time.Hour))
	require.NoError(t, err)
	return tr
}

func open(t *testing.T, i int, cat journal.Category) journal.TradeRecord {
	t.Helper()
	tr, err := journal.NewTrade(journal.Entry{
		Symbol: "AVAX/USDT", Direction: journal.Long, EntryPrice: 35.5,
		EntryTime: day0.Add(time.Duration(i) * 24 * time.Hour), Quantity: 50,
	}, cat, "", []string{"alt"})
	require.NoError(t, err)
	return tr
}

func series(t *testing.T, pnls ...float64) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(pnls))
	for i, p := range pnls {
		out[i] = closed(t, i, p)
	}
	return out
}

func TestWinRateEmptyOrOpen(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Equal(t, 0.0, s.WinRate)
	assert.False(t, math.IsNaN(s.WinRate))
	assert.Equal(t, StreakNone, s.StreakKind)

	s = Summarize([]journal.TradeRecord{open(t, 0, journal.Swing), open(t, 1, journal.Scalp)})
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 2, s.Trades)
	assert.Equal(t, 0, s.Decided)
	assert.Equal(t, "N/A", FormatProfitFactor(s))
}

func TestStreaks(t *testing.T) {
	t.Parallel()

	recs := series(t, 10, 20, -5, 15, 15)
	s := Summarize(recs)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, StreakWin, s.StreakKind)
	assert.Equal(t, 2, s.BestWinStreak)
	assert.Equal(t, 1, s.MaxLossStreak)

	recs = append(recs, closed(t, 5, 5))
	s = Summarize(recs)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.BestWinStreak, "exceeded by the new run")

	withOpen := append(series(t, 10, 20, -5, 15, 15), open(t, 9, journal.Swing))
	s = Summarize(withOpen)
	assert.Equal(t, 2, s.CurrentStreak, "open trades do not break streaks")
}

func TestLossStreak(t *testing.T) {
	t.Parallel()

	s := Summarize(series(t, 10, -1, -2, 5, -3, -4, -5))
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, StreakLoss, s.StreakKind)
	assert.Equal(t, 3, s.MaxLossStreak)
	assert.Equal(t, 1, s.BestWinStreak)
}

func TestSummaryTotals(t *testing.T) {
	t.Parallel()

	s := Summarize(series(t, 150, 300, -70, 225))
	assert.InDelta(t, 605, s.TotalPnL, 1e-9)
	assert.InDelta(t, 75, s.WinRate, 1e-9)
	assert.InDelta(t, 675, s.GrossProfit, 1e-9)
	assert.InDelta(t, 70, s.GrossLoss, 1e-9)
	assert.InDelta(t, 225, s.AvgWin, 1e-9)
	assert.InDelta(t, 70, s.AvgLoss, 1e-9)
	assert.True(t, s.HasLosses)
	assert.InDelta(t, 675.0/70, s.ProfitFactor, 1e-9)
	assert.Equal(t, "9.64", FormatProfitFactor(s))
}

func TestProfitFactorNoLosses(t *testing.T) {
	t.Parallel()

	s := Summarize(series(t, 10, 20))
	assert.False(t, s.HasLosses)
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
	assert.Equal(t, "N/A", FormatProfitFactor(s))
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, MaxDrawdown(series(t, 10, 20)), 1e-9)
	// equity: 10, 30, 20, 5, 25, 15
	assert.InDelta(t, 25, MaxDrawdown(series(t, 10, 20, -10, -15, 20, -10)), 1e-9)
	assert.InDelta(t, 7, MaxDrawdown(series(t, -7, 3)), 1e-9, "initial loss counts")
}

func TestFilterIsAView(t *testing.T) {
	t.Parallel()

	recs := append(series(t, 10, -5), open(t, 3, journal.Scalp))
	before := make([]journal.TradeRecord, len(recs))
	for i := range recs {
		before[i] = recs[i].Clone()
	}

	assert.Len(t, Filter(recs, Profits), 1)
	assert.Len(t, Filter(recs, Losses), 1)
	assert.Len(t, Filter(recs, Open), 1)
	assert.Len(t, Filter(recs, ByCategory(journal.Scalp)), 1)
	assert.Len(t, Filter(recs, ByStatus(journal.StatusClosed)), 2)
	assert.Len(t, Filter(recs, BySymbol("btc/usdt")), 2)
	assert.Len(t, Filter(recs, ByTag("alt"), Open), 1)
	assert.Len(t, Filter(recs), 3)

	got := Filter(recs, Profits)
	got[0].Symbol = "MUTATED"
	assert.Equal(t, before, recs)
}

func TestFilterByName(t *testing.T) {
	t.Parallel()

	recs := append(series(t, 10, -5), open(t, 3, journal.Scalp))
	tests := map[string]int{
		"all": 3, "": 3, "profits": 1, "losses": 1, "open": 1,
		"Scalp": 1, "swing": 2, "position": 0,
	}
	for name, want := range tests {
		p, err := FilterByName(name)
		require.NoError(t, err, name)
		assert.Len(t, Filter(recs, p), want, name)
	}

	_, err := FilterByName("winners")
	assert.Error(t, err)
}

func TestDailyFromTrades(t *testing.T) {
	t.Parallel()

	tr, err := journal.NewTrade(journal.Entry{
		Symbol: "BTC/USDT", Direction: journal.Long, EntryPrice: 42000, EntryTime: day0, Quantity: 0.1,
	}, journal.Swing, "", nil)
	require.NoError(t, err)
	_, err = tr.AddExit(45000, 0.05, day0.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = tr.AddExit(46500, 0.05, day0.Add(26*time.Hour))
	require.NoError(t, err)

	recs := []journal.TradeRecord{tr, closed(t, 1, -20)}
	days := DailyFromTrades(recs, nil)
	require.Len(t, days, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.InDelta(t, 150, days[0].Amount, 1e-9)
	assert.Equal(t, 1, days[0].Trades)
	assert.InDelta(t, 205, days[1].Amount, 1e-9)
	assert.Equal(t, 2, days[1].Trades)
}

func TestDailyStats(t *testing.T) {
	t.Parallel()

	d := func(i int, amount float64, trades int) DailyPnL {
		return DailyPnL{Date: day0.AddDate(0, 0, i), Amount: amount, Trades: trades}
	}
	days := []DailyPnL{
		d(0, 50, 1),
		d(1, 20, 2),
		d(2, 30, 1),
		d(3, -40, 1),
		d(4, 0, 0), // no trades, skipped
		d(5, 10, 1),
		d(6, 0, 0),
		d(7, 25, 3),
	}
	res := DailyStats(days)
	assert.InDelta(t, 95, res.TotalPnL, 1e-9)
	assert.Equal(t, 6, res.TradingDays)
	assert.Equal(t, 5, res.ProfitDays)
	assert.InDelta(t, 5.0/6*100, res.WinRate, 1e-9)
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, 3, res.BestStreak)
	assert.Equal(t, 50.0, res.BestDay.Amount)
	assert.Equal(t, -40.0, res.WorstDay.Amount)

	empty := DailyStats(nil)
	assert.Equal(t, 0.0, empty.WinRate)
	assert.Equal(t, 0, empty.BestStreak)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintSummary(&buf, "Journal", Summarize(series(t, 10, 20)))
	out := buf.String()
	assert.Contains(t, out, " Journal\n")
	assert.Contains(t, out, "Win Rate:      100.00%\n")
	assert.Contains(t, out, "Total P/L:     +30.00\n")
	assert.Contains(t, out, "Profit Factor: N/A\n")
	assert.Contains(t, out, "Current:       2 win\n")

	buf.Reset()
	PrintDaily(&buf, DailyStats(nil))
	assert.Contains(t, buf.String(), "Win Days:      0/0 (0%)\n")
	assert.NotContains(t, buf.String(), "Best Day:")
}
