package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func btcLong(t *testing.T) TradeRecord {
	t.Helper()
	tr, err := NewTrade(Entry{
		Symbol:     "BTC/USDT",
		Direction:  Long,
		EntryPrice: 42000,
		EntryTime:  t0,
		Quantity:   0.1,
	}, Swing, "breakout", []string{"breakout", " btc ", "breakout", ""})
	require.NoError(t, err)
	return tr
}

func TestNewTradeDefaults(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, 1.0, tr.Leverage)
	assert.Equal(t, StatusOpen, tr.Status)
	assert.Equal(t, []string{"breakout", "btc"}, tr.Tags)
	assert.Empty(t, tr.Exits)
	assert.Zero(t, tr.TotalPnL)
}

func TestNewTradeRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		e    Entry
	}{
		{"missing symbol", Entry{Direction: Long, EntryPrice: 1, Quantity: 1}},
		{"bad direction", Entry{Symbol: "X", Direction: "UP", EntryPrice: 1, Quantity: 1}},
		{"zero price", Entry{Symbol: "X", Direction: Long, Quantity: 1}},
		{"zero qty", Entry{Symbol: "X", Direction: Long, EntryPrice: 1}},
		{"stop at entry", Entry{Symbol: "X", Direction: Long, EntryPrice: 1, StopPrice: 1, Quantity: 1}},
		{"leverage below one", Entry{Symbol: "X", Direction: Long, EntryPrice: 1, Quantity: 1, Leverage: 0.5}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTrade(tt.e, Swing, "", nil)
			assert.ErrorIs(t, err, ErrInvalidTrade)
		})
	}

	_, err := NewTrade(Entry{Symbol: "X", Direction: Long, EntryPrice: 1, Quantity: 1}, Category("yolo"), "", nil)
	assert.ErrorIs(t, err, ErrInvalidTrade)
}

func TestAddExitStatusTransitions(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)

	x, err := tr.AddExit(45000, 0.05, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, x.ID)
	assert.InDelta(t, 150, x.PnL, 1e-9)
	assert.Equal(t, StatusPartial, tr.Status)
	assert.InDelta(t, 0.05, tr.Remaining(), 1e-12)

	_, err = tr.AddExit(46500, 0.05, t0.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, tr.Status)
	assert.InDelta(t, 375, tr.TotalPnL, 1e-9)
	assert.InDelta(t, 45750, tr.AverageExitPrice(), 1e-9)
	assert.True(t, tr.ClosedAt().Equal(t0.Add(48*time.Hour)))
}

func TestAddExitRejects(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)

	_, err := tr.AddExit(45000, 0.2, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrOverExit)

	_, err = tr.AddExit(0, 0.01, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidExit)

	_, err = tr.AddExit(45000, 0.01, t0.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrExitBeforeEntry)

	assert.Empty(t, tr.Exits, "rejected exits leave the record unchanged")
	assert.Equal(t, StatusOpen, tr.Status)
}

func TestShortExitPnL(t *testing.T) {
	t.Parallel()

	tr, err := NewTrade(Entry{
		Symbol: "ETH/USDT", Direction: Short, EntryPrice: 2600, EntryTime: t0, Quantity: 2,
	}, Swing, "", nil)
	require.NoError(t, err)

	_, err = tr.AddExit(2450, 2, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 300, tr.TotalPnL, 1e-9)
	assert.Equal(t, StatusClosed, tr.Status)
}

func TestRemoveExitRecomputes(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)
	x1, err := tr.AddExit(45000, 0.05, t0.Add(time.Hour))
	require.NoError(t, err)
	_, err = tr.AddExit(46500, 0.05, t0.Add(2*time.Hour))
	require.NoError(t, err)

	require.True(t, tr.RemoveExit(x1.ID))
	assert.False(t, tr.RemoveExit("missing"))
	assert.Len(t, tr.Exits, 1)
	assert.InDelta(t, 225, tr.TotalPnL, 1e-9)
	assert.Equal(t, StatusPartial, tr.Status)
}

func TestNormalizeRecomputesAfterEdit(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)
	_, err := tr.AddExit(45000, 0.1, t0.Add(time.Hour))
	require.NoError(t, err)

	tr.EntryPrice = 44000
	require.NoError(t, tr.Normalize())
	assert.InDelta(t, 100, tr.TotalPnL, 1e-9)

	tr.Quantity = 0.2
	require.NoError(t, tr.Normalize())
	assert.Equal(t, StatusPartial, tr.Status)

	tr.Quantity = 0.05
	assert.ErrorIs(t, tr.Normalize(), ErrOverExit)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	tr := btcLong(t)
	_, err := tr.AddExit(45000, 0.05, t0.Add(time.Hour))
	require.NoError(t, err)

	c := tr.Clone()
	c.Exits[0].Price = 1
	c.Tags[0] = "changed"

	assert.Equal(t, 45000.0, tr.Exits[0].Price)
	assert.Equal(t, "breakout", tr.Tags[0])
}

func TestParseDirectionAndCategory(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection("buy")
	require.NoError(t, err)
	assert.Equal(t, Long, d)
	d, err = ParseDirection(" short ")
	require.NoError(t, err)
	assert.Equal(t, Short, d)
	_, err = ParseDirection("flat")
	assert.Error(t, err)

	c, err := ParseCategory("Scalp")
	require.NoError(t, err)
	assert.Equal(t, Scalp, c)
	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestSortChronological(t *testing.T) {
	t.Parallel()

	recs := []TradeRecord{
		{ID: "c", Entry: Entry{EntryTime: t0.Add(time.Hour)}},
		{ID: "b", Entry: Entry{EntryTime: t0}},
		{ID: "a", Entry: Entry{EntryTime: t0}},
	}
	SortChronological(recs)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "c", recs[2].ID)
}
