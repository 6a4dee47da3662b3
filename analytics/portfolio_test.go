package analytics

import (
	"context"
	"testing"

	"github.com/rustyeddy/tradelab/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHolding(t *testing.T) {
	t.Parallel()

	h, err := ParseHolding(" btc = 0.5@40,000")
	require.NoError(t, err)
	assert.Equal(t, "BTC", h.Symbol)
	assert.Equal(t, 0.5, h.Amount)
	assert.InDelta(t, 20000, h.Cost, 1e-9)

	for _, bad := range []string{"", "BTC", "BTC=0.5", "=1@2", "BTC=0@100", "BTC=1@-3", "BTC=x@1"} {
		_, err := ParseHolding(bad)
		assert.Error(t, err, bad)
	}
}

func TestValue(t *testing.T) {
	t.Parallel()

	holdings := []Holding{
		{Symbol: "BTC", Amount: 0.5, Cost: 20000, Price: 42000},
		{Symbol: "ETH", Amount: 4, Cost: 10000, Price: 2250},
		{Symbol: "SOL", Amount: 10, Cost: 1000, Price: 150},
	}
	v, ok := Value(holdings)
	require.True(t, ok)
	assert.InDelta(t, 31500, v.TotalValue, 1e-9)
	assert.InDelta(t, 31000, v.TotalCost, 1e-9)
	assert.InDelta(t, 500, v.TotalPnL, 1e-9)
	assert.InDelta(t, 500.0/31000*100, v.TotalPnLPercent, 1e-9)
	assert.Equal(t, 2, v.Profitable)
	assert.Equal(t, "SOL", v.Best.Symbol)
	assert.InDelta(t, 50, v.Best.PnLPercent(), 1e-9)

	require.Len(t, v.Holdings, 3)
	assert.InDelta(t, 200.0/3, v.Holdings[0].Percent, 1e-9)
	assert.InDelta(t, -10, v.Holdings[1].PnLPercent(), 1e-9)

	_, ok = Value(nil)
	assert.False(t, ok)
	_, ok = Value([]Holding{{Symbol: "AIRDROP", Amount: 5, Price: 1}})
	assert.False(t, ok, "zero cost basis")
}

func TestPriceHoldings(t *testing.T) {
	t.Parallel()

	in := []Holding{
		{Symbol: "BTC", Amount: 1, Cost: 40000},
		{Symbol: "DOGE", Amount: 100, Cost: 10, Price: 0.2},
	}
	src := market.NewStaticPrices(map[string]float64{"BTC": 42000})

	got, err := PriceHoldings(context.Background(), in, src)
	assert.ErrorIs(t, err, market.ErrNoData)
	assert.Equal(t, 42000.0, got[0].Price)
	assert.Equal(t, 0.2, got[1].Price, "unpriced holding keeps its price")
	assert.Equal(t, 0.0, in[0].Price, "input is not modified")
}
