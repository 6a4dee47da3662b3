package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// PriceSource supplies the current price of a symbol.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// StaticPrices is an in-memory PriceSource. Symbols are matched
// case-insensitively.
type StaticPrices struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewStaticPrices(prices map[string]float64) *StaticPrices {
	sp := &StaticPrices{prices: make(map[string]float64, len(prices))}
	for sym, p := range prices {
		sp.Set(sym, p)
	}
	return sp
}

func (sp *StaticPrices) Set(symbol string, price float64) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.prices[strings.ToUpper(symbol)] = price
}

func (sp *StaticPrices) Price(ctx context.Context, symbol string) (float64, error) {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	p, ok := sp.prices[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("price %s: %w", symbol, ErrNoData)
	}
	return p, nil
}

// LastClose prices a symbol at the close of its latest candle.
type LastClose struct {
	Source    CandleSource
	Timeframe string
}

func (lc LastClose) Price(ctx context.Context, symbol string) (float64, error) {
	cs, err := lc.Source.FetchCandles(ctx, symbol, lc.Timeframe, 1)
	if err != nil {
		return 0, err
	}
	if len(cs) == 0 {
		return 0, fmt.Errorf("price %s: %w", symbol, ErrNoData)
	}
	return cs[len(cs)-1].Close, nil
}
