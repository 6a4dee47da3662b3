// Package market defines candle and price data and the sources that supply
// them. Calculations never fetch data themselves; callers inject a source.
package market

import (
	"context"
	"errors"
	"time"
)

var ErrNoData = errors.New("no market data")

// Candle is one OHLCV bar. Time is the bar's open time.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether the bar's prices are positive and consistent.
func (c Candle) Valid() bool {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 || c.Volume < 0 {
		return false
	}
	return c.High >= c.Low &&
		c.High >= c.Open && c.High >= c.Close &&
		c.Low <= c.Open && c.Low <= c.Close
}

// Range is High - Low.
func (c Candle) Range() float64 { return c.High - c.Low }

// CandleSource supplies historical bars. FetchCandles returns at most limit
// of the most recent bars for symbol at timeframe, oldest first. A limit
// <= 0 returns every bar available.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)
}

// Last returns the trailing n candles, or all of them when there are fewer.
func Last(cs []Candle, n int) []Candle {
	if n <= 0 || n >= len(cs) {
		return cs
	}
	return cs[len(cs)-n:]
}
