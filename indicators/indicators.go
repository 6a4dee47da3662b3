// Package indicators computes technical indicators over candle closes.
// Every indicator has a batch function and a streaming type that agree.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/tradelab/market"
)

// Indicator computes a single streaming value from candles.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	Reset()

	// Update consumes the next closed candle.
	Update(c market.Candle)

	Ready() bool

	// Value is 0 until Ready.
	Value() float64
}

// Feed runs candles through ind and returns its final value.
func Feed(ind Indicator, candles []market.Candle) (float64, bool) {
	for _, c := range candles {
		ind.Update(c)
	}
	return ind.Value(), ind.Ready()
}

func checkPeriod(period, have, need int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if have < need {
		return fmt.Errorf("not enough candles: need %d, got %d", need, have)
	}
	return nil
}
