package indicators

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradelab/market"
)

type Periods struct {
	MA  int
	EMA int
	RSI int
	ATR int
}

func DefaultPeriods() Periods {
	return Periods{MA: 20, EMA: 50, RSI: 14, ATR: 14}
}

// Snapshot holds the latest value of each indicator. A value whose
// indicator has not warmed up is reported as not ok in Ready.
type Snapshot struct {
	Symbol    string
	Timeframe string
	Candles   int
	Last      market.Candle

	MA, EMA, RSI, ATR float64
	Ready             map[string]bool
}

// Compute streams candles through MA, EMA, RSI and ATR.
func Compute(candles []market.Candle, p Periods) (Snapshot, error) {
	if len(candles) == 0 {
		return Snapshot{}, market.ErrNoData
	}

	ma, ema, rsi, atr := NewMA(p.MA), NewEMA(p.EMA), NewRSI(p.RSI), NewATR(p.ATR)
	s := Snapshot{
		Candles: len(candles),
		Last:    candles[len(candles)-1],
		Ready:   make(map[string]bool, 4),
	}
	var ok bool
	s.MA, ok = Feed(ma, candles)
	s.Ready[ma.Name()] = ok
	s.EMA, ok = Feed(ema, candles)
	s.Ready[ema.Name()] = ok
	s.RSI, ok = Feed(rsi, candles)
	s.Ready[rsi.Name()] = ok
	s.ATR, ok = Feed(atr, candles)
	s.Ready[atr.Name()] = ok
	return s, nil
}

// Analyze fetches up to limit candles from src and computes a Snapshot.
func Analyze(ctx context.Context, src market.CandleSource, symbol, timeframe string, limit int, p Periods) (Snapshot, error) {
	candles, err := src.FetchCandles(ctx, symbol, timeframe, limit)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := Compute(candles, p)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s %s: %w", symbol, timeframe, err)
	}
	s.Symbol = symbol
	s.Timeframe = timeframe
	return s, nil
}
