package indicators

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradelab/market"
)

type CrossKind string

const (
	BullCross CrossKind = "bullish"
	BearCross CrossKind = "bearish"
)

// Cross is a candle where the fast EMA moved through the slow one.
type Cross struct {
	Kind  CrossKind
	Time  time.Time
	Close float64
	Index int
}

// Trend is the fast/slow EMA relationship after the last candle.
type Trend struct {
	Fast, Slow float64
	Kind       CrossKind // which side fast is on; "" when equal
	Crosses    []Cross
}

func (t Trend) Last() (Cross, bool) {
	if len(t.Crosses) == 0 {
		return Cross{}, false
	}
	return t.Crosses[len(t.Crosses)-1], true
}

// EMACross streams candles through a fast and a slow EMA and records every
// crossover once both are warm. A bull cross is fast-slow going from <= 0 to
// > 0, a bear cross from >= 0 to < 0.
func EMACross(candles []market.Candle, fast, slow int) (Trend, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return Trend{}, fmt.Errorf("want 0 < fast < slow, got %d/%d", fast, slow)
	}
	if err := checkPeriod(slow, len(candles), slow+1); err != nil {
		return Trend{}, err
	}

	f, s := NewEMA(fast), NewEMA(slow)
	var (
		tr       Trend
		lastDiff float64
		haveLast bool
	)
	for i, c := range candles {
		f.Update(c)
		s.Update(c)
		if !f.Ready() || !s.Ready() {
			continue
		}

		diff := f.Value() - s.Value()
		if haveLast {
			switch {
			case diff > 0 && lastDiff <= 0:
				tr.Crosses = append(tr.Crosses, Cross{Kind: BullCross, Time: c.Time, Close: c.Close, Index: i})
			case diff < 0 && lastDiff >= 0:
				tr.Crosses = append(tr.Crosses, Cross{Kind: BearCross, Time: c.Time, Close: c.Close, Index: i})
			}
		}
		lastDiff, haveLast = diff, true
	}

	tr.Fast, tr.Slow = f.Value(), s.Value()
	switch {
	case tr.Fast > tr.Slow:
		tr.Kind = BullCross
	case tr.Fast < tr.Slow:
		tr.Kind = BearCross
	}
	return tr, nil
}
