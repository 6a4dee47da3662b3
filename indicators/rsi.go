package indicators

import (
	"fmt"

	"github.com/rustyeddy/tradelab/market"
)

// RSIFunc calculates Wilder's Relative Strength Index over closes. It needs
// period+1 candles. A series with no losses is 100.
func RSIFunc(candles []market.Candle, period int) (float64, error) {
	if err := checkPeriod(period, len(candles), period+1); err != nil {
		return 0, err
	}
	r := NewRSI(period)
	v, _ := Feed(r, candles)
	return v, nil
}

// RSI is a streaming Relative Strength Index.
type RSI struct {
	period    int
	avgGain   float64
	avgLoss   float64
	count     int
	prevClose float64
	hasPrev   bool
}

func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	return r.period + 1
}

func (r *RSI) Reset() {
	*r = RSI{period: r.period}
}

func (r *RSI) Update(c market.Candle) {
	if !r.hasPrev {
		r.prevClose = c.Close
		r.hasPrev = true
		return
	}

	change := c.Close - r.prevClose
	r.prevClose = c.Close
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count < r.period {
		r.avgGain += gain / float64(r.period)
		r.avgLoss += loss / float64(r.period)
		r.count++
		return
	}
	n := float64(r.period)
	r.avgGain = (r.avgGain*(n-1) + gain) / n
	r.avgLoss = (r.avgLoss*(n-1) + loss) / n
}

func (r *RSI) Ready() bool {
	return r.period > 0 && r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
