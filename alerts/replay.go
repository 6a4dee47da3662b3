package alerts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tradelab/market"
)

// Fire is the first candle that would have triggered an alert.
type Fire struct {
	Alert  Alert
	Candle market.Candle
}

// Replay walks historical candles from since (zero for all) and reports, for
// each alert, the first candle whose range reaches the level: High for
// Above, Low for Below, either side for Cross. Alerts without candles are
// reported in the joined error and the rest are still replayed.
func Replay(ctx context.Context, list []Alert, src market.CandleSource, timeframe string, since time.Time) ([]Fire, error) {
	cache := make(map[string][]market.Candle)
	var (
		fires []Fire
		errs  []error
	)
	for _, a := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, ok := cache[a.Symbol]
		if !ok {
			var err error
			cs, err = src.FetchCandles(ctx, a.Symbol, timeframe, 0)
			if err != nil {
				errs = append(errs, fmt.Errorf("alert %s: %w", a.ID, err))
				continue
			}
			cache[a.Symbol] = cs
		}
		for _, c := range cs {
			if c.Time.Before(since) {
				continue
			}
			if reaches(a, c) {
				fires = append(fires, Fire{Alert: a, Candle: c})
				break
			}
		}
	}
	return fires, errors.Join(errs...)
}

func reaches(a Alert, c market.Candle) bool {
	switch a.Type {
	case Above:
		return c.High >= a.Price
	case Below:
		return c.Low <= a.Price
	case Cross:
		return c.Low <= a.Price && a.Price <= c.High
	}
	return false
}
