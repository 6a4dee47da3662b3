package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/pkg/num"
)

// Holding is a spot position: Amount units bought for Cost in total.
type Holding struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
	Cost   float64 `json:"cost"`
	Price  float64 `json:"price"`
}

func (h Holding) Value() float64 { return h.Amount * h.Price }

func (h Holding) PnL() float64 { return h.Value() - h.Cost }

// PnLPercent is PnL relative to cost, 0 for a zero cost basis.
func (h Holding) PnLPercent() float64 {
	if h.Cost == 0 {
		return 0
	}
	return h.PnL() / h.Cost * 100
}

// ParseHolding reads "SYMBOL=AMOUNT@PRICE", the amount bought and the
// average price paid per unit.
func ParseHolding(s string) (Holding, error) {
	sym, rest, ok := strings.Cut(s, "=")
	amt, price, ok2 := strings.Cut(rest, "@")
	sym = strings.ToUpper(strings.TrimSpace(sym))
	if !ok || !ok2 || sym == "" {
		return Holding{}, fmt.Errorf("bad holding %q, want SYMBOL=AMOUNT@PRICE", s)
	}
	a, okA := num.Positive(amt)
	p, okP := num.Positive(price)
	if !okA || !okP {
		return Holding{}, fmt.Errorf("bad holding %q: amount and price must be positive", s)
	}
	return Holding{Symbol: sym, Amount: a, Cost: a * p}, nil
}

type Allocation struct {
	Holding
	Percent float64 // share of total value
}

type Valuation struct {
	Holdings []Allocation

	TotalValue      float64
	TotalCost       float64
	TotalPnL        float64
	TotalPnLPercent float64

	Profitable int
	Best       Holding // highest PnLPercent
}

// Value aggregates holdings at their current Price. It reports false when
// there are no holdings or the total cost is zero.
func Value(holdings []Holding) (Valuation, bool) {
	if len(holdings) == 0 {
		return Valuation{}, false
	}

	var v Valuation
	for i, h := range holdings {
		v.TotalValue += h.Value()
		v.TotalCost += h.Cost
		if h.PnL() > 0 {
			v.Profitable++
		}
		if i == 0 || h.PnLPercent() > v.Best.PnLPercent() {
			v.Best = h
		}
	}
	if v.TotalCost == 0 {
		return Valuation{}, false
	}
	v.TotalPnL = v.TotalValue - v.TotalCost
	v.TotalPnLPercent = v.TotalPnL / v.TotalCost * 100

	v.Holdings = make([]Allocation, len(holdings))
	for i, h := range holdings {
		a := Allocation{Holding: h}
		if v.TotalValue > 0 {
			a.Percent = h.Value() / v.TotalValue * 100
		}
		v.Holdings[i] = a
	}
	return v, true
}

// PriceHoldings fills Price from src. Holdings without a price keep their
// previous Price and are reported in the joined error.
func PriceHoldings(ctx context.Context, holdings []Holding, src market.PriceSource) ([]Holding, error) {
	out := make([]Holding, len(holdings))
	copy(out, holdings)

	var errs []error
	for i := range out {
		p, err := src.Price(ctx, out[i].Symbol)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", out[i].Symbol, err))
			continue
		}
		out[i].Price = p
	}
	return out, errors.Join(errs...)
}
