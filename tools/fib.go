// Package tools holds the small trading calculators: Fibonacci
// retracements, breakeven and quick stop/target presets.
package tools

import "github.com/rustyeddy/tradelab/pkg/num"

// FibRatios are the retracement ratios, from the high (0) to the low (1).
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

type FibLevel struct {
	Ratio float64
	Label string // "23.6%"
	Name  string // "Fib 23.6%", "High", "Low"
	Price float64
}

// Fibonacci returns retracement levels between high and low, ordered from
// 0% (the high) to 100% (the low). ok is false unless high > low > 0.
func Fibonacci(high, low float64) ([]FibLevel, bool) {
	if !num.AllPositive(high, low) || high <= low {
		return nil, false
	}

	diff := high - low
	levels := make([]FibLevel, 0, len(FibRatios))
	for _, r := range FibRatios {
		lvl := FibLevel{
			Ratio: r,
			Label: fibLabel(r),
			Price: high - diff*r,
		}
		switch r {
		case 0:
			lvl.Name = "High"
			lvl.Price = high
		case 1:
			lvl.Name = "Low"
			lvl.Price = low
		default:
			lvl.Name = "Fib " + lvl.Label
		}
		levels = append(levels, lvl)
	}
	return levels, true
}

func fibLabel(r float64) string {
	s := num.Fixed(r*100, 1)
	// "50.0" -> "50", "0.0" -> "0"
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		s = s[:len(s)-2]
	}
	return s + "%"
}
