package risk

import (
	"math"

	"github.com/rustyeddy/tradelab/pkg/num"
)

// PlannedRisk is the cash lost if a position of units opened at entry is
// stopped out at stop.
func PlannedRisk(units, entry, stop float64) float64 {
	return math.Abs(units) * math.Abs(entry-stop)
}

// RiskPct is plannedRisk as a percentage of equity. ok is false when
// equity is not positive.
func RiskPct(plannedRisk, equity float64) (float64, bool) {
	if !num.Finite(equity) || equity <= 0 {
		return 0, false
	}
	return plannedRisk / equity * 100, true
}

// RR is reward over risk for a planned trade, 0 when stop equals entry.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

type RRResult struct {
	Ratio  float64
	Risk   float64 // price distance to stop
	Reward float64 // price distance to target
}

// RiskReward is the standalone R:R calculator. All three prices are
// required and stop must differ from entry.
func RiskReward(entry, stop, target float64) (RRResult, bool) {
	if !num.AllPositive(entry, stop, target) || entry == stop {
		return RRResult{}, false
	}
	return RRResult{
		Ratio:  RR(entry, stop, target),
		Risk:   math.Abs(entry - stop),
		Reward: math.Abs(target - entry),
	}, true
}

// UnitsForRisk sizes a position so that hitting stop loses riskAmount.
// Returns 0 when any input is missing or stop equals entry.
func UnitsForRisk(riskAmount, entry, stop float64) float64 {
	if !num.AllPositive(riskAmount, entry, stop) || entry == stop {
		return 0
	}
	return riskAmount / math.Abs(entry-stop)
}
