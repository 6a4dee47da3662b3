package risk

import (
	"math"

	"github.com/rustyeddy/tradelab/pkg/num"
)

type SizeInputs struct {
	AccountSize     float64
	RiskPercent     float64 // 2 means 2% of AccountSize
	EntryPrice      float64
	StopPrice       float64
	TakeProfitPrice float64 // optional, 0 when unset
}

type SizeResult struct {
	PositionSize    float64
	Shares          float64
	RiskAmount      float64
	StopDistance    float64
	RewardAmount    float64
	RiskRewardRatio float64
}

// PositionSize sizes a trade so that a stop-out costs RiskPercent of the
// account. ok is false for any missing, non-positive or non-finite required
// input, or when the stop sits on the entry.
//
//	riskAmount   = account * risk% / 100
//	positionSize = riskAmount / |entry - stop|
//	shares       = positionSize / entry
//	reward       = |target - entry| * shares
//	ratio        = reward / riskAmount
func PositionSize(in SizeInputs) (SizeResult, bool) {
	if !num.AllPositive(in.AccountSize, in.RiskPercent, in.EntryPrice, in.StopPrice) {
		return SizeResult{}, false
	}

	riskAmount := in.AccountSize * in.RiskPercent / 100
	stopDistance := math.Abs(in.EntryPrice - in.StopPrice)
	if stopDistance == 0 {
		return SizeResult{}, false
	}

	positionSize := riskAmount / stopDistance
	shares := positionSize / in.EntryPrice

	res := SizeResult{
		PositionSize: positionSize,
		Shares:       shares,
		RiskAmount:   riskAmount,
		StopDistance: stopDistance,
	}

	if num.Finite(in.TakeProfitPrice) && in.TakeProfitPrice > 0 {
		res.RewardAmount = math.Abs(in.TakeProfitPrice-in.EntryPrice) * shares
		res.RiskRewardRatio = res.RewardAmount / riskAmount
	}
	return res, true
}
