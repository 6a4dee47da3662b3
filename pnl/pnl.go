// Package pnl computes leveraged profit and loss with exchange fees.
package pnl

import (
	"math"

	"github.com/rustyeddy/tradelab/fees"
	"github.com/rustyeddy/tradelab/pkg/num"
)

// AssumedStopPct is the hypothetical stop distance used for the calculator's
// risk/reward figure: a stop 2% below entry.
const AssumedStopPct = 2.0

type Inputs struct {
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64 // position size in quote currency, before leverage
	Leverage   float64
	Exchange   fees.ExchangeFee
}

type Result struct {
	PnL           float64 // gross, before fees
	PnLPercentage float64 // net PnL relative to Quantity
	Fees          float64
	NetPnL        float64
	RiskReward    float64
}

// Calculate returns ok=false when entry, exit or quantity is missing,
// zero or non-finite.
//
// The price move is always exit-entry; a short position entered through
// this calculator is treated with long semantics.
func Calculate(in Inputs) (Result, bool) {
	if !num.AllPositive(in.EntryPrice, in.ExitPrice, in.Quantity) {
		return Result{}, false
	}
	lev := in.Leverage
	if !num.Finite(lev) || lev <= 0 {
		lev = 1
	}

	positionSize := in.Quantity * lev
	priceDiff := in.ExitPrice - in.EntryPrice
	rawPnL := (priceDiff / in.EntryPrice) * positionSize

	entryFee := positionSize * in.Exchange.TakerFee / 100
	exitFee := positionSize * in.Exchange.TakerFee / 100
	totalFees := entryFee + exitFee

	netPnL := rawPnL - totalFees

	return Result{
		PnL:           rawPnL,
		PnLPercentage: (netPnL / in.Quantity) * 100,
		Fees:          totalFees,
		NetPnL:        netPnL,
		RiskReward:    riskReward(in.EntryPrice, positionSize, rawPnL),
	}, true
}

func riskReward(entry, positionSize, rawPnL float64) float64 {
	stop := entry * (1 - AssumedStopPct/100)
	maxLoss := math.Abs((stop-entry)/entry) * positionSize
	if rawPnL <= 0 || maxLoss == 0 {
		return 0
	}
	return math.Abs(rawPnL / maxLoss)
}

// ExitPnL is the realized PnL of closing qty units of a position opened at
// entry, signed by direction: long profits when price rises, short when it
// falls.
func ExitPnL(long bool, entry, exit, qty float64) float64 {
	diff := exit - entry
	if !long {
		diff = entry - exit
	}
	return diff * qty
}
