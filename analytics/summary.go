// Package analytics derives statistics from journal records. Nothing here
// mutates its input.
package analytics

import (
	"math"

	"github.com/rustyeddy/tradelab/journal"
)

type StreakKind string

const (
	StreakNone StreakKind = ""
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

// Summary aggregates a set of trade records. A trade is decided once its
// TotalPnL is non-zero; open trades and scratch trades count toward
// Trades but not toward WinRate or streaks.
type Summary struct {
	Trades  int
	Decided int
	Wins    int
	Losses  int

	TotalPnL float64
	WinRate  float64 // percent of decided trades, 0 when none are decided

	CurrentStreak int
	StreakKind    StreakKind
	BestWinStreak int
	MaxLossStreak int

	GrossProfit float64
	GrossLoss   float64 // absolute value
	AvgWin      float64
	AvgLoss     float64 // absolute value

	// ProfitFactor is GrossProfit / GrossLoss. With no losses it is +Inf
	// and HasLosses is false.
	ProfitFactor float64
	HasLosses    bool

	// MaxDrawdown is the largest peak-to-trough drop of cumulative PnL,
	// as a positive amount.
	MaxDrawdown float64
}

// Summarize aggregates recs, which must be in chronological order (as
// returned by journal stores).
func Summarize(recs []journal.TradeRecord) Summary {
	s := Summary{Trades: len(recs)}

	pnls := make([]float64, 0, len(recs))
	for _, r := range recs {
		s.TotalPnL += r.TotalPnL
		switch {
		case r.TotalPnL > 0:
			s.Wins++
			s.GrossProfit += r.TotalPnL
		case r.TotalPnL < 0:
			s.Losses++
			s.GrossLoss -= r.TotalPnL
		default:
			continue
		}
		pnls = append(pnls, r.TotalPnL)
	}
	s.Decided = s.Wins + s.Losses

	if s.Decided > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Decided) * 100
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}

	s.HasLosses = s.GrossLoss > 0
	if s.HasLosses {
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	} else {
		s.ProfitFactor = math.Inf(1)
	}

	s.CurrentStreak, s.StreakKind = currentStreak(pnls)
	s.BestWinStreak = longestRun(pnls, func(p float64) bool { return p > 0 })
	s.MaxLossStreak = longestRun(pnls, func(p float64) bool { return p < 0 })
	s.MaxDrawdown = MaxDrawdown(recs)
	return s
}

// currentStreak walks decided results from the most recent backwards.
func currentStreak(pnls []float64) (int, StreakKind) {
	if len(pnls) == 0 {
		return 0, StreakNone
	}
	last := pnls[len(pnls)-1] > 0
	n := 0
	for i := len(pnls) - 1; i >= 0; i-- {
		if (pnls[i] > 0) != last {
			break
		}
		n++
	}
	if last {
		return n, StreakWin
	}
	return n, StreakLoss
}

func longestRun(pnls []float64, match func(float64) bool) int {
	best, run := 0, 0
	for _, p := range pnls {
		if match(p) {
			run++
			best = max(best, run)
			continue
		}
		run = 0
	}
	return best
}

// MaxDrawdown replays recs in order and returns the largest drop of
// cumulative PnL from a running peak. The peak starts at zero, so an
// initial loss counts as drawdown.
func MaxDrawdown(recs []journal.TradeRecord) float64 {
	var equity, peak, dd float64
	for _, r := range recs {
		equity += r.TotalPnL
		peak = max(peak, equity)
		dd = max(dd, peak-equity)
	}
	return dd
}
