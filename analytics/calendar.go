package analytics

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradelab/journal"
)

// DailyPnL is one calendar day of realized PnL.
type DailyPnL struct {
	Date   time.Time // midnight of the day in the bucketing location
	Amount float64
	Trades int // exits realized that day
}

// DailyStatsResult summarizes a run of calendar days. Days without trades
// are ignored by the win rate and the streaks.
type DailyStatsResult struct {
	TotalPnL      float64
	ProfitDays    int
	TradingDays   int
	WinRate       float64 // percent of trading days in profit
	CurrentStreak int     // profitable trading days ending at the latest one
	BestStreak    int
	BestDay       DailyPnL
	WorstDay      DailyPnL
}

// DailyFromTrades buckets every exit by its calendar day in loc and
// returns the days in order. Days with no exits are not included.
func DailyFromTrades(recs []journal.TradeRecord, loc *time.Location) []DailyPnL {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[time.Time]*DailyPnL)
	for _, r := range recs {
		for _, x := range r.Exits {
			t := x.Time.In(loc)
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
			d, ok := byDay[day]
			if !ok {
				d = &DailyPnL{Date: day}
				byDay[day] = d
			}
			d.Amount += x.PnL
			d.Trades++
		}
	}

	out := make([]DailyPnL, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// DailyStats computes calendar statistics over days in chronological
// order. A trading day with zero or negative PnL ends a streak.
func DailyStats(days []DailyPnL) DailyStatsResult {
	var res DailyStatsResult

	first := true
	for _, d := range days {
		res.TotalPnL += d.Amount
		if d.Trades == 0 {
			continue
		}
		res.TradingDays++
		if d.Amount > 0 {
			res.ProfitDays++
		}
		if first || d.Amount > res.BestDay.Amount {
			res.BestDay = d
		}
		if first || d.Amount < res.WorstDay.Amount {
			res.WorstDay = d
		}
		first = false
	}
	if res.TradingDays > 0 {
		res.WinRate = float64(res.ProfitDays) / float64(res.TradingDays) * 100
	}

	run, active := 0, true
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Trades == 0 {
			continue
		}
		if d.Amount > 0 {
			run++
			if active {
				res.CurrentStreak++
			}
			continue
		}
		res.BestStreak = max(res.BestStreak, run)
		run = 0
		active = false
	}
	res.BestStreak = max(res.BestStreak, run)
	return res
}
