package analytics

import (
	"fmt"
	"io"

	"github.com/rustyeddy/tradelab/pkg/num"
)

// FormatProfitFactor renders "N/A" when there are no losing trades.
func FormatProfitFactor(s Summary) string {
	if !s.HasLosses {
		return "N/A"
	}
	return num.Fixed(s.ProfitFactor, 2)
}

func PrintSummary(w io.Writer, title string, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Trades:        %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %s\n", num.Percent(s.WinRate))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total P/L:     %s\n", num.Signed(s.TotalPnL))
	fmt.Fprintf(w, "Gross Profit:  %s\n", num.Money(s.GrossProfit))
	fmt.Fprintf(w, "Gross Loss:    %s\n", num.Money(s.GrossLoss))
	fmt.Fprintf(w, "Avg Win:       %s\n", num.Money(s.AvgWin))
	fmt.Fprintf(w, "Avg Loss:      %s\n", num.Money(s.AvgLoss))
	fmt.Fprintf(w, "Profit Factor: %s\n", FormatProfitFactor(s))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", num.Money(s.MaxDrawdown))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Streaks")
	fmt.Fprintln(w, "--------------------------------------------------")
	if s.StreakKind == StreakNone {
		fmt.Fprintln(w, "Current:       -")
	} else {
		fmt.Fprintf(w, "Current:       %d %s\n", s.CurrentStreak, s.StreakKind)
	}
	fmt.Fprintf(w, "Best Win:      %d\n", s.BestWinStreak)
	fmt.Fprintf(w, "Worst Loss:    %d\n", s.MaxLossStreak)
	fmt.Fprintln(w)
}

func PrintDaily(w io.Writer, d DailyStatsResult) {
	fmt.Fprintln(w, "Calendar")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total P/L:     %s\n", num.Signed(d.TotalPnL))
	fmt.Fprintf(w, "Win Days:      %d/%d (%s)\n", d.ProfitDays, d.TradingDays, num.Fixed(d.WinRate, 0)+"%")
	fmt.Fprintf(w, "Current:       %d days\n", d.CurrentStreak)
	fmt.Fprintf(w, "Best:          %d days\n", d.BestStreak)
	if d.TradingDays > 0 {
		fmt.Fprintf(w, "Best Day:      %s %s\n", d.BestDay.Date.Format("2006-01-02"), num.Signed(d.BestDay.Amount))
		fmt.Fprintf(w, "Worst Day:     %s %s\n", d.WorstDay.Date.Format("2006-01-02"), num.Signed(d.WorstDay.Amount))
	}
	fmt.Fprintln(w)
}
