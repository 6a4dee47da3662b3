package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradelab/fees"
	"github.com/rustyeddy/tradelab/journal"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/rustyeddy/tradelab/pnl"
	"github.com/rustyeddy/tradelab/risk"
	"github.com/rustyeddy/tradelab/tools"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Calculate leveraged PnL after exchange fees",
	Long: `Calculate gross PnL, taker fees on both legs, net PnL and a
reward/risk figure against a 2% stop.

Example:
  tradelab pnl --entry 50000 --exit 52000 --qty 1000 --leverage 10 --exchange bybit`,
	Args: cobra.NoArgs,
	RunE: runPnL,
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Size a position from account risk",
	Long: `Size a position so that a stop-out costs a fixed share of the account,
then check the plan against the trading settings.

Example:
  tradelab risk --account 10000 --risk 2 --entry 100 --stop 95 --target 115`,
	Args: cobra.NoArgs,
	RunE: runRisk,
}

var rrCmd = &cobra.Command{
	Use:   "rr",
	Short: "Reward/risk ratio of a planned trade",
	Args:  cobra.NoArgs,
	RunE:  runRR,
}

var fibCmd = &cobra.Command{
	Use:   "fib",
	Short: "Fibonacci retracement levels between a high and a low",
	Args:  cobra.NoArgs,
	RunE:  runFib,
}

var breakevenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Price needed to recover a loss",
	Args:  cobra.NoArgs,
	RunE:  runBreakeven,
}

var (
	pnlEntry    float64
	pnlExit     float64
	pnlQty      float64
	pnlLeverage float64
	pnlExchange string
)

var (
	riskAccount float64
	riskPercent float64
	riskEntry   float64
	riskStop    float64
	riskTarget  float64
	riskSymbol  string
)

var rrEntry, rrStop, rrTarget float64

var fibHigh, fibLow float64

var beEntry, beQty, beLoss float64

func init() {
	rootCmd.AddCommand(pnlCmd, riskCmd, rrCmd, fibCmd, breakevenCmd)

	pnlCmd.Flags().Float64Var(&pnlEntry, "entry", 0, "entry price")
	pnlCmd.Flags().Float64Var(&pnlExit, "exit", 0, "exit price")
	pnlCmd.Flags().Float64Var(&pnlQty, "qty", 0, "position size in quote currency")
	pnlCmd.Flags().Float64Var(&pnlLeverage, "leverage", 1, "leverage multiplier")
	pnlCmd.Flags().StringVar(&pnlExchange, "exchange", "", "exchange id (default from settings)")

	riskCmd.Flags().Float64Var(&riskAccount, "account", 0, "account size (default from settings)")
	riskCmd.Flags().Float64Var(&riskPercent, "risk", 0, "risk percent (default from settings)")
	riskCmd.Flags().Float64Var(&riskEntry, "entry", 0, "entry price")
	riskCmd.Flags().Float64Var(&riskStop, "stop", 0, "stop loss price")
	riskCmd.Flags().Float64Var(&riskTarget, "target", 0, "take profit price (optional)")
	riskCmd.Flags().StringVar(&riskSymbol, "symbol", "", "symbol, used in warnings")

	rrCmd.Flags().Float64Var(&rrEntry, "entry", 0, "entry price")
	rrCmd.Flags().Float64Var(&rrStop, "stop", 0, "stop loss price")
	rrCmd.Flags().Float64Var(&rrTarget, "target", 0, "take profit price")

	fibCmd.Flags().Float64Var(&fibHigh, "high", 0, "swing high")
	fibCmd.Flags().Float64Var(&fibLow, "low", 0, "swing low")

	breakevenCmd.Flags().Float64Var(&beEntry, "entry", 0, "entry price")
	breakevenCmd.Flags().Float64Var(&beQty, "qty", 0, "quantity held")
	breakevenCmd.Flags().Float64Var(&beLoss, "loss", 0, "loss amount to recover")
}

func runPnL(cmd *cobra.Command, args []string) error {
	table, err := loadFees()
	if err != nil {
		return fmt.Errorf("load exchanges: %w", err)
	}
	exID := pnlExchange
	if exID == "" {
		exID = settings.Trading.ExchangeID(table)
	}
	ex, ok := table.Get(exID)
	if !ok {
		return fmt.Errorf("exchange %q: %w", exID, fees.ErrNotFound)
	}

	res, ok := pnl.Calculate(pnl.Inputs{
		EntryPrice: pnlEntry,
		ExitPrice:  pnlExit,
		Quantity:   pnlQty,
		Leverage:   pnlLeverage,
		Exchange:   ex,
	})
	if !ok {
		return errInvalid("entry, exit and quantity must be positive numbers")
	}

	w := out(cmd)
	fmt.Fprintf(w, "Exchange:      %s (taker %s%%)\n", ex.Name, num.Fixed(ex.TakerFee, 3))
	fmt.Fprintf(w, "PnL:           %s\n", num.Signed(res.PnL))
	fmt.Fprintf(w, "Fees:          %s\n", num.Money(res.Fees))
	fmt.Fprintf(w, "Net PnL:       %s\n", num.Signed(res.NetPnL))
	fmt.Fprintf(w, "Net PnL %%:     %s\n", num.Percent(res.PnLPercentage))
	fmt.Fprintf(w, "R:R:           1:%s\n", num.Fixed(res.RiskReward, 2))
	return nil
}

func runRisk(cmd *cobra.Command, args []string) error {
	account := riskAccount
	if account == 0 {
		account = settings.Trading.AccountSize
	}
	pct := riskPercent
	if pct == 0 {
		pct = settings.Trading.DefaultRiskPercent
	}

	res, ok := risk.PositionSize(risk.SizeInputs{
		AccountSize:     account,
		RiskPercent:     pct,
		EntryPrice:      riskEntry,
		StopPrice:       riskStop,
		TakeProfitPrice: riskTarget,
	})
	if !ok {
		return errInvalid("account, risk, entry and stop must be positive and stop must differ from entry")
	}

	w := out(cmd)
	fmt.Fprintf(w, "Risk Amount:   %s\n", num.Money(res.RiskAmount))
	fmt.Fprintf(w, "Stop Distance: %s\n", num.Fixed(res.StopDistance, 4))
	fmt.Fprintf(w, "Position Size: %s\n", num.Fixed(res.PositionSize, 4))
	fmt.Fprintf(w, "Shares:        %s\n", num.Fixed(res.Shares, 4))
	if riskTarget > 0 {
		fmt.Fprintf(w, "Reward:        %s\n", num.Money(res.RewardAmount))
		fmt.Fprintf(w, "R:R:           1:%s\n", num.Fixed(res.RiskRewardRatio, 2))
	}

	now := time.Now()
	d := risk.Evaluate(settings.Trading.Policy(), risk.Plan{
		Now:         now,
		Symbol:      riskSymbol,
		AccountSize: account,
		Units:       res.PositionSize,
		Entry:       riskEntry,
		Stop:        riskStop,
		TakeProfit:  riskTarget,
		TradesToday: tradesToday(cmd.Context(), now),
	})
	for _, viol := range d.Violations {
		fmt.Fprintf(w, "Warning:       %s\n", viol.Msg)
	}
	if !d.Allowed {
		log.WithComponent("risk").WithFields(logrus.Fields{
			"symbol":     riskSymbol,
			"violations": len(d.Violations),
		}).Warn("plan violates trading settings")
	}
	return nil
}

// tradesToday counts journal entries opened on now's calendar day. A
// journal that cannot be read counts as zero.
func tradesToday(ctx context.Context, now time.Time) int {
	store, err := openStore()
	if err != nil {
		log.WithError(err).Debug("journal unavailable for daily trade count")
		return 0
	}
	defer store.Close()
	return countDay(ctx, store, now)
}

func countDay(ctx context.Context, store journal.Store, now time.Time) int {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	recs, err := store.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		log.WithError(err).Debug("journal unavailable for daily trade count")
		return 0
	}
	return len(recs)
}

func runRR(cmd *cobra.Command, args []string) error {
	res, ok := risk.RiskReward(rrEntry, rrStop, rrTarget)
	if !ok {
		return errInvalid("entry, stop and target must be positive and stop must differ from entry")
	}
	w := out(cmd)
	fmt.Fprintf(w, "Risk:          %s\n", num.Fixed(res.Risk, 4))
	fmt.Fprintf(w, "Reward:        %s\n", num.Fixed(res.Reward, 4))
	fmt.Fprintf(w, "R:R:           1:%s\n", num.Fixed(res.Ratio, 2))
	return nil
}

func runFib(cmd *cobra.Command, args []string) error {
	levels, ok := tools.Fibonacci(fibHigh, fibLow)
	if !ok {
		return errInvalid("high must be greater than low")
	}
	w := out(cmd)
	for _, l := range levels {
		fmt.Fprintf(w, "%-10s %s\n", l.Name, num.Fixed(l.Price, 4))
	}
	return nil
}

func runBreakeven(cmd *cobra.Command, args []string) error {
	res, ok := tools.Breakeven(beEntry, beQty, beLoss)
	if !ok {
		return errInvalid("entry, quantity and loss must be positive numbers")
	}
	w := out(cmd)
	fmt.Fprintf(w, "Loss/Share:    %s\n", num.Fixed(res.LossPerShare, 4))
	fmt.Fprintf(w, "Breakeven:     %s\n", num.Fixed(res.BreakevenPrice, 4))
	fmt.Fprintf(w, "Add Quantity:  %s\n", num.Fixed(res.AdditionalQuantity, 4))
	return nil
}
