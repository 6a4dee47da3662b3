package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/tradelab/indicators"
	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/spf13/cobra"
)

var candlesCmd = &cobra.Command{
	Use:   "candles",
	Short: "Inspect candle files and their indicators",
	Long: `Read OHLCV candles from CSV files under storage.candles_dir. Files are
named <SYMBOL>_<timeframe>.csv, e.g. BTCUSDT_1H.csv.

Examples:
  tradelab candles show BTC/USDT --timeframe 1H --limit 20
  tradelab candles analyze BTC/USDT --rsi 14 --atr 14`,
}

var candlesShowCmd = &cobra.Command{
	Use:   "show <symbol>",
	Short: "Print the most recent candles",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandlesShow,
}

var candlesAnalyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "MA, EMA, RSI and ATR of the latest candles",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandlesAnalyze,
}

var (
	candleTimeframe string
	candleLimit     int
	candlePeriods   = indicators.DefaultPeriods()
	crossFast       int
	crossSlow       int
)

func init() {
	rootCmd.AddCommand(candlesCmd)
	candlesCmd.AddCommand(candlesShowCmd, candlesAnalyzeCmd)

	candlesCmd.PersistentFlags().StringVarP(&candleTimeframe, "timeframe", "t", "", "timeframe (default from settings)")
	candlesShowCmd.Flags().IntVarP(&candleLimit, "limit", "n", 10, "number of candles, 0 for all")
	candlesAnalyzeCmd.Flags().IntVarP(&candleLimit, "limit", "n", 0, "use only the last n candles, 0 for all")
	candlesAnalyzeCmd.Flags().IntVar(&candlePeriods.MA, "ma", candlePeriods.MA, "moving average period")
	candlesAnalyzeCmd.Flags().IntVar(&candlePeriods.EMA, "ema", candlePeriods.EMA, "exponential moving average period")
	candlesAnalyzeCmd.Flags().IntVar(&candlePeriods.RSI, "rsi", candlePeriods.RSI, "RSI period")
	candlesAnalyzeCmd.Flags().IntVar(&candlePeriods.ATR, "atr", candlePeriods.ATR, "ATR period")
	candlesAnalyzeCmd.Flags().IntVar(&crossFast, "fast", 9, "fast EMA period for crossovers")
	candlesAnalyzeCmd.Flags().IntVar(&crossSlow, "slow", 21, "slow EMA period for crossovers")
}

func candleSource() (market.CSVCandles, string, error) {
	tf := candleTimeframe
	if tf == "" {
		tf = settings.Trading.DefaultTimeframe
	}
	name, _, err := market.ParseTimeframe(tf)
	if err != nil {
		return market.CSVCandles{}, "", err
	}
	return market.CSVCandles{Dir: settings.Storage.CandlesDir}, name, nil
}

func runCandlesShow(cmd *cobra.Command, args []string) error {
	src, tf, err := candleSource()
	if err != nil {
		return err
	}
	cs, err := src.FetchCandles(cmd.Context(), args[0], tf, candleLimit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TIME\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME\t")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", c.Time.UTC().Format("2006-01-02 15:04"),
			num.Fixed(c.Open, 4), num.Fixed(c.High, 4), num.Fixed(c.Low, 4), num.Fixed(c.Close, 4), num.Fixed(c.Volume, 2))
	}
	return tw.Flush()
}

func runCandlesAnalyze(cmd *cobra.Command, args []string) error {
	src, tf, err := candleSource()
	if err != nil {
		return err
	}
	s, err := indicators.Analyze(cmd.Context(), src, args[0], tf, candleLimit, candlePeriods)
	if err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "%s %s: %d candles, last close %s at %s\n", s.Symbol, s.Timeframe, s.Candles,
		num.Fixed(s.Last.Close, 4), s.Last.Time.UTC().Format("2006-01-02 15:04"))
	row := func(ind indicators.Indicator, v float64) {
		if !s.Ready[ind.Name()] {
			fmt.Fprintf(w, "  %-8s warming up (needs %d candles)\n", ind.Name(), ind.Warmup())
			return
		}
		fmt.Fprintf(w, "  %-8s %s\n", ind.Name(), num.Fixed(v, 4))
	}
	row(indicators.NewMA(candlePeriods.MA), s.MA)
	row(indicators.NewEMA(candlePeriods.EMA), s.EMA)
	row(indicators.NewRSI(candlePeriods.RSI), s.RSI)
	row(indicators.NewATR(candlePeriods.ATR), s.ATR)

	cs, err := src.FetchCandles(cmd.Context(), args[0], tf, candleLimit)
	if err != nil {
		return err
	}
	tr, err := indicators.EMACross(cs, crossFast, crossSlow)
	if err != nil {
		fmt.Fprintf(w, "  EMA %d/%d  %v\n", crossFast, crossSlow, err)
		return nil
	}
	fmt.Fprintf(w, "  EMA %d/%d  %s (%s / %s)\n", crossFast, crossSlow, trendLabel(tr.Kind), num.Fixed(tr.Fast, 4), num.Fixed(tr.Slow, 4))
	if last, ok := tr.Last(); ok {
		fmt.Fprintf(w, "  last cross %s at %s, close %s\n", last.Kind, last.Time.UTC().Format("2006-01-02 15:04"), num.Fixed(last.Close, 4))
	}
	return nil
}

func trendLabel(k indicators.CrossKind) string {
	if k == "" {
		return "flat"
	}
	return string(k)
}
