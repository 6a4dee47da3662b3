package cmd

import (
	"fmt"
	"io"

	"github.com/rustyeddy/tradelab/indicators"
	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/rustyeddy/tradelab/tools"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Stop and target for a quick trade",
	Long: `Place a stop and a take profit from a preset or from the average
true range.

Presets (long):
  scalp  stop 0.5% / target 1%
  swing  stop 3%   / target 9%
  dca    stop 15%  / target 50%

With --atr, or with --symbol to read ATR from the candle directory, the
stop sits --mult ATRs from entry and the target --rr times further.

Examples:
  tradelab setup --entry 100 --preset swing
  tradelab setup --entry 100 --atr 2 --mult 1.5 --rr 2 --short
  tradelab setup --symbol BTC/USDT --timeframe 1H`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var (
	setupEntry     float64
	setupPreset    string
	setupATR       float64
	setupMult      float64
	setupRR        float64
	setupShort     bool
	setupSymbol    string
	setupTimeframe string
)

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().Float64Var(&setupEntry, "entry", 0, "entry price (default last close with --symbol)")
	setupCmd.Flags().StringVar(&setupPreset, "preset", "", "scalp, swing or dca")
	setupCmd.Flags().Float64Var(&setupATR, "atr", 0, "average true range")
	setupCmd.Flags().Float64Var(&setupMult, "mult", 1.5, "stop distance in ATRs")
	setupCmd.Flags().Float64Var(&setupRR, "rr", 2, "target distance as a multiple of the stop distance")
	setupCmd.Flags().BoolVar(&setupShort, "short", false, "short setup")
	setupCmd.Flags().StringVar(&setupSymbol, "symbol", "", "read ATR and entry from candles of this symbol")
	setupCmd.Flags().StringVar(&setupTimeframe, "timeframe", "", "candle timeframe (default from settings)")
}

func runSetup(cmd *cobra.Command, args []string) error {
	w := out(cmd)
	entry := setupEntry

	if setupPreset != "" {
		p, err := tools.ParsePreset(setupPreset)
		if err != nil {
			return err
		}
		s, ok := tools.QuickSetup(entry, p)
		if !ok {
			return errInvalid("entry must be a positive number")
		}
		printSetup(w, string(s.Preset), entry, s)
		return nil
	}

	atr := setupATR
	if setupSymbol != "" && atr == 0 {
		tf := setupTimeframe
		if tf == "" {
			tf = settings.Trading.DefaultTimeframe
		}
		p := indicators.DefaultPeriods()
		snap, err := indicators.Analyze(cmd.Context(), market.CSVCandles{Dir: settings.Storage.CandlesDir}, setupSymbol, tf, 0, p)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		if !snap.Ready[indicators.NewATR(p.ATR).Name()] {
			return fmt.Errorf("%s %s: not enough candles for ATR(%d)", setupSymbol, tf, p.ATR)
		}
		atr = snap.ATR
		if entry == 0 {
			entry = snap.Last.Close
		}
	}
	if atr == 0 {
		return errInvalid("either --preset, --atr or --symbol is required")
	}

	s, ok := tools.ATRSetup(entry, atr, setupMult, setupRR, !setupShort)
	if !ok {
		return errInvalid("entry, atr, mult and rr must be positive and the stop must stay above zero")
	}
	label := "atr long"
	if setupShort {
		label = "atr short"
	}
	printSetup(w, label, entry, s)
	return nil
}

func printSetup(w io.Writer, label string, entry float64, s tools.Setup) {
	fmt.Fprintf(w, "Setup:         %s\n", label)
	fmt.Fprintf(w, "Entry:         %s\n", num.Fixed(entry, 4))
	fmt.Fprintf(w, "Stop:          %s\n", num.Money(s.Stop))
	fmt.Fprintf(w, "Take Profit:   %s\n", num.Money(s.TakeProfit))
}
