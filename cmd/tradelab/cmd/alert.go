package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/tradelab/alerts"
	"github.com/rustyeddy/tradelab/market"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage price alerts",
	Long: `Create price alerts and check them against current prices.

Prices come from --price SYMBOL=PRICE pairs, or from the last close of the
candle files under storage.candles_dir.

Examples:
  tradelab alert add --symbol BINANCE:BTCUSDT --type above --price 45000 --message "breakout"
  tradelab alert check --price BINANCE:BTCUSDT=45100
  tradelab alert check --timeframe 1H`,
}

var alertAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an alert",
	Args:  cobra.NoArgs,
	RunE:  runAlertAdd,
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	Args:  cobra.NoArgs,
	RunE:  runAlertList,
}

var alertRemoveCmd = &cobra.Command{
	Use:   "remove <alert-id>",
	Short: "Remove an alert",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertRemove,
}

var alertCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate alerts against current prices",
	Args:  cobra.NoArgs,
	RunE:  runAlertCheck,
}

var alertReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Find when alerts would have fired on historical candles",
	Args:  cobra.NoArgs,
	RunE:  runAlertReplay,
}

var (
	alertSymbol    string
	alertType      string
	alertPrice     string
	alertMessage   string
	alertPrices    []string
	alertTimeframe string
	alertSince     string
)

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.AddCommand(alertAddCmd, alertListCmd, alertRemoveCmd, alertCheckCmd, alertReplayCmd)

	alertAddCmd.Flags().StringVar(&alertSymbol, "symbol", "", "symbol, e.g. BINANCE:BTCUSDT")
	alertAddCmd.Flags().StringVar(&alertType, "type", "above", "above, below or cross")
	alertAddCmd.Flags().StringVar(&alertPrice, "price", "", "alert level")
	alertAddCmd.Flags().StringVar(&alertMessage, "message", "", "message shown when the alert fires")

	alertCheckCmd.Flags().StringSliceVar(&alertPrices, "price", nil, "current prices as SYMBOL=PRICE")
	alertCheckCmd.Flags().StringVar(&alertTimeframe, "timeframe", "", "candle timeframe for last close prices (default from settings)")
	alertReplayCmd.Flags().StringVar(&alertTimeframe, "timeframe", "", "candle timeframe (default from settings)")
	alertReplayCmd.Flags().StringVar(&alertSince, "since", "", "ignore candles before this time")
}

func alertsPath() (string, error) {
	if settings.Storage.AlertsPath == "" {
		return "", fmt.Errorf("storage.alerts_path is not set")
	}
	return settings.Storage.AlertsPath, nil
}

func runAlertAdd(cmd *cobra.Command, args []string) error {
	path, err := alertsPath()
	if err != nil {
		return err
	}
	a, err := alerts.Parse(alertSymbol, alertType, alertPrice, alertMessage)
	if err != nil {
		return err
	}
	list, err := alerts.Load(path)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	if err := alerts.Save(path, append(list, a)); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	log.WithSymbol(a.Symbol).WithField("alert_id", a.ID).Info("alert created")
	fmt.Fprintf(out(cmd), "✓ Alert %s: %s\n", a.ID, a)
	return nil
}

func runAlertList(cmd *cobra.Command, args []string) error {
	path, err := alertsPath()
	if err != nil {
		return err
	}
	list, err := alerts.Load(path)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSYMBOL\tTYPE\tPRICE\tLAST\tTRIGGERED\tMESSAGE\t")
	for _, a := range list {
		last, trig := "-", "-"
		if a.CurrentPrice > 0 {
			last = num.Money(a.CurrentPrice)
		}
		if a.Triggered {
			trig = a.TriggeredAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", a.ID, a.Symbol, a.Type, num.Money(a.Price), last, trig, a.Message)
	}
	return tw.Flush()
}

func runAlertRemove(cmd *cobra.Command, args []string) error {
	path, err := alertsPath()
	if err != nil {
		return err
	}
	list, err := alerts.Load(path)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	list, err = alerts.Remove(list, args[0])
	if err != nil {
		return err
	}
	if err := alerts.Save(path, list); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	fmt.Fprintf(out(cmd), "✓ Removed alert %s\n", args[0])
	return nil
}

// priceSource serves SYMBOL=PRICE pairs, or last closes from the candle
// directory when there are none.
func priceSource(pairs []string, timeframe string) (market.PriceSource, error) {
	if len(pairs) == 0 {
		tf := timeframe
		if tf == "" {
			tf = settings.Trading.DefaultTimeframe
		}
		return market.LastClose{Source: market.CSVCandles{Dir: settings.Storage.CandlesDir}, Timeframe: tf}, nil
	}

	prices := make(map[string]float64, len(pairs))
	for _, kv := range pairs {
		sym, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("bad --price %q, want SYMBOL=PRICE", kv)
		}
		p, err := num.Parse(val)
		if err != nil {
			return nil, fmt.Errorf("bad --price %q: %w", kv, err)
		}
		prices[strings.TrimSpace(sym)] = p
	}
	return market.NewStaticPrices(prices), nil
}

func runAlertCheck(cmd *cobra.Command, args []string) error {
	path, err := alertsPath()
	if err != nil {
		return err
	}
	list, err := alerts.Load(path)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	src, err := priceSource(alertPrices, alertTimeframe)
	if err != nil {
		return err
	}

	now := time.Now()
	updated, fired, checkErr := alerts.Check(cmd.Context(), list, src, now)
	if updated == nil {
		return checkErr
	}
	if checkErr != nil {
		log.WithComponent("alerts").WithError(checkErr).Warn("some alerts could not be priced")
	}
	if err := alerts.Save(path, updated); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}

	w := out(cmd)
	n := settings.Notifications
	quiet := n.Quiet(now)
	for _, a := range fired {
		fmt.Fprintf(w, "🔔 %s (now %s)\n", a, num.Money(a.CurrentPrice))
		log.WithSymbol(a.Symbol).WithFields(logrus.Fields{
			"alert_id": a.ID,
			"price":    a.CurrentPrice,
			"notify":   n.PriceAlerts && !quiet,
		}).Info("alert triggered")
	}
	fmt.Fprintf(w, "%d alert(s) checked, %d triggered\n", len(list), len(fired))
	return checkErr
}

func runAlertReplay(cmd *cobra.Command, args []string) error {
	path, err := alertsPath()
	if err != nil {
		return err
	}
	list, err := alerts.Load(path)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}
	tf := alertTimeframe
	if tf == "" {
		tf = settings.Trading.DefaultTimeframe
	}
	var since time.Time
	if alertSince != "" {
		if since, err = parseWhen(alertSince); err != nil {
			return err
		}
	}

	fires, replayErr := alerts.Replay(cmd.Context(), list, market.CSVCandles{Dir: settings.Storage.CandlesDir}, tf, since)
	w := out(cmd)
	for _, f := range fires {
		fmt.Fprintf(w, "%s  %s (high %s, low %s)\n", f.Candle.Time.UTC().Format("2006-01-02 15:04"), f.Alert,
			num.Money(f.Candle.High), num.Money(f.Candle.Low))
	}
	fmt.Fprintf(w, "%d of %d alert(s) would have fired\n", len(fires), len(list))
	return replayErr
}
