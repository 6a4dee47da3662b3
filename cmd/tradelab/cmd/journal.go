package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/tradelab/analytics"
	"github.com/rustyeddy/tradelab/journal"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/rustyeddy/tradelab/risk"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record trades and review the journal",
	Long: `Record trades with partial exits, edit them, and review statistics.

The journal lives in the storage configured under storage (file, sqlite or
memory), or in the path given with --journal.

Examples:
  tradelab journal add --symbol BTCUSDT --direction long --entry 43000 --qty 0.1
  tradelab journal exit <trade-id> --price 44000 --qty 0.05
  tradelab journal list --filter profits
  tradelab journal stats
  tradelab journal export --format csv -o trades.csv
  tradelab journal day 2024-01-15`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalExitCmd = &cobra.Command{
	Use:   "exit <trade-id>",
	Short: "Close all or part of a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalExit,
}

var journalEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Edit notes, tags, category or stop of a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEdit,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a trade as an Org-mode block",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Win rate, streaks, profit factor and calendar statistics",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV or Org-mode",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var journalDayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show trades entered on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalDay,
}

var (
	jSymbol    string
	jDirection string
	jEntry     float64
	jQty       float64
	jStop      float64
	jLeverage  float64
	jCategory  string
	jNotes     string
	jTags      []string
	jTime      string

	jExitPrice float64
	jExitQty   float64
	jUndo      string

	jFilter string
	jFormat string
	jOutput string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd, journalExitCmd, journalEditCmd, journalListCmd,
		journalShowCmd, journalDeleteCmd, journalStatsCmd, journalExportCmd, journalDayCmd)

	f := journalAddCmd.Flags()
	f.StringVar(&jSymbol, "symbol", "", "symbol, e.g. BTCUSDT")
	f.StringVar(&jDirection, "direction", "long", "long or short")
	f.Float64Var(&jEntry, "entry", 0, "entry price")
	f.Float64Var(&jQty, "qty", 0, "quantity")
	f.Float64Var(&jStop, "stop", 0, "stop price (optional)")
	f.Float64Var(&jLeverage, "leverage", 1, "leverage")
	f.StringVar(&jCategory, "category", "swing", "scalp, swing or position")
	f.StringVar(&jNotes, "notes", "", "notes")
	f.StringSliceVar(&jTags, "tags", nil, "comma separated tags")
	f.StringVar(&jTime, "time", "", "entry time, RFC3339 or \"2006-01-02 15:04\" (default now)")

	f = journalExitCmd.Flags()
	f.Float64Var(&jExitPrice, "price", 0, "exit price")
	f.Float64Var(&jExitQty, "qty", 0, "quantity to close (default the remaining quantity)")
	f.StringVar(&jTime, "time", "", "exit time, RFC3339 or \"2006-01-02 15:04\" (default now)")
	f.StringVar(&jUndo, "undo", "", "remove the exit with this id instead of adding one")

	f = journalEditCmd.Flags()
	f.Float64Var(&jStop, "stop", 0, "stop price, 0 clears it")
	f.StringVar(&jCategory, "category", "", "scalp, swing or position")
	f.StringVar(&jNotes, "notes", "", "notes")
	f.StringSliceVar(&jTags, "tags", nil, "comma separated tags")

	journalListCmd.Flags().StringVar(&jFilter, "filter", "all", "all, profits, losses, open, scalp, swing or position")
	journalListCmd.Flags().StringVar(&jSymbol, "symbol", "", "only this symbol")
	journalStatsCmd.Flags().StringVar(&jFilter, "filter", "all", "all, profits, losses, open, scalp, swing or position")
	journalStatsCmd.Flags().StringVar(&jSymbol, "symbol", "", "only this symbol")

	journalExportCmd.Flags().StringVarP(&jFormat, "format", "f", "csv", "csv or org")
	journalExportCmd.Flags().StringVarP(&jOutput, "output", "o", "", "output file (default stdout)")
}

// withStore opens the configured journal for the duration of fn.
func withStore(fn func(journal.Store) error) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	dir, err := journal.ParseDirection(jDirection)
	if err != nil {
		return err
	}
	cat, err := journal.ParseCategory(jCategory)
	if err != nil {
		return err
	}
	at, err := parseWhen(jTime)
	if err != nil {
		return err
	}

	t, err := journal.NewTrade(journal.Entry{
		Symbol:     strings.ToUpper(strings.TrimSpace(jSymbol)),
		Direction:  dir,
		EntryPrice: jEntry,
		EntryTime:  at,
		StopPrice:  jStop,
		Quantity:   jQty,
		Leverage:   jLeverage,
	}, cat, jNotes, jTags)
	if err != nil {
		return err
	}

	return withStore(func(store journal.Store) error {
		ctx := cmd.Context()
		today := countDay(ctx, store, time.Now())
		saved, err := store.Add(ctx, t)
		if err != nil {
			return fmt.Errorf("add trade: %w", err)
		}

		w := out(cmd)
		fmt.Fprintf(w, "✓ Trade %s: %s %s %s @ %s\n", saved.ID, saved.Direction, num.Fixed(saved.Quantity, 8), saved.Symbol, num.Fixed(saved.EntryPrice, 5))
		if settings.Notifications.RiskWarnings && saved.StopPrice > 0 {
			d := risk.Evaluate(settings.Trading.Policy(), risk.Plan{
				Now:         saved.EntryTime.In(time.Local),
				Symbol:      saved.Symbol,
				AccountSize: settings.Trading.AccountSize,
				Units:       saved.Quantity,
				Entry:       saved.EntryPrice,
				Stop:        saved.StopPrice,
				TradesToday: today,
			})
			for _, viol := range d.Violations {
				fmt.Fprintf(w, "  Warning: %s\n", viol.Msg)
			}
		}
		log.WithTradeID(saved.ID).WithFields(logrus.Fields{
			"symbol":    saved.Symbol,
			"direction": saved.Direction,
		}).Info("trade added")
		return nil
	})
}

func runJournalExit(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		ctx := cmd.Context()
		if jUndo != "" {
			return undoExit(ctx, cmd.OutOrStdout(), store, args[0], jUndo)
		}

		qty := jExitQty
		if qty == 0 {
			t, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			qty = t.Remaining()
		}
		at, err := parseWhen(jTime)
		if err != nil {
			return err
		}

		t, err := store.AddExit(ctx, args[0], journal.ExitInput{Price: jExitPrice, Quantity: qty, Time: at})
		if err != nil {
			return fmt.Errorf("add exit: %w", err)
		}
		last := t.Exits[len(t.Exits)-1]
		fmt.Fprintf(out(cmd), "✓ Exit %s: %s @ %s, PnL %s (trade %s, total %s)\n",
			last.ID, num.Fixed(last.Quantity, 8), num.Fixed(last.Price, 5), num.Signed(last.PnL), t.Status, num.Signed(t.TotalPnL))
		log.WithTradeID(t.ID).WithField("status", t.Status).Info("exit added")
		return nil
	})
}

func undoExit(ctx context.Context, w io.Writer, store journal.Store, tradeID, exitID string) error {
	t, err := store.Get(ctx, tradeID)
	if err != nil {
		return err
	}
	if !t.RemoveExit(exitID) {
		return fmt.Errorf("exit %q not found on trade %s", exitID, tradeID)
	}
	t, err = store.Update(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Removed exit %s (trade %s, total %s)\n", exitID, t.Status, num.Signed(t.TotalPnL))
	return nil
}

func runJournalEdit(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		ctx := cmd.Context()
		t, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("stop") {
			t.StopPrice = jStop
		}
		if flags.Changed("category") {
			if t.Category, err = journal.ParseCategory(jCategory); err != nil {
				return err
			}
		}
		if flags.Changed("notes") {
			t.Notes = jNotes
		}
		if flags.Changed("tags") {
			t.SetTags(jTags)
		}

		if _, err := store.Update(ctx, t); err != nil {
			return fmt.Errorf("update trade: %w", err)
		}
		fmt.Fprintf(out(cmd), "✓ Updated %s\n", t.ID)
		return nil
	})
}

func filtered(ctx context.Context, store journal.Store) ([]journal.TradeRecord, error) {
	recs, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	pred, err := analytics.FilterByName(jFilter)
	if err != nil {
		return nil, err
	}
	preds := []analytics.Predicate{pred}
	if jSymbol != "" {
		preds = append(preds, analytics.BySymbol(jSymbol))
	}
	return analytics.Filter(recs, preds...), nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		recs, err := filtered(cmd.Context(), store)
		if err != nil {
			return err
		}
		printTrades(out(cmd), recs)
		return nil
	})
}

func printTrades(w io.Writer, recs []journal.TradeRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENTERED\tSYMBOL\tDIR\tCATEGORY\tSTATUS\tQTY\tENTRY\tPNL\t")
	for _, t := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			t.ID, t.EntryTime.Local().Format("2006-01-02 15:04"), t.Symbol, t.Direction, t.Category,
			t.Status, num.Fixed(t.Quantity, 8), num.Fixed(t.EntryPrice, 5), num.Signed(t.TotalPnL))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d trade(s)\n", len(recs))
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		t, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get trade: %w", err)
		}
		fmt.Fprintln(out(cmd), journal.FormatTradeOrg(t))
		return nil
	})
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete trade: %w", err)
		}
		log.WithTradeID(args[0]).Info("trade deleted")
		fmt.Fprintf(out(cmd), "✓ Deleted %s\n", args[0])
		return nil
	})
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		recs, err := filtered(cmd.Context(), store)
		if err != nil {
			return err
		}
		w := out(cmd)
		analytics.PrintSummary(w, "Journal ("+jFilter+")", analytics.Summarize(recs))
		analytics.PrintDaily(w, analytics.DailyStats(analytics.DailyFromTrades(recs, time.Local)))
		return nil
	})
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	return withStore(func(store journal.Store) error {
		recs, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list trades: %w", err)
		}

		w := out(cmd)
		if jOutput != "" {
			f, err := os.Create(jOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		switch strings.ToLower(jFormat) {
		case "csv":
			err = journal.WriteCSV(w, recs)
		case "org":
			_, err = fmt.Fprintln(w, journal.FormatTradesOrg(recs))
		default:
			return fmt.Errorf("unknown format %q (supported: csv, org)", jFormat)
		}
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if jOutput != "" {
			fmt.Fprintf(out(cmd), "✓ Exported %d trade(s) to %s\n", len(recs), jOutput)
		}
		return nil
	})
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	loc := time.Local
	day := time.Now().In(loc).Format(time.DateOnly)
	if len(args) == 1 {
		day = args[0]
	}
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	return withStore(func(store journal.Store) error {
		recs, err := store.ListBetween(cmd.Context(), start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		fmt.Fprintln(out(cmd), journal.FormatTradesOrg(recs))
		return nil
	})
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}
