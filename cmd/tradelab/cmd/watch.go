package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradelab/market"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [query]",
	Short: "Show the market watch list",
	Long: `Show the watch list, optionally filtered by a symbol or name query.

Examples:
  tradelab watch
  tradelab watch usd
  tradelab watch toggle NASDAQ:TSLA`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchToggleCmd = &cobra.Command{
	Use:   "toggle <symbol>",
	Short: "Star or unstar a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchToggle,
}

var watchOnly bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchToggleCmd)
	watchCmd.Flags().BoolVar(&watchOnly, "starred", false, "only starred symbols")
}

func loadWatchlist() (market.Watchlist, error) {
	if settings.Storage.WatchlistPath == "" {
		return market.DefaultWatchlist(), nil
	}
	return market.LoadWatchlist(settings.Storage.WatchlistPath)
}

func runWatch(cmd *cobra.Command, args []string) error {
	wl, err := loadWatchlist()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		wl = wl.Search(args[0])
	}
	if watchOnly {
		wl = wl.Watched()
	}
	w := out(cmd)
	for _, it := range wl {
		star := " "
		if it.Watched {
			star = "*"
		}
		fmt.Fprintf(w, "%s %-18s %s\n", star, it.Symbol, it.Name)
	}
	return nil
}

func runWatchToggle(cmd *cobra.Command, args []string) error {
	if settings.Storage.WatchlistPath == "" {
		return fmt.Errorf("storage.watchlist_path is not set")
	}
	wl, err := loadWatchlist()
	if err != nil {
		return err
	}
	wl, err = wl.Toggle(args[0])
	if err != nil {
		return err
	}
	return market.SaveWatchlist(settings.Storage.WatchlistPath, wl)
}
