package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/tradelab/alerts"
	"github.com/rustyeddy/tradelab/backup"
	"github.com/rustyeddy/tradelab/journal"
	"github.com/rustyeddy/tradelab/market"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore settings, trades, watch list and alerts",
	Long: `Write every piece of local data to one JSON file, or restore from one.

Examples:
  tradelab backup export                  # tradepro-backup-YYYY-MM-DD.json
  tradelab backup export -o backup.json
  tradelab backup import backup.json`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a backup file",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore from a backup file",
	Long: `Restore from a backup file. Trades are added to the journal, replacing
trades with the same id. Alerts and the watch list replace the stored ones.
Settings are written to --config (or ./tradelab.yaml).`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

var backupOutput string

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)

	backupExportCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "output file (default tradepro-backup-<date>.json)")
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	b := backup.Bundle{
		Settings:      &settings.Trading,
		Notifications: &settings.Notifications,
		ExportDate:    now,
	}

	err := withStore(func(store journal.Store) error {
		var err error
		b.Trades, err = store.List(cmd.Context())
		return err
	})
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	if b.Watchlist, err = loadWatchlist(); err != nil {
		return fmt.Errorf("load watch list: %w", err)
	}
	if path := settings.Storage.AlertsPath; path != "" {
		if b.Alerts, err = alerts.Load(path); err != nil {
			return fmt.Errorf("load alerts: %w", err)
		}
	}

	data, err := backup.Export(b)
	if err != nil {
		return err
	}
	path := backupOutput
	if path == "" {
		path = backup.Filename(now)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.WithComponent("backup").WithFields(logrus.Fields{
		"path":   path,
		"trades": len(b.Trades),
		"alerts": len(b.Alerts),
	}).Info("backup written")
	fmt.Fprintf(out(cmd), "✓ Exported %d trade(s), %d alert(s) to %s\n", len(b.Trades), len(b.Alerts), path)
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	b, err := backup.Import(data)
	if err != nil {
		return err
	}

	w := out(cmd)
	if b.Settings != nil || b.Notifications != nil {
		s := *settings
		if b.Settings != nil {
			s.Trading = *b.Settings
		}
		if b.Notifications != nil {
			s.Notifications = *b.Notifications
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("backup settings: %w", err)
		}
		path := v.GetString("config")
		if path == "" {
			path = defaultConfigPath
		}
		if err := s.SaveToFile(path); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Settings restored to %s\n", path)
	}

	if b.Trades != nil {
		err := withStore(func(store journal.Store) error {
			return restoreTrades(cmd, store, b.Trades)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ %d trade(s) restored\n", len(b.Trades))
	}

	if b.Watchlist != nil && settings.Storage.WatchlistPath != "" {
		if err := market.SaveWatchlist(settings.Storage.WatchlistPath, b.Watchlist); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Watch list restored (%d symbols)\n", len(b.Watchlist))
	}

	if b.Alerts != nil && settings.Storage.AlertsPath != "" {
		if err := alerts.Save(settings.Storage.AlertsPath, b.Alerts); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ %d alert(s) restored\n", len(b.Alerts))
	}

	log.WithComponent("backup").WithField("exported", b.ExportDate).Info("backup restored")
	return nil
}

func restoreTrades(cmd *cobra.Command, store journal.Store, trades []journal.TradeRecord) error {
	ctx := cmd.Context()
	for _, t := range trades {
		_, err := store.Update(ctx, t)
		if err == nil {
			continue
		}
		if !errors.Is(err, journal.ErrNotFound) {
			return fmt.Errorf("restore trade %s: %w", t.ID, err)
		}
		if _, err := store.Add(ctx, t); err != nil {
			return fmt.Errorf("restore trade %s: %w", t.ID, err)
		}
	}
	return nil
}
