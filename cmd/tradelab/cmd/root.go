package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rustyeddy/tradelab/config"
	"github.com/rustyeddy/tradelab/fees"
	"github.com/rustyeddy/tradelab/internal/logger"
	"github.com/rustyeddy/tradelab/journal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigPath = "tradelab.yaml"

var rootCmd = &cobra.Command{
	Use:   "tradelab",
	Short: "Trade PnL, position sizing and journal toolkit",
	Long: `tradelab is the calculation engine of a trading dashboard as a CLI.

It provides tools for:
  - PnL with leverage and exchange fees
  - Risk-based position sizing and R:R checks
  - Fibonacci levels, breakeven and quick stop/target setups
  - A trade journal with partial exits, statistics and exports
  - Price alerts, candle indicators and settings backups

Settings are read from ./tradelab.yaml (or --config) and may be
overridden with TRADELAB_* environment variables, for example
TRADELAB_LOG_LEVEL=debug or TRADELAB_STORAGE_TYPE=sqlite.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

var (
	v        = viper.New()
	settings = config.Default()
	log      = logger.Discard()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./tradelab.yaml when present)")
	pf.String("log-level", "", "log level: trace, debug, info, warn or error")
	pf.String("storage", "", "journal storage: memory, file or sqlite")
	pf.String("journal", "", "journal path for file or sqlite storage")

	v.SetEnvPrefix("TRADELAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("storage.type", pf.Lookup("storage"))
	_ = v.BindPFlag("storage.path", pf.Lookup("journal"))
}

func loadSettings(cmd *cobra.Command, args []string) error {
	s, err := readSettings()
	if err != nil {
		return err
	}
	if lvl := v.GetString("log.level"); lvl != "" {
		s.Log.Level = lvl
	}
	if typ := v.GetString("storage.type"); typ != "" {
		s.Storage.Type = typ
	}
	if p := v.GetString("storage.path"); p != "" {
		s.Storage.Path = p
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settings = s
	log = logger.New(s.Log.Logger())
	log.WithComponent("cli").WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"storage": s.Storage.Type,
	}).Debug("settings loaded")
	return nil
}

func readSettings() (*config.Settings, error) {
	path := v.GetString("config")
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.Default(), nil
		}
		path = defaultConfigPath
	}
	s, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return s, nil
}

func openStore() (journal.Store, error) {
	st := settings.Storage
	switch st.Type {
	case "memory":
		return journal.NewMemory(), nil
	case "file":
		return journal.OpenFile(st.Path)
	case "sqlite":
		return journal.NewSQLite(st.Path)
	}
	return nil, fmt.Errorf("unknown storage type %q", st.Type)
}

func loadFees() (*fees.Table, error) {
	if settings.Storage.FeesPath == "" {
		return fees.Default(), nil
	}
	return fees.Load(settings.Storage.FeesPath)
}

func saveFees(t *fees.Table) error {
	if settings.Storage.FeesPath == "" {
		return errors.New("storage.fees_path is not set")
	}
	return fees.Save(settings.Storage.FeesPath, t)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// errInvalid is returned when a calculator has no result for its inputs.
func errInvalid(what string) error {
	return fmt.Errorf("invalid input: %s", what)
}
