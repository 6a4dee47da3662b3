package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradelab/config"
	"github.com/rustyeddy/tradelab/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage tradelab settings files. YAML is written for .yaml and .yml
paths, JSON otherwise.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradelab config init -o tradelab.yaml
  tradelab config validate -f tradelab.yaml`,
	// Runs without loading settings so that a broken file can be inspected.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.New(config.Default().Log.Logger())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", defaultConfigPath, "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", defaultConfigPath, "path to config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	w := out(cmd)
	fmt.Fprintf(w, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(w, "\nEdit the file and run with:")
	fmt.Fprintf(w, "  tradelab --config %s journal list\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	t := cfg.Trading
	w := out(cmd)
	fmt.Fprintf(w, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(w, "  Account: $%.2f (Risk: %.1f%%, warn above %.1f%%)\n", t.AccountSize, t.DefaultRiskPercent, t.RiskWarningLevel)
	fmt.Fprintf(w, "  Exchange: %s, timeframe %s\n", t.DefaultExchange, t.DefaultTimeframe)
	fmt.Fprintf(w, "  Session: %s-%s, max %d trades/day\n", t.SessionStart, t.SessionEnd, t.MaxDailyTrades)
	fmt.Fprintf(w, "  Journal: %s", cfg.Storage.Type)
	if cfg.Storage.Path != "" && cfg.Storage.Type != "memory" {
		fmt.Fprintf(w, " (%s)", cfg.Storage.Path)
	}
	fmt.Fprintln(w)
	return nil
}
