package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/tradelab/fees"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/spf13/cobra"
)

var exchangeCmd = &cobra.Command{
	Use:   "exchange",
	Short: "Manage the exchange fee table",
	Long: `List, add, edit and remove exchanges used by the PnL calculator.

Examples:
  tradelab exchange list
  tradelab exchange add --name "Local DEX" --maker 0.2 --taker 0.3
  tradelab exchange add --id custom-01H... --name "Local DEX" --maker 0.1 --taker 0.2
  tradelab exchange remove custom-01H...`,
}

var exchangeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exchanges and their fees",
	Args:  cobra.NoArgs,
	RunE:  runExchangeList,
}

var exchangeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom exchange or edit one by id",
	Args:  cobra.NoArgs,
	RunE:  runExchangeAdd,
}

var exchangeRemoveCmd = &cobra.Command{
	Use:   "remove <exchange-id>",
	Short: "Remove an exchange",
	Args:  cobra.ExactArgs(1),
	RunE:  runExchangeRemove,
}

var (
	exchangeEditID string
	exchangeForm   fees.Form
)

func init() {
	rootCmd.AddCommand(exchangeCmd)
	exchangeCmd.AddCommand(exchangeListCmd, exchangeAddCmd, exchangeRemoveCmd)

	exchangeAddCmd.Flags().StringVar(&exchangeEditID, "id", "", "id of the exchange to edit")
	exchangeAddCmd.Flags().StringVar(&exchangeForm.Name, "name", "", "exchange name")
	exchangeAddCmd.Flags().StringVar(&exchangeForm.MakerFee, "maker", "", "maker fee percent")
	exchangeAddCmd.Flags().StringVar(&exchangeForm.TakerFee, "taker", "", "taker fee percent")
}

func runExchangeList(cmd *cobra.Command, args []string) error {
	table, err := loadFees()
	if err != nil {
		return fmt.Errorf("load exchanges: %w", err)
	}
	selected := settings.Trading.ExchangeID(table)

	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tMAKER\tTAKER\t")
	for _, e := range table.List() {
		mark := ""
		if e.ID == selected {
			mark = "*"
		}
		name := e.Name
		if e.IsCustom {
			name += " (custom)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s%%\t\n", mark, e.ID, name, num.Fixed(e.MakerFee, 3), num.Fixed(e.TakerFee, 3))
	}
	return tw.Flush()
}

func runExchangeAdd(cmd *cobra.Command, args []string) error {
	table, err := loadFees()
	if err != nil {
		return fmt.Errorf("load exchanges: %w", err)
	}
	table, e, err := table.Submit(exchangeForm, exchangeEditID)
	if err != nil {
		return err
	}
	if err := saveFees(table); err != nil {
		return fmt.Errorf("save exchanges: %w", err)
	}

	log.WithComponent("fees").WithField("exchange", e.ID).Info("exchange saved")
	fmt.Fprintf(out(cmd), "✓ Saved %s (%s): maker %s%%, taker %s%%\n", e.Name, e.ID, num.Fixed(e.MakerFee, 3), num.Fixed(e.TakerFee, 3))
	return nil
}

func runExchangeRemove(cmd *cobra.Command, args []string) error {
	table, err := loadFees()
	if err != nil {
		return fmt.Errorf("load exchanges: %w", err)
	}
	selected := settings.Trading.ExchangeID(table)
	table, next, err := table.Remove(args[0], selected)
	if err != nil {
		return err
	}
	if err := saveFees(table); err != nil {
		return fmt.Errorf("save exchanges: %w", err)
	}

	w := out(cmd)
	fmt.Fprintf(w, "✓ Removed %s\n", args[0])
	if next != selected {
		fmt.Fprintf(w, "  Default exchange is now %s; update trading.default_exchange to keep it.\n", next)
	}
	return nil
}
