package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/tradelab/analytics"
	"github.com/rustyeddy/tradelab/pkg/num"
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Value spot holdings at current prices",
	Long: `Value spot holdings given as SYMBOL=AMOUNT@AVG_PRICE.

Prices come from --price SYMBOL=PRICE pairs, or from the last close of the
symbol's candle file.

Example:
  tradelab portfolio --holding BTC=0.5@40000 --holding ETH=4@2500 --price BTC=42000 --price ETH=2250`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

var (
	portfolioHoldings  []string
	portfolioPrices    []string
	portfolioTimeframe string
)

func init() {
	rootCmd.AddCommand(portfolioCmd)
	portfolioCmd.Flags().StringSliceVar(&portfolioHoldings, "holding", nil, "holding as SYMBOL=AMOUNT@AVG_PRICE (repeatable)")
	portfolioCmd.Flags().StringSliceVar(&portfolioPrices, "price", nil, "current prices as SYMBOL=PRICE")
	portfolioCmd.Flags().StringVar(&portfolioTimeframe, "timeframe", "", "candle timeframe for last close prices (default from settings)")
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	if len(portfolioHoldings) == 0 {
		return errInvalid("at least one --holding is required")
	}
	holdings := make([]analytics.Holding, 0, len(portfolioHoldings))
	for _, s := range portfolioHoldings {
		h, err := analytics.ParseHolding(s)
		if err != nil {
			return err
		}
		holdings = append(holdings, h)
	}

	src, err := priceSource(portfolioPrices, portfolioTimeframe)
	if err != nil {
		return err
	}
	holdings, err = analytics.PriceHoldings(cmd.Context(), holdings, src)
	if err != nil {
		return err
	}
	v, ok := analytics.Value(holdings)
	if !ok {
		return errInvalid("holdings have no cost basis")
	}

	w := out(cmd)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tAMOUNT\tPRICE\tVALUE\tPNL\tPNL %\tALLOC\t")
	for _, a := range v.Holdings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", a.Symbol, num.Fixed(a.Amount, 4), num.Money(a.Price),
			num.Money(a.Value()), num.Signed(a.PnL()), num.Percent(a.PnLPercent()), num.Percent(a.Percent))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Value:   %s\n", num.Money(v.TotalValue))
	fmt.Fprintf(w, "Total Cost:    %s\n", num.Money(v.TotalCost))
	fmt.Fprintf(w, "Total P/L:     %s (%s)\n", num.Signed(v.TotalPnL), num.Percent(v.TotalPnLPercent))
	fmt.Fprintf(w, "Profitable:    %d/%d\n", v.Profitable, len(v.Holdings))
	fmt.Fprintf(w, "Best:          %s %s\n", v.Best.Symbol, num.Percent(v.Best.PnLPercent()))
	return nil
}
