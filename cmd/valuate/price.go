package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meenmo/hybridval/dealio"
	"github.com/meenmo/hybridval/pricing"
)

var priceJSON bool

var priceCmd = &cobra.Command{
	Use:   "price <deal.json>",
	Short: "Price every security in a deal and print the aggregated result",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrice,
}

func init() {
	priceCmd.Flags().BoolVar(&priceJSON, "json", false, "emit the raw DealResult JSON instead of a table")
}

func runPrice(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	defer f.Close()

	deal, err := dealio.Decode(f)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	result, err := pricing.PriceDeal(deal, logger)
	if err != nil && result == nil {
		return fmt.Errorf("price: %w", err)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("one or more securities failed to price; continuing with the rest of the deal")
	}

	if priceJSON {
		return dealio.Encode(os.Stdout, result)
	}

	printPriceTable(result)
	return nil
}

func printPriceTable(result *pricing.DealResult) {
	fmt.Printf("Deal: %s (run %s)\n\n", result.DealName, result.RunID)
	fmt.Printf("%-16s %16s %16s %16s\n", "SECURITY", "TOTAL", "HOST", "DERIVATIVE")
	for _, sec := range result.Securities {
		fmt.Printf("%-16s %16s %16s %16s\n",
			sec.SecurityID,
			humanize.CommafWithDigits(sec.FairValueTotal, 2),
			humanize.CommafWithDigits(sec.FairValueHost, 2),
			humanize.CommafWithDigits(sec.FairValueDeriv, 2),
		)
	}

	fmt.Println()
	fmt.Printf("Total value:      %s\n", humanize.CommafWithDigits(result.TotalValue, 2))
	fmt.Printf("  of which host:  %s\n", humanize.CommafWithDigits(result.TotalHost, 2))
	fmt.Printf("  of which deriv: %s\n", humanize.CommafWithDigits(result.TotalDeriv, 2))
	fmt.Printf("Asset / liability: %s / %s\n",
		humanize.CommafWithDigits(result.TotalAsset, 2),
		humanize.CommafWithDigits(result.TotalLiab, 2),
	)
	if result.PricePerShare != nil {
		fmt.Printf("Price per share:  %s\n", humanize.CommafWithDigits(*result.PricePerShare, 2))
	}
}
