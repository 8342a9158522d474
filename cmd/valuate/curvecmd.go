package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/meenmo/hybridval/pricing/config"
	"github.com/meenmo/hybridval/pricing/curve"
)

var curveCmd = &cobra.Command{
	Use:   "curve <curve.json>",
	Short: "Bootstrap a zero curve and print stepwise forward rates on the standard tenor grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runCurve,
}

type curvePointDoc struct {
	TenorYears float64 `json:"tenor_years"`
	Yield      float64 `json:"yield"`
}

func runCurve(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("curve: %w", err)
	}

	var docs []curvePointDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("curve: parse: %w", err)
	}

	points := make([]curve.Point, len(docs))
	for i, d := range docs {
		points[i] = curve.Point{TenorYears: d.TenorYears, Yield: d.Yield}
	}

	yc := curve.NewYieldCurve(points)
	zc := curve.Bootstrap(yc)
	grid := config.GetConfig().StandardTenorGrid

	fmt.Printf("%-10s %12s %12s\n", "TENOR", "ZERO RATE", "DF")
	for _, tenor := range grid {
		fmt.Printf("%-10s %12s %12s\n",
			fmt.Sprintf("%.2fy", tenor),
			humanize.FtoaWithDigits(zc.ZeroRateAt(tenor)*100, 4)+"%",
			humanize.FtoaWithDigits(zc.DF(tenor), 6),
		)
	}

	fwd := zc.StepwiseForwardRates(grid)
	fmt.Println("\nStepwise forwards (between adjacent tenor grid points):")
	for i, r := range fwd {
		fmt.Printf("  [%.2fy, %.2fy): %s%%\n", grid[i], grid[i+1], humanize.FtoaWithDigits(r*100, 4))
	}

	return nil
}
