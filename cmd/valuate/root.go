package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger zerolog.Logger

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "valuate",
	Short: "valuate prices Korean-market hybrid equity-linked securities",
	Long: `valuate is a command line utility for pricing RCPS, CB, CPS, and ESO
grants on a Cox-Ross-Rubinstein binomial lattice, decomposing each into its
host (straight debt/preferred) and embedded-derivative components.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger = logger.Level(zerolog.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	level := zerolog.InfoLevel
	if os.Getenv("VALUATE_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(curveCmd)
}
