package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "signals",
	Short: "AI chart analysis, risk-based signal derivation, and a simulated trade journal",
	Long: `Signals turns chart screenshots into fully specified trade setups.

It provides tools for:
  - Analyzing chart images with a vision model
  - Deriving take-profit ladders and risk-based position sizes
  - Journaling trades and tracking account balance
  - Simulating a price feed that resolves pending trades
  - Replaying recorded tick files through the reconciler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./signals.yaml", "path to config file")
}
