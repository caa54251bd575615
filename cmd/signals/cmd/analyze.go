package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <chart-image>",
	Short: "Analyze a chart screenshot and derive a trade signal",
	Long: `Send a chart screenshot to the vision model, derive the take-profit
ladder and position size from the detected entry/stop, and log the trade as
PENDING in the journal.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	image, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read chart image: %w", err)
	}

	sig, err := a.engine.Analyze(context.Background(), image)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Printf("%s %s  %s  (%s, %.0f%% confidence)\n",
		sig.Direction, sig.Pair, sig.Timeframe, sig.Strategy, sig.Confidence)
	fmt.Printf("  entry   %v\n", sig.Entry)
	fmt.Printf("  stop    %v  (-%.1f pips, risk %s)\n", sig.StopLoss, sig.StopPips, fmtMoney(sig.RiskAmount))
	fmt.Printf("  tp1     %v  (+%.1f pips, %s)\n", sig.TakeProfit1, sig.TargetPips, fmtMoney(sig.RewardTP1))
	fmt.Printf("  tp2     %v  (%s)\n", sig.TakeProfit2, fmtMoney(sig.RewardTP2))
	fmt.Printf("  tp3     %v  (%s)\n", sig.TakeProfit3, fmtMoney(sig.RewardTP3))
	fmt.Printf("  size    %.2f lots\n", sig.Lots)
	if sig.Reasoning != "" {
		fmt.Printf("  why     %s\n", sig.Reasoning)
	}
	fmt.Printf("logged as PENDING (%s), balance %s\n", sig.ID, fmtMoney(a.engine.Balance()))
	return nil
}
