package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tradevision/signals/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and edit the trade journal",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show win rate, total P/L, and the equity curve",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade, reversing its P/L if it had resolved",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalStatsCmd)
	journalCmd.AddCommand(journalDeleteCmd)
}

func runJournalList(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.engine.Ledger().Records()
	if len(records) == 0 {
		fmt.Println("no trades logged")
		return nil
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %-10s %-4s %-10s entry %v",
			r.Date.Format("2006-01-02 15:04"), r.Pair, r.Direction, r.Status, r.Entry)
		if r.Status.Terminal() {
			line += fmt.Sprintf("  exit %v  %s", r.Exit, fmtMoney(r.RealizedPL))
		}
		fmt.Printf("%s  [%s]\n", line, r.ID)
	}
	fmt.Printf("balance %s\n", fmtMoney(a.engine.Balance()))
	return nil
}

func runJournalStats(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	records := a.engine.Ledger().Records()
	s := journal.ComputeStats(records)

	fmt.Printf("trades    %d (%d wins, %d losses)\n", s.Trades, s.Wins, s.Losses)
	fmt.Printf("win rate  %.1f%%\n", s.WinRate)
	fmt.Printf("total p/l %s\n", fmtMoney(s.TotalPL))
	fmt.Printf("best      %s\n", fmtMoney(s.BestTrade))
	fmt.Printf("avg win   %s\n", fmtMoney(s.AvgWin))

	curve := journal.EquityCurve(a.engine.Balance(), records)
	fmt.Println("equity:")
	for _, p := range curve {
		fmt.Printf("  %3d  %s\n", p.Trade, fmtMoney(p.Balance))
	}
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	balance, err := a.engine.DeleteTrade(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("deleted %s, balance %s\n", args[0], fmtMoney(balance))
	return nil
}
