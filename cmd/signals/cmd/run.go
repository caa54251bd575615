package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradevision/signals/feed"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulated price feed and resolve pending trades",
	Long: `Drive the reconciler from a price source until interrupted.

By default a random-walk feed starts at feed.reference_price and ticks at
feed.interval. With feed.replay_file set (csv, csv.xz, or zip), the recorded
ticks are replayed in order instead.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if path := a.cfg.Feed.ReplayFile; path != "" {
		ticks, err := feed.LoadTicks(path)
		if err != nil {
			return err
		}
		out := a.engine.Replay(ticks)
		fmt.Printf("replayed %d ticks: %d resolved, %d skipped, net %s, balance %s\n",
			len(ticks), len(out.Resolved), out.Skipped,
			fmtMoney(out.BalanceDelta), fmtMoney(a.engine.Balance()))
		return nil
	}

	interval, err := a.cfg.Feed.ParseInterval()
	if err != nil {
		return err
	}

	pending := a.engine.Ledger().Pending()
	start := a.cfg.Feed.ReferencePrice
	if len(pending) > 0 {
		// Walk from the newest pending entry so its levels are in reach.
		start = pending[0].Entry
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("feeding %s from %.5f every %s (%d pending), ctrl-c to stop\n",
		a.cfg.Feed.Instrument, start, interval, len(pending))
	a.engine.Run(ctx, feed.NewWalker(a.cfg.Feed.Instrument, start), interval)

	fmt.Printf("stopped, balance %s\n", fmtMoney(a.engine.Balance()))
	return nil
}
