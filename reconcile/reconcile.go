// Package reconcile resolves pending ledger trades against price ticks.
package reconcile

import (
	"log"
	"math"

	"github.com/tradevision/signals/journal"
	"github.com/tradevision/signals/signal"
)

const (
	// MaxDrift is the fraction of the entry price beyond which a tick is
	// treated as stale context for that entry and skipped. Protects old
	// pending trades from being settled against an unrelated price level.
	MaxDrift = 0.20

	// FallbackRisk is the flat P/L applied to records that carry no risk
	// metadata, which happens for manually logged trades.
	FallbackRisk = 100.0
)

// Outcome is the result of reconciling one tick.
type Outcome struct {
	Resolved     []journal.TradeRecord
	BalanceDelta float64
	Skipped      int // stale-price skips, for observability
}

// Reconcile hit-tests every pending ledger entry against the current price
// and resolves the ones that reached their first target or their stop. P/L
// is applied to the ledger balance exactly once per trade; entries that
// already resolved are never touched again, so running Reconcile twice on
// the same tick is a no-op.
func Reconcile(price float64, led *journal.Ledger) Outcome {
	var out Outcome
	for _, rec := range led.Pending() {
		if rec.Entry > 0 && math.Abs(price-rec.Entry)/rec.Entry > MaxDrift {
			log.Printf("reconcile: skip %s %s: price %.5f too far from entry %.5f",
				rec.ID, rec.Pair, price, rec.Entry)
			out.Skipped++
			continue
		}

		status, exit, hit := hitTest(rec, price)
		if !hit {
			continue
		}

		pnl := rec.RiskAmount
		if pnl == 0 {
			pnl = FallbackRisk
		}
		if status == journal.StatusLoss {
			pnl = -pnl
		}

		if _, err := led.Resolve(rec.ID, exit, pnl, status); err != nil {
			continue
		}

		rec.Exit = exit
		rec.RealizedPL = pnl
		rec.Status = status
		out.Resolved = append(out.Resolved, rec)
		out.BalanceDelta += pnl
	}
	return out
}

// hitTest checks the first target before the stop. Well-formed ladders put
// them on opposite sides of entry so both can never trigger on one tick;
// for externally supplied levels that break that assumption, the win takes
// the tie.
func hitTest(rec journal.TradeRecord, price float64) (journal.Status, float64, bool) {
	if rec.Direction == signal.Buy {
		if rec.TakeProfit1 != 0 && price >= rec.TakeProfit1 {
			return journal.StatusWin, rec.TakeProfit1, true
		}
		if rec.StopLoss != 0 && price <= rec.StopLoss {
			return journal.StatusLoss, rec.StopLoss, true
		}
		return "", 0, false
	}

	if rec.TakeProfit1 != 0 && price <= rec.TakeProfit1 {
		return journal.StatusWin, rec.TakeProfit1, true
	}
	if rec.StopLoss != 0 && price >= rec.StopLoss {
		return journal.StatusLoss, rec.StopLoss, true
	}
	return "", 0, false
}
