package signal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tradevision/signals/market"
	"github.com/tradevision/signals/pkg/id"
	"github.com/tradevision/signals/risk"
)

// ErrInvalidSetup means the collaborator found no usable trade structure in
// the chart. Surfaced to the caller as-is; nothing is retried or mutated.
var ErrInvalidSetup = errors.New("no valid trade setup detected")

// Derive turns a raw inference into a fully specified Signal.
//
// The target ladder is recomputed at fixed 1x/2x/3x multiples of the
// entry-stop distance, in the trade's direction. Targets proposed by the
// collaborator are deliberately discarded: the ladder guarantees a clean
// 1:1 / 1:2 / 1:3 risk:reward regardless of what the model suggested.
func Derive(inf Inference, prof risk.Profile) (Signal, error) {
	if !inf.IsSetupValid {
		return Signal{}, ErrInvalidSetup
	}
	dir, ok := NormalizeDirection(inf.Direction)
	if !ok {
		return Signal{}, fmt.Errorf("%w: unrecognized direction %q", ErrInvalidSetup, inf.Direction)
	}

	regime := market.Classify(inf.Pair)
	riskDist := math.Abs(inf.Entry - inf.StopLoss)

	var tp1, tp2, tp3 float64
	if dir == Buy {
		tp1 = inf.Entry + riskDist
		tp2 = inf.Entry + riskDist*2
		tp3 = inf.Entry + riskDist*3
	} else {
		tp1 = inf.Entry - riskDist
		tp2 = inf.Entry - riskDist*2
		tp3 = inf.Entry - riskDist*3
	}

	// Round after all arithmetic so rounding error never compounds
	// through the ladder.
	entry := market.Round(inf.Entry, regime)
	stop := market.Round(inf.StopLoss, regime)
	tp1 = market.Round(tp1, regime)
	tp2 = market.Round(tp2, regime)
	tp3 = market.Round(tp3, regime)

	stopPips := market.ToPips(entry-stop, regime)
	targetPips := market.ToPips(tp1-entry, regime)

	sz := risk.Size(risk.Inputs{
		AccountSize: prof.AccountSize,
		RiskPct:     prof.RiskPercentage,
		StopPips:    stopPips,
	})

	return Signal{
		ID:        id.New(),
		Timestamp: time.Now(),

		Pair:      inf.Pair,
		Timeframe: inf.Timeframe,
		Direction: dir,

		Entry:       entry,
		StopLoss:    stop,
		TakeProfit1: tp1,
		TakeProfit2: tp2,
		TakeProfit3: tp3,

		StopPips:   market.RoundPips(stopPips),
		TargetPips: market.RoundPips(targetPips),

		Lots:       sz.Lots,
		RiskAmount: sz.RiskAmount,
		RewardTP1:  sz.RiskAmount,
		RewardTP2:  round2(sz.RiskAmount * 2),
		RewardTP3:  round2(sz.RiskAmount * 3),

		Confidence:      inf.Confidence,
		Strategy:        inf.Strategy,
		Reasoning:       inf.Reasoning,
		Breakdown:       inf.Breakdown,
		MarketStructure: inf.MarketStructure,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
