package journal

import (
	"math"

	"github.com/samber/lo"
)

// Stats summarizes a trade history.
type Stats struct {
	Trades    int
	Wins      int
	Losses    int
	WinRate   float64 // percent of all trades
	TotalPL   float64
	BestTrade float64
	AvgWin    float64
}

// ComputeStats works on the newest-first record slice as returned by
// Ledger.Records.
func ComputeStats(records []TradeRecord) Stats {
	s := Stats{Trades: len(records)}
	if s.Trades == 0 {
		return s
	}

	s.Wins = lo.CountBy(records, func(r TradeRecord) bool { return r.Status == StatusWin })
	s.Losses = lo.CountBy(records, func(r TradeRecord) bool { return r.Status == StatusLoss })
	s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	s.TotalPL = lo.SumBy(records, func(r TradeRecord) float64 { return r.RealizedPL })
	s.BestTrade = math.Max(0, lo.MaxBy(records, func(a, b TradeRecord) bool {
		return a.RealizedPL > b.RealizedPL
	}).RealizedPL)

	winners := lo.Filter(records, func(r TradeRecord, _ int) bool { return r.RealizedPL > 0 })
	if len(winners) > 0 {
		s.AvgWin = lo.SumBy(winners, func(r TradeRecord) float64 { return r.RealizedPL }) / float64(len(winners))
	}
	return s
}

// EquityPoint is one step of the account's equity curve.
type EquityPoint struct {
	Trade   int // 0 is the seed balance
	Balance float64
}

// EquityCurve reconstructs the balance history from the current balance and
// the newest-first trade log: the seed is current balance minus all realized
// P/L, then each trade is replayed oldest to newest.
func EquityCurve(balance float64, records []TradeRecord) []EquityPoint {
	total := lo.SumBy(records, func(r TradeRecord) float64 { return r.RealizedPL })
	running := balance - total

	curve := make([]EquityPoint, 0, len(records)+1)
	curve = append(curve, EquityPoint{Trade: 0, Balance: running})
	for i := len(records) - 1; i >= 0; i-- {
		running += records[i].RealizedPL
		curve = append(curve, EquityPoint{Trade: len(records) - i, Balance: running})
	}
	return curve
}
