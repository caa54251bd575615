package risk

import "math"

// PipValuePerLot is the dollar value of one pip per standard lot, the usual
// convention for FX majors and gold CFDs.
const PipValuePerLot = 10.0

// Profile is the account's risk configuration. AccountSize doubles as the
// live balance: realized P/L accrues into it as trades resolve.
type Profile struct {
	AccountSize    float64
	RiskPercentage float64 // percent, 1.0 == 1%
}

type Inputs struct {
	AccountSize float64
	RiskPct     float64 // percent
	StopPips    float64
}

type Result struct {
	Lots       float64
	RiskAmount float64
}

// Size computes the lot size that risks RiskPct of the account if the stop
// is hit. No floor or cap is applied to the resulting lots; the caller owns
// any broker minimums.
func Size(in Inputs) Result {
	riskAmt := in.AccountSize * (in.RiskPct / 100)
	lots := riskAmt / (in.StopPips * PipValuePerLot)
	return Result{
		Lots:       round2(lots),
		RiskAmount: round2(riskAmt),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
