// market/instruments.go
package market

import (
	"math"
	"strings"
)

// Regime is the pip-scaling class of an instrument. Metals quote in whole
// dollars, yen crosses in hundredths, everything else in the usual four-plus
// digit FX convention.
type Regime int

const (
	Standard Regime = iota
	Metal
	YenCross
)

func (r Regime) String() string {
	switch r {
	case Metal:
		return "metal"
	case YenCross:
		return "yen-cross"
	default:
		return "standard"
	}
}

// Classify maps a symbol to its pip regime by substring match. Every symbol
// maps to exactly one regime; anything unrecognized is Standard.
func Classify(symbol string) Regime {
	s := strings.ToUpper(symbol)
	switch {
	case strings.Contains(s, "XAU") || strings.Contains(s, "GOLD"):
		return Metal
	case strings.Contains(s, "JPY"):
		return YenCross
	default:
		return Standard
	}
}

func pipFactor(r Regime) float64 {
	switch r {
	case Metal:
		return 10
	case YenCross:
		return 100
	default:
		return 10000
	}
}

// ToPips converts a price distance to a pip count for the regime.
//
// Metal distances are floored at 1 pip. A distance that still works out to
// exactly 0 pips (entry == stop, malformed upstream data) falls back to 10
// pips so position sizing never divides by zero. Callers should treat that
// fallback as a data-quality signal, not a meaningful stop distance.
func ToPips(dist float64, r Regime) float64 {
	pips := math.Abs(dist) * pipFactor(r)
	if r == Metal && pips < 1 {
		pips = 1
	}
	if pips == 0 {
		pips = 10
	}
	return pips
}

// Precision is the number of decimals prices are quoted at per regime.
func Precision(r Regime) int {
	switch r {
	case Metal:
		return 2
	case YenCross:
		return 3
	default:
		return 5
	}
}

// Round rounds a price to the regime's quote precision.
func Round(v float64, r Regime) float64 {
	scale := math.Pow(10, float64(Precision(r)))
	return math.Round(v*scale) / scale
}

// RoundPips rounds a pip count to one decimal for reporting.
func RoundPips(pips float64) float64 {
	return math.Round(pips*10) / 10
}
