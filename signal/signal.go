package signal

import (
	"strings"
	"time"
)

// Direction of a trade setup.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// NormalizeDirection folds casing and the common Long/Short synonyms the
// analysis model occasionally emits despite being told not to.
func NormalizeDirection(s string) (Direction, bool) {
	d := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(d, "LONG"):
		return Buy, true
	case strings.Contains(d, "SHORT"):
		return Sell, true
	case d == string(Buy):
		return Buy, true
	case d == string(Sell):
		return Sell, true
	}
	return "", false
}

// Inference is the structured output of the chart-analysis collaborator.
// Numeric fields are zeroed and IsSetupValid is false when analysis fails.
type Inference struct {
	Pair            string   `json:"pair"`
	Timeframe       string   `json:"timeframe"`
	Direction       string   `json:"direction"`
	Entry           float64  `json:"entry"`
	StopLoss        float64  `json:"sl"`
	TakeProfit1     float64  `json:"tp1"`
	TakeProfit2     float64  `json:"tp2"`
	Reasoning       string   `json:"reasoning"`
	IsSetupValid    bool     `json:"isSetupValid"`
	MarketStructure []string `json:"marketStructure"`
	Confidence      float64  `json:"confidence"`
	Strategy        string   `json:"strategy"`
	Breakdown       string   `json:"breakdown"`
}

// Signal is the fully derived, internally consistent trade setup produced
// from one accepted inference. It is never mutated after creation; the
// journal record cut from it is what carries mutable trade state.
type Signal struct {
	ID        string
	Timestamp time.Time

	Pair      string
	Timeframe string
	Direction Direction

	Entry       float64
	StopLoss    float64
	TakeProfit1 float64
	TakeProfit2 float64
	TakeProfit3 float64

	StopPips   float64
	TargetPips float64 // pips to TakeProfit1; further targets are exact multiples

	Lots       float64
	RiskAmount float64
	RewardTP1  float64
	RewardTP2  float64
	RewardTP3  float64

	Confidence      float64
	Strategy        string
	Reasoning       string
	Breakdown       string
	MarketStructure []string
}
