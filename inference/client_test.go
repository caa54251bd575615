package inference

import (
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionWith(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestParseInference_CleanJSON(t *testing.T) {
	t.Parallel()

	inf, err := parseInference(completionWith(`{
		"pair": "XAUUSD",
		"timeframe": "M15",
		"direction": "BUY",
		"entry": 2000,
		"sl": 1990,
		"tp1": 2005,
		"tp2": 2012,
		"reasoning": "FVG fill into discount",
		"isSetupValid": true,
		"marketStructure": ["BOS", "FVG"],
		"confidence": 82,
		"strategy": "ICT Silver Bullet",
		"breakdown": "..."
	}`))
	require.NoError(t, err)

	assert.Equal(t, "XAUUSD", inf.Pair)
	assert.Equal(t, "BUY", inf.Direction)
	assert.InDelta(t, 2000.0, inf.Entry, 1e-9)
	assert.InDelta(t, 1990.0, inf.StopLoss, 1e-9)
	assert.True(t, inf.IsSetupValid)
	assert.Equal(t, []string{"BOS", "FVG"}, inf.MarketStructure)
}

// Models wrap JSON in fences or drop trailing commas; the repair pass
// absorbs that.
func TestParseInference_SloppyJSONRepaired(t *testing.T) {
	t.Parallel()

	inf, err := parseInference(completionWith("```json\n" +
		`{"pair": "EURUSD", "direction": "Long", "entry": 1.1, "sl": 1.095, "isSetupValid": true,}` +
		"\n```"))
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", inf.Pair)
	assert.Equal(t, "BUY", inf.Direction) // Long normalized
	assert.True(t, inf.IsSetupValid)
}

func TestParseInference_NilMarketStructure(t *testing.T) {
	t.Parallel()

	inf, err := parseInference(completionWith(`{"pair": "EURUSD", "direction": "SELL", "isSetupValid": true}`))
	require.NoError(t, err)
	assert.NotNil(t, inf.MarketStructure)
	assert.Empty(t, inf.MarketStructure)
}

func TestParseInference_EmptyCompletion(t *testing.T) {
	t.Parallel()

	_, err := parseInference(&openai.ChatCompletion{})
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	inf := Invalid()
	assert.False(t, inf.IsSetupValid)
	assert.Zero(t, inf.Entry)
	assert.Zero(t, inf.StopLoss)
	assert.Equal(t, "UNKNOWN", inf.Pair)
}
