// Package inference calls the external vision model that reads chart
// screenshots and proposes trade setups.
package inference

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
	"unsafe"

	json "github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/samber/lo"

	"github.com/tradevision/signals/signal"
)

var (
	// ErrFailed means the collaborator errored or returned output that
	// could not be parsed. Ledger and balance are untouched.
	ErrFailed = errors.New("chart analysis failed")

	// ErrTimeout means the analysis exceeded its deadline and was
	// cancelled rather than left hanging.
	ErrTimeout = errors.New("chart analysis timed out")
)

// DefaultTimeout bounds a single analysis call.
const DefaultTimeout = 60 * time.Second

type Client struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a vision client. baseURL may be empty for the default
// endpoint; timeout <= 0 selects DefaultTimeout.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}
}

// AnalyzeChart sends a chart screenshot to the model and returns the parsed
// setup. On any failure it returns the zeroed invalid-setup inference along
// with the error, so callers always hold a consumable value.
func (c *Client) AnalyzeChart(ctx context.Context, image []byte) (signal.Inference, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	param := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart("Analyze this chart and return the trade setup as JSON."),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
		Temperature: openai.Float(0.4),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: lo.ToPtr(shared.NewResponseFormatJSONObjectParam()),
		},
	}

	completion, err := c.client.Chat.Completions.New(ctx, param)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return Invalid(), fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Invalid(), fmt.Errorf("%w: %v", ErrFailed, err)
	}

	inf, err := parseInference(completion)
	if err != nil {
		return Invalid(), fmt.Errorf("%w: %v", ErrFailed, err)
	}
	return inf, nil
}

// parseInference repairs and decodes the model's JSON payload, then
// normalizes the direction in case the model slipped into Long/Short.
func parseInference(completion *openai.ChatCompletion) (signal.Inference, error) {
	if len(completion.Choices) == 0 {
		return signal.Inference{}, errors.New("empty completion")
	}

	repaired, err := jsonrepair.JSONRepair(completion.Choices[0].Message.Content)
	if err != nil {
		return signal.Inference{}, fmt.Errorf("repair JSON: %w", err)
	}

	var inf signal.Inference
	if err := json.Unmarshal(unsafe.Slice(unsafe.StringData(repaired), len(repaired)), &inf); err != nil {
		return signal.Inference{}, fmt.Errorf("decode inference: %w", err)
	}

	if dir, ok := signal.NormalizeDirection(inf.Direction); ok {
		inf.Direction = string(dir)
	}
	if inf.MarketStructure == nil {
		inf.MarketStructure = []string{}
	}
	return inf, nil
}

// Invalid is the safe failure value: zeroed levels, setup marked invalid.
func Invalid() signal.Inference {
	return signal.Inference{
		Pair:            "UNKNOWN",
		Timeframe:       "N/A",
		Direction:       "N/A",
		Reasoning:       "Failed to analyze chart. Please try a clearer image.",
		IsSetupValid:    false,
		MarketStructure: []string{},
		Strategy:        "N/A",
		Breakdown:       "Analysis failed.",
	}
}
