package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/psenrich/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Analyzer implements ai.Analyzer using OpenAI-compatible chat APIs.
type Analyzer struct {
	client      llms.Model
	maxAttempts int
	logger      *slog.Logger
}

var _ ai.Analyzer = (*Analyzer)(nil)

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return newAnalyzerWithModel(client, config.MaxAttempts), nil
}

func newAnalyzerWithModel(client llms.Model, maxAttempts int) *Analyzer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Analyzer{
		client:      client,
		maxAttempts: maxAttempts,
		logger:      slog.Default().With("component", "openai-analyzer"),
	}
}

// NewAnalyzer creates a new analyzer using the provided configuration.
//
// Returns ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(config)
}

// Analyze asks the model for enrichment metadata about text.
// Output that does not validate is re-requested up to maxAttempts times
// before a Failed result is returned. Transport errors are returned as-is.
func (a *Analyzer) Analyze(ctx context.Context, text string) (ai.Result, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	var result ai.Result
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.Result{}, err
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return ai.Failed("model returned no choices"), nil
		}

		responseText := repairJSON(stripCodeFences(response.Choices[0].Content))
		result = ai.ParseAnalysis(responseText)
		if result.OK() {
			return result, nil
		}

		a.logger.Warn("error parsing analyzer response",
			"attempt", attempt+1,
			"response", responseText,
			"reason", result.Reason())
	}

	a.logger.Error("failed to parse analyzer response after retries", "reason", result.Reason())
	return result, nil
}
