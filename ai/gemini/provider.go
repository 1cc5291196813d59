package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/psenrich/ai"
)

// Provider implements ai.AIProvider using the Gemini API.
type Provider struct {
	analyzer ai.Analyzer
	logger   *slog.Logger
}

// NewProvider creates a Gemini provider. ctx is only used while constructing
// the client.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	analyzer, err := newAnalyzer(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Provider{
		analyzer: ai.NewRateLimitedAnalyzer(analyzer, config.RequestsPerMinute),
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Analyzer returns the analysis service.
func (p *Provider) Analyzer() ai.Analyzer {
	return p.analyzer
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
