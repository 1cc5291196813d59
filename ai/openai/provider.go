// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"log/slog"

	"github.com/poiesic/psenrich/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
type Provider struct {
	config   *ai.Config
	analyzer ai.Analyzer
	logger   *slog.Logger
}

// NewProvider creates a new AI provider with an OpenAI-compatible analyzer.
// The config is validated and normalized before use. When
// config.RequestsPerMinute is set the analyzer is rate limited.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	analyzer, err := newAnalyzer(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		analyzer: ai.NewRateLimitedAnalyzer(analyzer, config.RequestsPerMinute),
		logger:   slog.Default().With("component", "openai-provider"),
	}, nil
}

// Analyzer returns the analysis service.
func (p *Provider) Analyzer() ai.Analyzer {
	return p.analyzer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
