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


package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Supported analyzer backends.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	// DefaultHost is the local OpenAI-compatible endpoint used by DefaultConfig.
	DefaultHost = "http://localhost:11434/v1"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Provider selects the analyzer backend: "openai" or "gemini".
	Provider string

	// Host is the base URL for the analysis service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server.
	// Optional for gemini, where it overrides the public endpoint.
	Host string

	// Model is the model identifier used for analysis.
	// Example: "qwen2.5:3b", "gpt-4o-mini", "gemini-2.5-flash"
	Model string

	// APIKey authenticates against the service. Local OpenAI-compatible
	// servers usually ignore it.
	APIKey string

	// MaxAttempts is how many times the analyzer asks again when the model
	// output is not parseable JSON.
	// Default: 3
	MaxAttempts int

	// RequestsPerMinute caps analyzer requests. Zero disables the cap.
	RequestsPerMinute int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithProvider sets the analyzer backend.
func WithProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

// WithHost sets the service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMaxAttempts sets how many times unparseable output is retried.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithRequestsPerMinute caps the analyzer request rate.
func WithRequestsPerMinute(n int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerMinute = n
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Host:        DefaultHost,
		Model:       "qwen2.5:3b",
		MaxAttempts: 3,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithProvider(ProviderGemini),
//       WithModel("gemini-2.5-flash"),
//       WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// For the openai provider it adds the /v1 suffix to the host if missing, which
// is required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	c.Host = strings.TrimSpace(c.Host)
	// The local default only makes sense for openai; gemini falls back to its public endpoint.
	if c.Provider == ProviderGemini && c.Host == DefaultHost {
		c.Host = ""
	}
	if c.Provider == ProviderOpenAI && c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Provider {
	case ProviderOpenAI:
		if c.Host == "" {
			return errors.New("ai config: Host is required")
		}
	case ProviderGemini:
		if c.APIKey == "" {
			return errors.New("ai config: APIKey is required for gemini")
		}
	default:
		return fmt.Errorf("ai config: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxAttempts < 1 {
		return errors.New("ai config: MaxAttempts must be at least 1")
	}
	if c.RequestsPerMinute < 0 {
		return errors.New("ai config: RequestsPerMinute cannot be negative")
	}
	return nil
}
