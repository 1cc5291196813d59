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


package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/poiesic/psenrich/ai"
	"google.golang.org/genai"
)

// generateFunc issues one structured-output request.
type generateFunc func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)

// Analyzer implements ai.Analyzer using the Gemini API with a response schema.
type Analyzer struct {
	generate generateFunc
	model    string
	logger   *slog.Logger
}

var _ ai.Analyzer = (*Analyzer)(nil)

var outputSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"tags":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"techStack": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"summary":   {Type: genai.TypeString},
		"approach":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"difficultyLevel": {
			Type: genai.TypeString,
			Enum: []string{"easy", "medium", "hard"},
		},
	},
	Required: []string{"tags", "techStack", "summary", "approach", "difficultyLevel"},
}

func newAnalyzer(ctx context.Context, config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(config.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if config.Host != "" {
		cc.HTTPOptions.BaseURL = config.Host
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(config.Model)
	generate := func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(
			ctx,
			model,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				CandidateCount:   1,
				ResponseMIMEType: "application/json",
				ResponseSchema:   outputSchema,
			},
		)
	}
	return newAnalyzerWithGenerate(generate, model), nil
}

func newAnalyzerWithGenerate(generate generateFunc, model string) *Analyzer {
	return &Analyzer{
		generate: generate,
		model:    model,
		logger:   slog.Default().With("component", "gemini-analyzer", "model", model),
	}
}

// NewAnalyzer creates a Gemini-backed analyzer.
func NewAnalyzer(ctx context.Context, config *ai.Config) (ai.Analyzer, error) {
	return newAnalyzer(ctx, config)
}

// Analyze requests structured metadata for text.
// Blocked or empty responses become Failed results; API errors are returned.
func (a *Analyzer) Analyze(ctx context.Context, text string) (ai.Result, error) {
	resp, err := a.generate(ctx, buildPrompt(text))
	if err != nil {
		a.logger.Error("failed to generate content", "err", err)
		return ai.Result{}, classifyErr(err)
	}

	if reason := blockedReason(resp); reason != "" {
		a.logger.Warn("response blocked", "reason", reason)
		return ai.Failed("response blocked: " + reason), nil
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return ai.Failed("model returned an empty response"), nil
	}

	result := ai.ParseAnalysis(raw)
	if !result.OK() {
		a.logger.Warn("error parsing analyzer response", "response", raw, "reason", result.Reason())
	}
	return result, nil
}

func buildPrompt(text string) string {
	return strings.TrimSpace(`
You review hackathon problem statements and describe what building a solution involves.

Return ONLY a single JSON object with these keys:
- tags (array of 3-8 short lowercase topic labels)
- techStack (array of technologies a team would plausibly use)
- summary (string; two or three plain sentences)
- approach (array of ordered high-level steps)
- difficultyLevel (string; one of: easy, medium, hard)

Rules:
- Use only what the problem statement states or clearly implies.
- Do not include extra keys.

Problem statement:
` + text + `
`)
}

// blockedReason reports why a response carries no usable candidate, or "".
func blockedReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "no response"
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "no candidates"
	}
	switch fr := resp.Candidates[0].FinishReason; fr {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return string(fr)
	}
	return ""
}

func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return fmt.Errorf("%w: %w", ai.ErrTransient, err)
		}
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", ai.ErrTransient, err)
	}
	return err
}
