package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
)

// MockAnalyzer is a test double for ai.Analyzer.
// It allows custom behavior injection via function fields.
type MockAnalyzer struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, derives a deterministic analysis from the text.
	AnalyzeFunc func(ctx context.Context, text string) (ai.Result, error)

	mu        sync.Mutex
	callCount int
	texts     []string
}

// NewMockAnalyzer creates a mock analyzer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

// WithAnalyzeFunc sets custom behavior for Analyze.
func (m *MockAnalyzer) WithAnalyzeFunc(fn func(ctx context.Context, text string) (ai.Result, error)) *MockAnalyzer {
	m.AnalyzeFunc = fn
	return m
}

// Analyze records the call and returns the injected or default result.
// Default behavior: tags are the first three lowercase words of the text.
func (m *MockAnalyzer) Analyze(ctx context.Context, text string) (ai.Result, error) {
	m.mu.Lock()
	m.callCount++
	m.texts = append(m.texts, text)
	fn := m.AnalyzeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text)
	}

	words := strings.Fields(strings.ToLower(text))
	tags := make([]string, 0, 3)
	for _, w := range words {
		if len(tags) == 3 {
			break
		}
		w = strings.Trim(w, ".,:;!?\"'()")
		if w != "" {
			tags = append(tags, w)
		}
	}
	return ai.Succeeded(ai.Analysis{
		Tags:       tags,
		TechStack:  []string{"Go"},
		Summary:    "generated summary",
		Approach:   []string{"analyze", "build"},
		Difficulty: core.DifficultyMedium,
	}), nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Texts returns the texts passed to Analyze, in call order.
func (m *MockAnalyzer) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Reset clears the call count, recorded texts and custom functions.
func (m *MockAnalyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.texts = nil
	m.AnalyzeFunc = nil
}

// Returning is an AnalyzeFunc that always succeeds with a.
func Returning(a ai.Analysis) func(context.Context, string) (ai.Result, error) {
	return func(context.Context, string) (ai.Result, error) {
		return ai.Succeeded(a), nil
	}
}

// Failing is an AnalyzeFunc that always reports failure with reason.
func Failing(reason string) func(context.Context, string) (ai.Result, error) {
	return func(context.Context, string) (ai.Result, error) {
		return ai.Failed(reason), nil
	}
}

// Erroring is an AnalyzeFunc that always returns err.
func Erroring(err error) func(context.Context, string) (ai.Result, error) {
	return func(context.Context, string) (ai.Result, error) {
		return ai.Result{}, err
	}
}
