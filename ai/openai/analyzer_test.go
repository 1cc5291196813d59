package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel returns one canned response per call.
type scriptedModel struct {
	responses []string
	err       error
	calls     int
	messages  []llms.MessageContent
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &llms.ContentResponse{}, nil
	}
	idx := m.calls - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.responses[idx]}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestAnalyze_Success(t *testing.T) {
	model := &scriptedModel{responses: []string{"```json\n{\"tags\":[\"IoT\"],\"summary\":\"s\",\"difficultyLevel\":\"Easy\"}\n```"}}
	a := newAnalyzerWithModel(model, 3)

	res, err := a.Analyze(context.Background(), "Title: Flood alerts")
	require.NoError(t, err)
	require.True(t, res.OK(), res.Reason())

	analysis, _ := res.Analysis()
	assert.Equal(t, []string{"iot"}, analysis.Tags)
	assert.Equal(t, core.DifficultyEasy, analysis.Difficulty)
	assert.Equal(t, 1, model.calls)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	assert.Equal(t, llms.TextPart("Title: Flood alerts"), model.messages[1].Parts[0])
}

func TestAnalyze_RetriesMalformedOutput(t *testing.T) {
	model := &scriptedModel{responses: []string{"not json", `{"summary": "ok"}`}}
	a := newAnalyzerWithModel(model, 3)

	res, err := a.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 2, model.calls)
}

func TestAnalyze_FailsAfterMaxAttempts(t *testing.T) {
	model := &scriptedModel{responses: []string{`{"difficultyLevel": "extreme"}`}}
	a := newAnalyzerWithModel(model, 3)

	res, err := a.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Contains(t, res.Reason(), "difficultyLevel")
	assert.Equal(t, 3, model.calls)
}

func TestAnalyze_NoChoices(t *testing.T) {
	model := &scriptedModel{}
	a := newAnalyzerWithModel(model, 3)

	res, err := a.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 1, model.calls)
}

func TestAnalyze_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	model := &scriptedModel{err: boom}
	a := newAnalyzerWithModel(model, 3)

	_, err := a.Analyze(context.Background(), "text")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, model.calls)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt()
	assert.Contains(t, prompt, ai.AnalysisSchema)
	assert.False(t, strings.Contains(prompt, "%s"))
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(ai.DefaultConfig())
	require.NoError(t, err)
	defer provider.Close()
	assert.NotNil(t, provider.Analyzer())

	_, err = NewProvider(ai.NewConfig(ai.WithModel("")))
	assert.Error(t, err)
}
