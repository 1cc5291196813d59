package ai

import (
	"testing"

	"github.com/poiesic/psenrich/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis_Valid(t *testing.T) {
	raw := `{
		"tags": [" IoT ", "Alerts", ""],
		"techStack": ["Go", " MQTT "],
		"summary": "  Early flood warning. ",
		"approach": ["deploy sensors", "send sms"],
		"difficultyLevel": "HARD"
	}`

	res := ParseAnalysis(raw)
	require.True(t, res.OK(), res.Reason())

	a, ok := res.Analysis()
	require.True(t, ok)
	assert.Equal(t, []string{"iot", "alerts"}, a.Tags)
	assert.Equal(t, []string{"Go", "MQTT"}, a.TechStack)
	assert.Equal(t, "Early flood warning.", a.Summary)
	assert.Equal(t, []string{"deploy sensors", "send sms"}, a.Approach)
	assert.Equal(t, core.DifficultyHard, a.Difficulty)
}

func TestParseAnalysis_MissingFieldsAllowed(t *testing.T) {
	res := ParseAnalysis(`{"summary": "only a summary"}`)
	require.True(t, res.OK(), res.Reason())

	a, _ := res.Analysis()
	a = a.WithDefaults()
	assert.Equal(t, []string{}, a.Tags)
	assert.Equal(t, []string{}, a.TechStack)
	assert.Equal(t, []string{}, a.Approach)
	assert.Equal(t, "only a summary", a.Summary)
	assert.Equal(t, core.DifficultyMedium, a.Difficulty)
}

func TestParseAnalysis_NullsTreatedAsMissing(t *testing.T) {
	res := ParseAnalysis(`{"tags": null, "difficultyLevel": null}`)
	require.True(t, res.OK(), res.Reason())

	a, _ := res.Analysis()
	assert.Nil(t, a.Tags)
	assert.Empty(t, a.Difficulty)
}

func TestParseAnalysis_Failures(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantReason string
	}{
		{"not json", `tags: [a]`, "malformed analysis"},
		{"empty", ``, "malformed analysis"},
		{"array", `["a", "b"]`, "expected a JSON object"},
		{"string", `"hello"`, "expected a JSON object"},
		{"bad difficulty", `{"difficultyLevel": "extreme"}`, "difficultyLevel"},
		{"tags not array", `{"tags": "iot"}`, "tags"},
		{"tag not string", `{"tags": ["ok", 3]}`, "tags"},
		{"summary not string", `{"summary": 42}`, "summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseAnalysis(tt.raw)
			assert.False(t, res.OK())
			assert.Contains(t, res.Reason(), tt.wantReason)
		})
	}
}

func TestResultVariants(t *testing.T) {
	ok := Succeeded(Analysis{Summary: "s"})
	assert.True(t, ok.OK())
	assert.Empty(t, ok.Reason())
	a, present := ok.Analysis()
	assert.True(t, present)
	assert.Equal(t, "s", a.Summary)

	failed := Failed("model refused")
	assert.False(t, failed.OK())
	assert.Equal(t, "model refused", failed.Reason())
	_, present = failed.Analysis()
	assert.False(t, present)

	assert.NotEmpty(t, Failed("").Reason())
}

func TestAnalysisWithDefaults_KeepsValues(t *testing.T) {
	a := Analysis{
		Tags:       []string{"x"},
		TechStack:  []string{"Go"},
		Summary:    "s",
		Approach:   []string{"a"},
		Difficulty: core.DifficultyEasy,
	}
	assert.Equal(t, a, a.WithDefaults())
}
