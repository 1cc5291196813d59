package ai

import (
	"github.com/poiesic/psenrich/core"
)

// Analysis is the metadata the analysis service derives for one problem statement.
type Analysis struct {
	Tags       []string        `json:"tags"`
	TechStack  []string        `json:"techStack"`
	Summary    string          `json:"summary"`
	Approach   []string        `json:"approach"`
	Difficulty core.Difficulty `json:"difficultyLevel"`
}

// WithDefaults returns a copy with every missing field filled in:
//
//	tags            []
//	techStack       []
//	summary         ""
//	approach        []
//	difficultyLevel medium
func (a Analysis) WithDefaults() Analysis {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.TechStack == nil {
		a.TechStack = []string{}
	}
	if a.Approach == nil {
		a.Approach = []string{}
	}
	if a.Difficulty == "" {
		a.Difficulty = core.DefaultDifficulty
	}
	return a
}

// Result is the outcome of one analysis call: either a validated Analysis or
// the reason the service reported failure. Construct with Succeeded or Failed.
type Result struct {
	analysis Analysis
	reason   string
	ok       bool
}

// Succeeded wraps a usable analysis.
func Succeeded(a Analysis) Result {
	return Result{analysis: a, ok: true}
}

// Failed reports that the service produced no usable analysis.
func Failed(reason string) Result {
	if reason == "" {
		reason = "analysis failed"
	}
	return Result{reason: reason}
}

// OK reports whether the result carries an analysis.
func (r Result) OK() bool { return r.ok }

// Analysis returns the analysis and true, or a zero Analysis and false for a failed result.
func (r Result) Analysis() (Analysis, bool) {
	return r.analysis, r.ok
}

// Reason is the failure description, empty for a successful result.
func (r Result) Reason() string { return r.reason }
