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


package enrichment

import (
	"time"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
)

// Kind classifies the result of processing one candidate.
type Kind string

const (
	// KindCreated means the candidate was analyzed and a record was persisted.
	KindCreated Kind = "created"
	// KindSkipped means a record already existed; nothing was called or written.
	KindSkipped Kind = "skipped"
	// KindFailed means the analyzer reported it could not produce a usable result.
	KindFailed Kind = "failed"
	// KindError means an unexpected failure in validation, lookup, analysis or persistence.
	KindError Kind = "error"
)

// IsFailure reports whether k counts toward a run's failed total.
func (k Kind) IsFailure() bool {
	return k == KindFailed || k == KindError
}

// Outcome is the result of processing one candidate.
type Outcome struct {
	Index      int                  `json:"index"`
	ExternalID string               `json:"id"`
	Kind       Kind                 `json:"kind"`
	Message    string               `json:"message,omitempty"`
	Record     *core.EnrichedRecord `json:"record,omitempty"`
	Analysis   *ai.Analysis         `json:"analysis,omitempty"`
}

// RunSummary aggregates the outcomes of one pipeline invocation.
// Outcomes are in input order.
type RunSummary struct {
	RunID      string       `json:"runId"`
	Mode       core.RunMode `json:"mode"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Total      int          `json:"total"`
	Created    int          `json:"created"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"` // failed and error outcomes
	Outcomes   []Outcome    `json:"outcomes"`
}

func (s *RunSummary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	s.Total++
	switch o.Kind {
	case KindCreated:
		s.Created++
	case KindSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Failures returns the failed and error outcomes in input order.
func (s *RunSummary) Failures() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Kind.IsFailure() {
			out = append(out, o)
		}
	}
	return out
}

// RunRecord returns the persisted trace of this run.
func (s *RunSummary) RunRecord() *core.RunRecord {
	return &core.RunRecord{
		RunID:      s.RunID,
		Mode:       s.Mode,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Total:      s.Total,
		Created:    s.Created,
		Skipped:    s.Skipped,
		Failed:     s.Failed,
	}
}
