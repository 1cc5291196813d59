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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/storage"
)

const (
	// DefaultPacing is the delay between consecutive batch items.
	DefaultPacing = 2 * time.Second

	// DefaultCallTimeout bounds a single analysis call.
	DefaultCallTimeout = 2 * time.Minute
)

// Pipeline enriches candidates one at a time: skip if already stored,
// otherwise analyze, merge and insert.
type Pipeline struct {
	repo        storage.ProblemRepository
	analyzer    ai.Analyzer
	pacer       Pacer
	callTimeout time.Duration
	progress    io.Writer
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPacing sets the fixed delay between consecutive batch items.
// Default is DefaultPacing. Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return ErrInvalidPacing
		}
		p.pacer = FixedDelay(d)
		return nil
	}
}

// WithPacer replaces the pacing policy.
func WithPacer(pacer Pacer) Option {
	return func(p *Pipeline) error {
		if pacer == nil {
			pacer = FixedDelay(0)
		}
		p.pacer = pacer
		return nil
	}
}

// WithCallTimeout bounds each analysis call.
// Default is DefaultCallTimeout. Zero disables the timeout.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return ErrInvalidCallTimeout
		}
		p.callTimeout = d
		return nil
	}
}

// WithProgress narrates each processed item to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithClock sets the time source for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now == nil {
			now = time.Now
		}
		p.now = now
		return nil
	}
}

// NewPipeline creates a new enrichment pipeline.
func NewPipeline(repo storage.ProblemRepository, analyzer ai.Analyzer, opts ...Option) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrProblemRepositoryRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	p := &Pipeline{
		repo:        repo,
		analyzer:    analyzer,
		pacer:       FixedDelay(DefaultPacing),
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "enrichment")

	return p, nil
}

// ProcessOne enriches a single candidate. It never returns an error and
// never panics: every failure is reported in the Outcome.
//
// It performs at most one store write and at most one analyzer call.
func (p *Pipeline) ProcessOne(ctx context.Context, candidate core.Candidate) (outcome Outcome) {
	id := strings.TrimSpace(candidate.ExternalID)
	outcome = Outcome{ExternalID: id}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("recovered panic", "id", id, "panic", r)
			outcome = errorOutcome(id, fmt.Errorf("%w: %v", errPanic, r))
		}
	}()

	if err := core.ValidateCandidate(&candidate); err != nil {
		return errorOutcome(id, err)
	}

	existing, err := p.repo.FindByExternalID(ctx, id)
	switch {
	case err == nil:
		return Outcome{ExternalID: id, Kind: KindSkipped, Message: "already enriched", Record: existing}
	case !errors.Is(err, storage.ErrNotFound):
		return errorOutcome(id, fmt.Errorf("lookup: %w", err))
	}

	result, err := p.analyze(ctx, BuildDescription(candidate))
	if err != nil {
		return errorOutcome(id, fmt.Errorf("analyze: %w", err))
	}
	analysis, ok := result.Analysis()
	if !ok {
		return Outcome{ExternalID: id, Kind: KindFailed, Message: result.Reason()}
	}
	analysis = analysis.WithDefaults()

	saved, err := p.repo.Insert(ctx, Merge(candidate, analysis))
	switch {
	case err == nil:
		return Outcome{ExternalID: id, Kind: KindCreated, Message: "enriched", Record: saved, Analysis: &analysis}
	case errors.Is(err, storage.ErrDuplicateKey):
		o := Outcome{ExternalID: id, Kind: KindSkipped, Message: "already enriched by a concurrent run"}
		if winner, ferr := p.repo.FindByExternalID(ctx, id); ferr == nil {
			o.Record = winner
		}
		return o
	default:
		return errorOutcome(id, fmt.Errorf("insert: %w", err))
	}
}

// analyze calls the analyzer under the per-call timeout. The call runs in its
// own goroutine so an analyzer that ignores ctx cannot stall the batch.
func (p *Pipeline) analyze(ctx context.Context, text string) (ai.Result, error) {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}

	type reply struct {
		result ai.Result
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("%w: %v", errPanic, r)}
			}
		}()
		result, err := p.analyzer.Analyze(ctx, text)
		done <- reply{result: result, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ai.Result{}, fmt.Errorf("%w after %s: %w", ErrAnalysisTimeout, p.callTimeout, r.err)
		}
		return r.result, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ai.Result{}, fmt.Errorf("%w after %s", ErrAnalysisTimeout, p.callTimeout)
		}
		return ai.Result{}, ctx.Err()
	}
}

func errorOutcome(id string, err error) Outcome {
	return Outcome{ExternalID: id, Kind: KindError, Message: err.Error()}
}

// ProcessBatch processes candidates strictly in order, waiting on the pacer
// between consecutive items. Every candidate yields exactly one outcome, at
// the same index. Records written before a later failure stay persisted.
//
// If ctx is canceled the remaining candidates are reported as errors without
// being processed.
func (p *Pipeline) ProcessBatch(ctx context.Context, candidates []core.Candidate) *RunSummary {
	summary := p.newSummary(core.RunModeBatch, len(candidates))
	tracker := p.newTracker(len(candidates))

	p.logger.Info("starting batch", "run", summary.RunID, "candidates", len(candidates))

	for i, candidate := range candidates {
		var outcome Outcome
		if err := p.waitTurn(ctx, i); err != nil {
			outcome = errorOutcome(strings.TrimSpace(candidate.ExternalID), err)
		} else {
			outcome = p.ProcessOne(ctx, candidate)
		}
		outcome.Index = i
		summary.add(outcome)
		p.logOutcome(outcome)
		if tracker != nil {
			tracker.Record(outcome)
		}
	}

	summary.FinishedAt = p.now().UTC()
	if tracker != nil {
		tracker.Finish(summary)
	}
	p.logger.Info("batch finished", "run", summary.RunID,
		"total", summary.Total, "created", summary.Created,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary
}

// waitTurn paces item i. The first item never waits.
func (p *Pipeline) waitTurn(ctx context.Context, i int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if i == 0 {
		return nil
	}
	return p.pacer.Wait(ctx)
}

// ProcessSingle processes the candidate whose external id matches externalID.
// Returns ErrCandidateNotFound if no candidate matches; that is distinct from
// a skipped outcome, which means the candidate is already stored.
func (p *Pipeline) ProcessSingle(ctx context.Context, externalID string, candidates []core.Candidate) (Outcome, error) {
	candidate, ok := findCandidate(externalID, candidates)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrCandidateNotFound, strings.TrimSpace(externalID))
	}
	outcome := p.ProcessOne(ctx, candidate)
	p.logOutcome(outcome)
	return outcome, nil
}

// RunSingle wraps ProcessSingle in a one-item RunSummary.
func (p *Pipeline) RunSingle(ctx context.Context, externalID string, candidates []core.Candidate) (*RunSummary, error) {
	summary := p.newSummary(core.RunModeSingle, 1)
	tracker := p.newTracker(1)

	outcome, err := p.ProcessSingle(ctx, externalID, candidates)
	if err != nil {
		return nil, err
	}
	summary.add(outcome)
	summary.FinishedAt = p.now().UTC()
	if tracker != nil {
		tracker.Record(outcome)
		tracker.Finish(summary)
	}
	return summary, nil
}

// Stale returns the external ids of stored records whose candidate
// description has changed since they were enriched. Candidates with no
// stored record are ignored.
func (p *Pipeline) Stale(ctx context.Context, candidates []core.Candidate) ([]string, error) {
	var stale []string
	for _, c := range candidates {
		id := strings.TrimSpace(c.ExternalID)
		if id == "" {
			continue
		}
		rec, err := p.repo.FindByExternalID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", id, err)
		}
		if rec.SourceDigest != core.IDFromContent(BuildDescription(c)) {
			stale = append(stale, id)
		}
	}
	return stale, nil
}

func findCandidate(externalID string, candidates []core.Candidate) (core.Candidate, bool) {
	want := strings.TrimSpace(externalID)
	if want == "" {
		return core.Candidate{}, false
	}
	for _, c := range candidates {
		if strings.TrimSpace(c.ExternalID) == want {
			return c, true
		}
	}
	return core.Candidate{}, false
}

func (p *Pipeline) newSummary(mode core.RunMode, capacity int) *RunSummary {
	return &RunSummary{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: p.now().UTC(),
		Outcomes:  make([]Outcome, 0, capacity),
	}
}

func (p *Pipeline) newTracker(total int) *ProgressTracker {
	if p.progress == nil {
		return nil
	}
	t := NewProgressTracker(p.progress, total)
	t.Start()
	return t
}

func (p *Pipeline) logOutcome(o Outcome) {
	switch o.Kind {
	case KindError:
		p.logger.Error("candidate errored", "id", o.ExternalID, "index", o.Index, "msg", o.Message)
	case KindFailed:
		p.logger.Warn("analysis failed", "id", o.ExternalID, "index", o.Index, "reason", o.Message)
	default:
		p.logger.Debug("candidate processed", "id", o.ExternalID, "index", o.Index, "kind", o.Kind)
	}
}
