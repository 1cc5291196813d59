package enrichment

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker narrates a run: one line per processed item and a totals
// line at the end.
type ProgressTracker struct {
	writer    io.Writer
	total     int
	startTime time.Time
	started   bool
	mu        sync.Mutex
}

// NewProgressTracker creates a new progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of items to process
func NewProgressTracker(writer io.Writer, total int) *ProgressTracker {
	return &ProgressTracker{
		writer: writer,
		total:  total,
	}
}

// Start begins tracking progress.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
}

// Record reports one finished item.
func (p *ProgressTracker) Record(o Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	if o.Message != "" {
		fmt.Fprintf(p.writer, "[%d/%d] %s %s: %s\n", o.Index+1, p.total, o.ExternalID, o.Kind, o.Message)
		return
	}
	fmt.Fprintf(p.writer, "[%d/%d] %s %s\n", o.Index+1, p.total, o.ExternalID, o.Kind)
}

// Finish prints the totals of summary.
func (p *ProgressTracker) Finish(summary *RunSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	fmt.Fprintf(p.writer, "Done: %d total, %d created, %d skipped, %d failed in %s\n",
		summary.Total, summary.Created, summary.Skipped, summary.Failed,
		time.Since(p.startTime).Round(time.Millisecond))
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}
