package ai

import "context"

// Analyzer derives enrichment metadata from a problem statement description.
// Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// Analyze sends text to the analysis service.
	// A non-nil error means the call itself failed (transport, timeout,
	// cancellation). When the service answered but the answer is unusable,
	// Analyze returns a Failed result and a nil error.
	Analyze(ctx context.Context, text string) (Result, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, text string) (Result, error)

// Analyze calls f(ctx, text).
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) (Result, error) {
	return f(ctx, text)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Analyzer returns the analysis service.
	// The returned Analyzer is safe for concurrent use.
	Analyzer() Analyzer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
