package enrichment

import "errors"

var (
	// ErrProblemRepositoryRequired is returned when a problem repository is not provided.
	ErrProblemRepositoryRequired = errors.New("problem repository required")

	// ErrAnalyzerRequired is returned when an analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")

	// ErrCandidateNotFound is returned by ProcessSingle when no loaded
	// candidate has the requested external id.
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrAnalysisTimeout indicates the analysis call exceeded the per-call timeout.
	ErrAnalysisTimeout = errors.New("analysis timed out")

	// ErrInvalidPacing is returned for a negative pacing delay.
	ErrInvalidPacing = errors.New("pacing delay cannot be negative")

	// ErrInvalidCallTimeout is returned for a negative call timeout.
	ErrInvalidCallTimeout = errors.New("call timeout cannot be negative")

	// errPanic wraps a recovered panic from a collaborator.
	errPanic = errors.New("panic during processing")
)
