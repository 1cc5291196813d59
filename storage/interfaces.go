package storage

import (
	"context"

	"github.com/poiesic/psenrich/core"
)

// ProblemRepository persists enriched problem statements keyed by external id.
// Implementations must be thread-safe and support concurrent access.
type ProblemRepository interface {
	// FindByExternalID retrieves the record with the given external id.
	// Returns ErrNotFound if no such record exists.
	FindByExternalID(ctx context.Context, externalID string) (*core.EnrichedRecord, error)

	// Insert stores a new record.
	// Allocates the internal Id from a sequence and sets InsertedAt.
	// Returns ErrDuplicateKey if a record with the same external id exists.
	Insert(ctx context.Context, record *core.EnrichedRecord) (*core.EnrichedRecord, error)

	// List returns every stored record ordered by external id.
	List(ctx context.Context) ([]*core.EnrichedRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// RunRepository persists the most recent run trace per mode.
type RunRepository interface {
	// SaveRun stores run as the latest run for its mode.
	SaveRun(ctx context.Context, run *core.RunRecord) error

	// LastRun retrieves the latest run for a mode.
	// Returns nil, nil if no run has been recorded.
	LastRun(ctx context.Context, mode core.RunMode) (*core.RunRecord, error)
}
