package enrichment

import (
	"context"
	"sync"

	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/storage"
)

// fakeRepo is an in-memory storage.ProblemRepository with call counting and
// injectable failures.
type fakeRepo struct {
	mu        sync.Mutex
	records   map[string]*core.EnrichedRecord
	nextID    core.ID
	finds     int
	inserts   int
	findErr   error
	insertErr error
	// beforeInsert runs inside Insert before the uniqueness check.
	beforeInsert func()
	panicOnFind  bool
}

var _ storage.ProblemRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*core.EnrichedRecord{}}
}

func (r *fakeRepo) FindByExternalID(ctx context.Context, id string) (*core.EnrichedRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.panicOnFind {
		panic("store exploded")
	}
	if r.findErr != nil {
		return nil, r.findErr
	}
	rec, ok := r.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRepo) Insert(ctx context.Context, rec *core.EnrichedRecord) (*core.EnrichedRecord, error) {
	r.mu.Lock()
	hook := r.beforeInsert
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if _, ok := r.records[rec.ExternalID]; ok {
		return nil, storage.ErrDuplicateKey
	}
	r.nextID++
	saved := *rec
	saved.Id = r.nextID
	r.records[rec.ExternalID] = &saved
	out := saved
	return &out, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*core.EnrichedRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*core.EnrichedRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *fakeRepo) Close() error { return nil }

func (r *fakeRepo) put(rec *core.EnrichedRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *rec
	cp.Id = r.nextID
	r.records[rec.ExternalID] = &cp
}

func (r *fakeRepo) counts() (finds, inserts int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finds, r.inserts
}

// countingPacer records how many times the pipeline paused.
type countingPacer struct {
	mu    sync.Mutex
	waits int
}

func (c *countingPacer) Wait(ctx context.Context) error {
	c.mu.Lock()
	c.waits++
	c.mu.Unlock()
	return ctx.Err()
}

func (c *countingPacer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waits
}
