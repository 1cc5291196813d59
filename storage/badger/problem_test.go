package badger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func testRecord(id string) *core.EnrichedRecord {
	return &core.EnrichedRecord{
		ExternalID: id,
		Title:      "Title " + id,
		Tags:       []string{"iot"},
		TechStack:  []string{},
		Approach:   []string{},
		Difficulty: core.DifficultyEasy,
	}
}

func TestInsertAndFind(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	saved, err := repos.Problems.Insert(ctx, testRecord("PS-1"))
	require.NoError(t, err)
	assert.NotZero(t, saved.Id)
	assert.False(t, saved.InsertedAt.IsZero())
	assert.Equal(t, time.UTC, saved.InsertedAt.Location())

	found, err := repos.Problems.FindByExternalID(ctx, "PS-1")
	require.NoError(t, err)
	assert.Equal(t, saved, found)
}

func TestInsert_DoesNotMutateArgument(t *testing.T) {
	repos := newTestRepos(t)
	rec := testRecord("PS-1")

	_, err := repos.Problems.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.Zero(t, rec.Id)
	assert.True(t, rec.InsertedAt.IsZero())
}

func TestInsert_AllocatesDistinctIDs(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a, err := repos.Problems.Insert(ctx, testRecord("PS-1"))
	require.NoError(t, err)
	b, err := repos.Problems.Insert(ctx, testRecord("PS-2"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Id, b.Id)
}

func TestInsert_Duplicate(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first, err := repos.Problems.Insert(ctx, testRecord("PS-1"))
	require.NoError(t, err)

	second := testRecord("PS-1")
	second.Title = "Changed"
	_, err = repos.Problems.Insert(ctx, second)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	found, err := repos.Problems.FindByExternalID(ctx, "PS-1")
	require.NoError(t, err)
	assert.Equal(t, first.Title, found.Title)
}

func TestInsert_ConcurrentSameKey(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	const writers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repos.Problems.Insert(ctx, testRecord("PS-RACE"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, storage.ErrDuplicateKey):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, duplicates)

	count, err := repos.Problems.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInsert_Invalid(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	_, err := repos.Problems.Insert(ctx, &core.EnrichedRecord{Difficulty: core.DifficultyEasy})
	assert.ErrorIs(t, err, core.ErrEmptyExternalID)

	bad := testRecord("PS-1")
	bad.Difficulty = "unknown"
	_, err = repos.Problems.Insert(ctx, bad)
	assert.ErrorIs(t, err, core.ErrInvalidDifficulty)
}

func TestFindByExternalID_NotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Problems.FindByExternalID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListAndCount(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	for _, id := range []string{"PS-3", "PS-1", "PS-2"} {
		_, err := repos.Problems.Insert(ctx, testRecord(id))
		require.NoError(t, err)
	}

	list, err := repos.Problems.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "PS-1", list[0].ExternalID)
	assert.Equal(t, "PS-2", list[1].ExternalID)
	assert.Equal(t, "PS-3", list[2].ExternalID)

	count, err := repos.Problems.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListAndCount_Empty(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	list, err := repos.Problems.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := repos.Problems.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsert_CanceledContext(t *testing.T) {
	repos := newTestRepos(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repos.Problems.Insert(ctx, testRecord("PS-1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false, nil)
	require.NoError(t, err)
	problems, err := NewProblemRepository(backend)
	require.NoError(t, err)
	_, err = problems.Insert(ctx, testRecord("PS-1"))
	require.NoError(t, err)
	require.NoError(t, problems.Close())
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false, nil)
	require.NoError(t, err)
	defer backend.Close()
	problems, err = NewProblemRepository(backend)
	require.NoError(t, err)
	defer problems.Close()

	found, err := problems.FindByExternalID(ctx, "PS-1")
	require.NoError(t, err)
	assert.Equal(t, "Title PS-1", found.Title)
}
