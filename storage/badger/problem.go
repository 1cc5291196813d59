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


package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/storage"
)

// ProblemRepository implements storage.ProblemRepository for BadgerDB.
type ProblemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
	now     func() time.Time
}

var _ storage.ProblemRepository = (*ProblemRepository)(nil)

// NewProblemRepository creates a new ProblemRepository.
func NewProblemRepository(backend *Backend) (*ProblemRepository, error) {
	idSeq, err := backend.GetSequence(problemRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProblemRepository{
		backend: backend,
		idSeq:   idSeq,
		now:     time.Now,
	}, nil
}

// Close releases the ID sequence.
func (r *ProblemRepository) Close() error {
	return r.idSeq.Release()
}

// FindByExternalID retrieves a record by its external id.
func (r *ProblemRepository) FindByExternalID(ctx context.Context, externalID string) (*core.EnrichedRecord, error) {
	var result *core.EnrichedRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProblem(tx, makeProblemKey(externalID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Insert stores a new record, failing with storage.ErrDuplicateKey if one
// with the same external id already exists.
func (r *ProblemRepository) Insert(ctx context.Context, record *core.EnrichedRecord) (*core.EnrichedRecord, error) {
	if err := core.ValidateEnrichedRecord(record); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := *record
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProblemKey(saved.ExternalID)

		_, err := tx.Get(key)
		switch {
		case err == nil:
			return storage.ErrDuplicateKey
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		saved.Id = core.ID(nextID)
		saved.InsertedAt = r.now().UTC().Truncate(time.Microsecond)

		if err := tx.Set(key, storage.MarshalEnrichedRecord(&saved)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			// Another writer committed the same key after our read.
			if errors.Is(err, badger.ErrConflict) {
				return storage.ErrDuplicateKey
			}
			return err
		}
		return nil
	}, true)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// List returns all records ordered by external id.
func (r *ProblemRepository) List(ctx context.Context) ([]*core.EnrichedRecord, error) {
	var results []*core.EnrichedRecord
	err := r.scan(func(record *core.EnrichedRecord) error {
		results = append(results, record)
		return nil
	}, true)
	return results, err
}

// Count returns the number of stored records.
func (r *ProblemRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.scan(func(*core.EnrichedRecord) error {
		count++
		return nil
	}, false)
	return count, err
}

// scan visits every primary record in key order. Badger orders keys
// bytewise, which is external id order since all keys share a prefix.
func (r *ProblemRepository) scan(fn func(*core.EnrichedRecord) error, decode bool) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = problemScanPrefix()
		opts.PrefetchValues = decode
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !decode {
				if err := fn(nil); err != nil {
					return err
				}
				continue
			}
			var record *core.EnrichedRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEnrichedRecord(val)
				return err
			})
			if err != nil {
				key := strings.TrimPrefix(string(item.Key()), string(problemScanPrefix()))
				return fmt.Errorf("record %q: %w", key, err)
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readProblem reads a record within a transaction.
// Returns nil, nil if the key doesn't exist.
func readProblem(tx *badger.Txn, key []byte) (*core.EnrichedRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.EnrichedRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalEnrichedRecord(val)
		return unmarshalErr
	})
	return record, err
}
