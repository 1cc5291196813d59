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

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/psenrich/core"
	"github.com/poiesic/psenrich/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository.
func NewRunRepository(backend *Backend) *RunRepository {
	return &RunRepository{
		backend: backend,
	}
}

// SaveRun persists run as the latest run for its mode.
func (r *RunRepository) SaveRun(ctx context.Context, run *core.RunRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(run.Mode)
		value := storage.MarshalRunRecord(run)
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LastRun retrieves the latest run for a mode.
// Returns nil, nil if no run exists.
func (r *RunRepository) LastRun(ctx context.Context, mode core.RunMode) (*core.RunRecord, error) {
	var run *core.RunRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunKey(mode))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			run, unmarshalErr = storage.UnmarshalRunRecord(val)
			return unmarshalErr
		})
	}, false)

	return run, err
}
