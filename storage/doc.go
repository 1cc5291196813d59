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


// Package storage provides the storage abstraction layer for psenrich.
//
// This package defines repository interfaces that decouple storage implementation
// from the enrichment pipeline. The pipeline only depends on ProblemRepository,
// so tests can substitute any implementation.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the concrete repository
// types, with a compile-time assertion that they satisfy the interfaces here:
//
//	var _ storage.ProblemRepository = (*ProblemRepository)(nil)
//
// # Architecture
//
//   - ProblemRepository: enriched records keyed by external id
//   - RunRepository: the latest run trace per run mode
//
// The external id is the uniqueness key. Insert reports ErrDuplicateKey when a
// record already exists, which callers treat as "already enriched".
//
// # Usage
//
//	repos, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repos.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context. Pass context.Background()
// for operations without specific timeout requirements.
package storage
