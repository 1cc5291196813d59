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

// Repositories bundles the repositories sharing one backend.
type Repositories struct {
	Problems *ProblemRepository
	Runs     *RunRepository
	Backend  *Backend
}

// Close releases the repositories and then the backend.
func (r *Repositories) Close() error {
	err := r.Problems.Close()
	if cerr := r.Backend.Close(); err == nil {
		err = cerr
	}
	return err
}

// NewMemoryRepositories creates in-memory problem and run repositories for testing.
// Caller must Close the returned bundle when done.
func NewMemoryRepositories() (*Repositories, error) {
	backend, err := OpenBackend("", true, nil)
	if err != nil {
		return nil, err
	}

	problems, err := NewProblemRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Repositories{
		Problems: problems,
		Runs:     NewRunRepository(backend),
		Backend:  backend,
	}, nil
}
