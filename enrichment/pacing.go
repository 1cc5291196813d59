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


package enrichment

import (
	"context"
	"time"
)

// Pacer waits between consecutive items of a batch.
type Pacer interface {
	// Wait blocks until the next item may start, or until ctx is done.
	Wait(ctx context.Context) error
}

// PacerFunc adapts a function to the Pacer interface.
type PacerFunc func(ctx context.Context) error

// Wait calls f(ctx).
func (f PacerFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

// FixedDelay returns a Pacer that waits d between items.
// A zero delay still honors cancellation but never blocks.
func FixedDelay(d time.Duration) Pacer {
	return fixedDelay(d)
}

type fixedDelay time.Duration

func (d fixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}

	// Sleep with context awareness
	timer := time.NewTimer(time.Duration(d))
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
