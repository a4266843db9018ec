// Copyright 2019 Intel Corporation. All Rights Reserved.
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

package admission

import (
	"sync"

	"github.com/NetSys/sparrow/pkg/types"
)

// BoundedName is the well-known name of the bounded-concurrency policy.
const BoundedName = "bounded"

// bounded releases a reservation the moment doing so would not push this
// node's committed resources past capacity; otherwise it retains the
// reservation on a FIFO queue until a completion frees enough room.
//
// committed tracks resources claimed by reservations this policy has
// released but that have not yet completed. It is an approximation of
// inUse: released reservations are "in flight" (fetching/runnable/
// launching) before the node monitor's own inUse vector reflects them,
// mirroring a documented race between the runnable queue's
// debit-at-dequeue and a completing task's credit.
//
// HandleSubmit/HandleTaskCompleted are called under the node monitor's
// own policy lock, so mu is redundant for them; it exists so QueueLen can
// be called lock-free for load reporting (spec.md §4.2/§5) without racing
// the pending slice.
type bounded struct {
	mu        sync.Mutex
	capacity  types.Resources
	committed types.Resources
	pending   []*types.Reservation
}

func newBounded(capacity types.Resources) Policy {
	return &bounded{capacity: capacity}
}

func (*bounded) Name() string { return BoundedName }

func (b *bounded) HandleSubmit(r *types.Reservation, release Releaser) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed.Add(r.EstimatedResources).FitsIn(b.capacity) {
		b.committed = b.committed.Add(r.EstimatedResources)
		release(r)
		return len(b.pending)
	}
	b.pending = append(b.pending, r)
	return len(b.pending)
}

func (b *bounded) HandleTaskCompleted(lastTaskReqID, lastTaskID string, freed types.Resources, release Releaser) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.committed = b.committed.Sub(freed)
	if !b.committed.NonNegative() {
		// A completion for a reservation this policy never released
		// (e.g. a synthesized accounting record) would otherwise drive
		// committed negative; clamp instead of corrupting future
		// admission decisions.
		b.committed = types.Resources{}
	}

	for len(b.pending) > 0 {
		next := b.pending[0]
		if !b.committed.Add(next.EstimatedResources).FitsIn(b.capacity) {
			break
		}
		b.pending = b.pending[1:]
		b.committed = b.committed.Add(next.EstimatedResources)
		next.PreviousRequestID = lastTaskReqID
		next.PreviousTaskID = lastTaskID
		release(next)
	}
}

func (b *bounded) QueueLen(appID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, r := range b.pending {
		if r.AppID == appID {
			n++
		}
	}
	return n
}

func init() {
	Register(BoundedName, newBounded)
}
