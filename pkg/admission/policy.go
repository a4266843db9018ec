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

// Package admission implements the pluggable admission policy backends: a
// reservation is either released immediately (handed to the task puller)
// or retained until capacity or a completion frees it up.
package admission

import (
	"fmt"

	"github.com/NetSys/sparrow/pkg/types"
)

// Releaser is the callback the policy uses to hand a reservation to the
// Task Puller. It is invoked under the policy's lock by handleSubmit and
// handleTaskCompleted — implementations must not block on network I/O.
type Releaser func(*types.Reservation)

// Policy is the capability set a node monitor drives. HandleSubmit and
// HandleTaskCompleted are called holding the accounting lock described in
// spec.md §5; QueueLen is read-only and is called without that lock, from
// the node monitor's getResourceUsage.
type Policy interface {
	// Name returns the well-known name this policy was registered under.
	Name() string
	// HandleSubmit is called once per reservation on intake. It returns
	// the current depth of the policy's internal queue, for audit.
	HandleSubmit(r *types.Reservation, release Releaser) int
	// HandleTaskCompleted is called once a reservation has reached a
	// terminal state and its resources have been credited back to the
	// node's inUse vector; freed is the resource vector that reservation
	// claimed. HandleTaskCompleted may release zero or more retained
	// reservations, stamping each with lastTaskReqID/lastTaskID before
	// calling release.
	HandleTaskCompleted(lastTaskReqID, lastTaskID string, freed types.Resources, release Releaser)
	// QueueLen returns the number of reservations currently retained for
	// appID (used by getResourceUsage).
	QueueLen(appID string) int
}

// CreateFn builds a Policy instance bound to the given capacity.
type CreateFn func(capacity types.Resources) Policy

var registry = map[string]CreateFn{}

// Register registers a policy backend under name. Re-registering the
// same name is a programmer error and panics, since registration only
// ever happens from package init.
func Register(name string, create CreateFn) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("admission: policy %q already registered", name))
	}
	registry[name] = create
}

// New creates the named policy, bound to capacity. It returns an error if
// name was never registered.
func New(name string, capacity types.Resources) (Policy, error) {
	create, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("admission: unknown policy %q", name)
	}
	return create(capacity), nil
}
