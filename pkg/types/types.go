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

// Package types holds the shared data model of the node monitor: the
// unit of admission (Reservation), its per-job accounting record
// (JobResourceInfo), and the resource vectors both are measured in.
package types

import "fmt"

// Resources is an extensible resource vector. Only memory and CPU are
// populated today; additional domains can be added without touching
// callers that only read/write the domains they care about.
type Resources struct {
	MemoryMB int64
	CPUCores float64
}

// Add returns the component-wise sum of r and other.
func (r Resources) Add(other Resources) Resources {
	return Resources{
		MemoryMB: r.MemoryMB + other.MemoryMB,
		CPUCores: r.CPUCores + other.CPUCores,
	}
}

// Sub returns the component-wise difference r - other.
func (r Resources) Sub(other Resources) Resources {
	return Resources{
		MemoryMB: r.MemoryMB - other.MemoryMB,
		CPUCores: r.CPUCores - other.CPUCores,
	}
}

// FitsIn reports whether r is component-wise less than or equal to cap.
func (r Resources) FitsIn(cap Resources) bool {
	return r.MemoryMB <= cap.MemoryMB && r.CPUCores <= cap.CPUCores
}

// NonNegative reports whether every component of r is >= 0.
func (r Resources) NonNegative() bool {
	return r.MemoryMB >= 0 && r.CPUCores >= 0
}

func (r Resources) String() string {
	return fmt.Sprintf("mem=%dMB,cpu=%.2f", r.MemoryMB, r.CPUCores)
}

// TaskLaunchSpec is the concrete payload and identity of a task to run,
// obtained from the scheduler via getTask.
type TaskLaunchSpec struct {
	TaskID  string
	Message []byte
}

// Reservation is the unit of admission: a claim on this worker for a
// future task whose spec is not yet known locally.
type Reservation struct {
	RequestID          string
	AppID              string
	User               string
	EstimatedResources Resources
	SchedulerAddress   string
	AppBackendAddress  string

	// PreviousRequestID/PreviousTaskID identify the last task actually
	// launched in the slot this reservation will occupy. Empty if the
	// reservation is filling a previously-empty slot. Set by the
	// admission policy when it releases a retained reservation in
	// response to a completion.
	PreviousRequestID string
	PreviousTaskID    string

	// TaskSpec is populated by the Task Puller on a successful getTask.
	TaskSpec *TaskLaunchSpec
}

// FullTaskID uniquely identifies a launched task for the backend and for
// correlating the eventual tasksFinished callback.
type FullTaskID struct {
	TaskID               string
	RequestID            string
	AppID                string
	OriginatingScheduler string
}

// JobResourceInfo is the per-requestId accounting record: how many
// reservations belonging to the job have not yet reached a terminal
// state, and the resource vector each of them claims.
type JobResourceInfo struct {
	RemainingTasks int
	Resources      Resources
}

// NodeResources tracks this host's immutable capacity and the portion
// currently claimed by runnable-or-running tasks.
type NodeResources struct {
	Capacity Resources
	InUse    Resources
}

// Free returns capacity - inUse - the claims of reservations still
// sitting on the runnable queue (queued, since those are debited at
// dequeue, not at release — see package nodemonitor).
func (n *NodeResources) Free(queued Resources) Resources {
	return n.Capacity.Sub(n.InUse).Sub(queued)
}
