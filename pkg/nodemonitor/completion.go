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

package nodemonitor

import "github.com/NetSys/sparrow/pkg/types"

// completed is the completion pathway: invoked exactly once for every
// reservation that reaches a terminal state, whether by tasksFinished, an
// empty getTask response, or a getTask transport error. requestID
// identifies the job whose accounting is decremented; lastTaskReqID/
// lastTaskID are stamped onto any reservation the policy releases in
// response.
func (m *Monitor) completed(requestID, lastTaskReqID, lastTaskID string) {
	m.mu.Lock()

	job, ok := m.jobs[requestID]
	if !ok {
		// Internal invariant violation: a completion for an unknown
		// requestId. Synthesize a one-task, zero-resource record so the
		// decrement below removes it cleanly instead of corrupting live
		// accounting or crashing the daemon.
		log.Error("completion for unknown requestId %q; synthesizing accounting record", requestID)
		job = &types.JobResourceInfo{RemainingTasks: 1}
		m.jobs[requestID] = job
	}

	freed := job.Resources
	m.resources.InUse = m.resources.InUse.Sub(freed)
	if !m.resources.InUse.NonNegative() {
		m.resources.InUse = types.Resources{}
	}

	job.RemainingTasks--
	if job.RemainingTasks <= 0 {
		delete(m.jobs, requestID)
	}

	m.policy.HandleTaskCompleted(lastTaskReqID, lastTaskID, freed, m.release)

	inUse := m.resources.InUse
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.InUseMemMB.Set(float64(inUse.MemoryMB))
		m.metrics.InUseCPU.Set(inUse.CPUCores)
	}
}
