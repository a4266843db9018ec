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

import (
	"github.com/NetSys/sparrow/pkg/audit"
	"github.com/NetSys/sparrow/pkg/rpc"
	"github.com/NetSys/sparrow/pkg/types"
)

// startLauncherPool starts the fixed P-worker launcher pool. Each worker
// blocks on the runnable queue, debits inUse at dequeue, and invokes
// launchTask on the reservation's app backend.
func (m *Monitor) startLauncherPool() {
	for i := 0; i < m.workers; i++ {
		m.group.Go(m.launcherLoop)
	}
}

func (m *Monitor) launcherLoop() error {
	for {
		select {
		case <-m.ctx.Done():
			return nil
		case r := <-m.runnable:
			m.launch(r)
		}
	}
}

func (m *Monitor) launch(r *types.Reservation) {
	// Debit happens at dequeue, not at release: reservations still on the
	// runnable queue are not part of inUse (NodeResources.Free takes their
	// claims as a separate argument), and this is the only place inUse is
	// debited for a reservation.
	m.mu.Lock()
	m.resources.InUse = m.resources.InUse.Add(r.EstimatedResources)
	inUse := m.resources.InUse
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.InUseMemMB.Set(float64(inUse.MemoryMB))
		m.metrics.InUseCPU.Set(inUse.CPUCores)
	}

	client, release, err := m.backends.Acquire(m.ctx, r.AppBackendAddress)
	if err != nil {
		log.Error("acquiring backend client for %s: %v", r.AppBackendAddress, err)
		if m.metrics != nil {
			m.metrics.LaunchFails.Inc()
		}
		return
	}

	fullTaskID := rpc.FullTaskID{
		TaskID:               r.TaskSpec.TaskID,
		RequestID:            r.RequestID,
		AppID:                r.AppID,
		OriginatingScheduler: r.SchedulerAddress,
	}

	_, err = client.LaunchTask(m.ctx, &rpc.LaunchTaskRequest{
		Message:            r.TaskSpec.Message,
		FullTaskID:         fullTaskID,
		User:               r.User,
		EstimatedResources: r.EstimatedResources,
	})
	if err != nil {
		// Transport error to backend: log, do not retry, leave accounting
		// as-is. The backend is expected to eventually deliver
		// tasksFinished, or the reservation leaks; we deliberately do not
		// synthesize a completion here (see DESIGN.md). The connection
		// itself may be unhealthy, so it is not returned to the pool.
		log.Error("launchTask to %s for task %s failed: %v", r.AppBackendAddress, fullTaskID.TaskID, err)
		release(false)
		if m.metrics != nil {
			m.metrics.LaunchFails.Inc()
		}
		return
	}
	release(true)

	if m.metrics != nil {
		m.metrics.Launches.Inc()
	}
	audit.Event("node_monitor_task_launch",
		audit.F("requestId", r.RequestID),
		audit.F("taskId", fullTaskID.TaskID),
		audit.F("previousRequestId", r.PreviousRequestID),
		audit.F("previousTaskId", r.PreviousTaskID))
}
