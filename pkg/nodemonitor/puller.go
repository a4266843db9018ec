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
	"net"
	"strconv"

	"github.com/NetSys/sparrow/pkg/audit"
	"github.com/NetSys/sparrow/pkg/rpc"
	"github.com/NetSys/sparrow/pkg/types"
)

// schedulerAddress resolves the address the Task Puller dials for a
// reservation's getTask call. Reservations may carry a scheduler address
// with no port (the scheduler host alone), in which case the well-known
// get_task.port (spec.md §6) is appended; an address that already
// specifies a port is used as-is.
func (m *Monitor) schedulerAddress(r *types.Reservation) string {
	if _, _, err := net.SplitHostPort(r.SchedulerAddress); err == nil {
		return r.SchedulerAddress
	}
	return net.JoinHostPort(r.SchedulerAddress, strconv.Itoa(m.getTaskPort))
}

// makeRunnable is the task puller: it converts a released reservation
// into a runnable-queue entry by calling getTask on the
// scheduler that issued it. Every call path through this function ends in
// either a runnable-queue send or a call to completed, never both — the
// at-most-one-launch invariant. The one path that ends in neither is a
// runnable-queue send abandoned because the Monitor was stopped.
func (m *Monitor) makeRunnable(r *types.Reservation) {
	addr := m.schedulerAddress(r)

	client, err := m.schedulers.Borrow(m.ctx, addr)
	if err != nil {
		log.Warn("borrowing scheduler client for %s: %v", addr, err)
		m.completed(r.RequestID, r.PreviousRequestID, r.PreviousTaskID)
		return
	}

	resp, err := client.GetTask(m.ctx, &rpc.GetTaskRequest{
		RequestID:          r.RequestID,
		NodeMonitorAddress: m.selfAddress,
	})
	if err != nil {
		// Transport error to scheduler: drop the client, fail via the
		// no-task pathway, log at warning.
		log.Warn("getTask to %s for requestId %s failed: %v", addr, r.RequestID, err)
		m.schedulers.Drop(addr)
		m.completed(r.RequestID, r.PreviousRequestID, r.PreviousTaskID)
		return
	}

	switch len(resp.Tasks) {
	case 0:
		audit.Event("node_monitor_no_task", audit.F("requestId", r.RequestID))
		m.completed(r.RequestID, r.PreviousRequestID, r.PreviousTaskID)
		if m.metrics != nil {
			m.metrics.NoTasks.Inc()
		}
	case 1:
		m.enqueueRunnable(r, &resp.Tasks[0])
	default:
		log.Warn("getTask for requestId %s returned %d specs; using the first, discarding the rest",
			r.RequestID, len(resp.Tasks))
		m.enqueueRunnable(r, &resp.Tasks[0])
	}
}

func (m *Monitor) enqueueRunnable(r *types.Reservation, spec *rpc.TaskLaunchSpec) {
	r.TaskSpec = &types.TaskLaunchSpec{TaskID: spec.TaskID, Message: spec.Message}
	select {
	case m.runnable <- r:
	case <-m.ctx.Done():
	}
}
