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

// Package nodemonitor is the per-worker task-admission engine: reservation
// intake, the admission policy it drives, the task puller, and the
// launcher pool. A Monitor is the rendezvous point where many schedulers'
// independent placement decisions collide on this host's shared
// resources, so every accounting mutation goes through a single "policy
// lock".
package nodemonitor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/NetSys/sparrow/pkg/admission"
	"github.com/NetSys/sparrow/pkg/audit"
	logger "github.com/NetSys/sparrow/pkg/log"
	"github.com/NetSys/sparrow/pkg/metrics"
	"github.com/NetSys/sparrow/pkg/rpc"
	"github.com/NetSys/sparrow/pkg/types"
)

var log = logger.NewLogger("nodemonitor")

// Config bundles a Monitor's startup parameters.
type Config struct {
	// SelfAddress is this node monitor's own address, passed to
	// getTask so the scheduler knows where to route the task spec.
	SelfAddress string
	// Capacity is the immutable resource vector this host offers.
	Capacity types.Resources
	// Policy is the well-known name of the admission policy to run
	// (admission.FIFOName or admission.BoundedName).
	Policy string
	// Workers is P, the fixed launcher pool size.
	Workers int
	// RunnableQueueSize bounds the runnable queue (bounded deliberately,
	// even though the reference implementation leaves it unbounded).
	RunnableQueueSize int
	// GetTaskPort is the well-known port schedulers serve getTask on
	// (spec.md §6's get_task.port). Appended to a reservation's
	// SchedulerAddress when that address carries no port of its own.
	GetTaskPort int
	// SchedulerPool and BackendPool back the Task Puller and Launcher
	// Pool's outbound RPCs respectively.
	SchedulerPool *rpc.SchedulerPool
	BackendPool   *rpc.BackendPool
	Metrics       *metrics.Metrics
}

// Monitor implements rpc.NodeMonitorServer and owns the accounting state:
// the policy, the per-job accounting map, and the node's inUse vector,
// all behind a single mutex.
type Monitor struct {
	selfAddress string
	getTaskPort int
	schedulers  *rpc.SchedulerPool
	backends    *rpc.BackendPool
	metrics     *metrics.Metrics

	mu        sync.Mutex // the policy lock
	policy    admission.Policy
	jobs      map[string]*types.JobResourceInfo
	resources types.NodeResources

	runnable chan *types.Reservation

	workers int
	group   *errgroup.Group
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ rpc.NodeMonitorServer = (*Monitor)(nil)

// New builds a Monitor from cfg and starts its Launcher Pool. Call Stop to
// shut it down.
func New(cfg Config) (*Monitor, error) {
	policy, err := admission.New(cfg.Policy, cfg.Capacity)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queueSize := cfg.RunnableQueueSize
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	m := &Monitor{
		selfAddress: cfg.SelfAddress,
		getTaskPort: cfg.GetTaskPort,
		schedulers:  cfg.SchedulerPool,
		backends:    cfg.BackendPool,
		metrics:     cfg.Metrics,
		policy:      policy,
		jobs:        make(map[string]*types.JobResourceInfo),
		resources:   types.NodeResources{Capacity: cfg.Capacity},
		runnable:    make(chan *types.Reservation, queueSize),
		workers:     workers,
		group:       group,
		ctx:         gctx,
		cancel:      cancel,
	}

	m.startLauncherPool()

	return m, nil
}

// Stop cancels the Monitor's context and waits for the launcher pool to
// exit. The runnable queue is not drained: reservations still on it are
// not launched, and launchTask calls in flight are cancelled.
func (m *Monitor) Stop() error {
	m.cancel()
	return m.group.Wait()
}

// EnqueueTaskReservations implements the enqueueTaskReservations RPC.
func (m *Monitor) EnqueueTaskReservations(ctx context.Context, req *rpc.EnqueueTaskReservationsRequest) (*rpc.EnqueueTaskReservationsResponse, error) {
	if req.AppID == "" || req.AppBackendAddress == "" {
		return nil, malformedRequestError("enqueueTaskReservations missing appId or appBackendAddress")
	}
	if req.NumTasks < 1 {
		return nil, malformedRequestError("enqueueTaskReservations numTasks must be >= 1")
	}

	m.mu.Lock()
	// Step 1: upsert JobResourceInfo. A repeated requestId overwrites the
	// existing record, matching documented (if questionable) reference
	// behavior — see DESIGN.md.
	m.jobs[req.RequestID] = &types.JobResourceInfo{
		RemainingTasks: req.NumTasks,
		Resources:      req.EstimatedResources,
	}

	depths := make([]int, req.NumTasks)
	for i := 0; i < req.NumTasks; i++ {
		r := &types.Reservation{
			RequestID:          req.RequestID,
			AppID:              req.AppID,
			User:               req.User,
			EstimatedResources: req.EstimatedResources,
			SchedulerAddress:   req.SchedulerAddress,
			AppBackendAddress:  req.AppBackendAddress,
		}
		depths[i] = m.policy.HandleSubmit(r, m.release)
	}
	m.mu.Unlock()

	// Step 3: one audit record per reservation, each carrying the queue
	// depth observed at the moment that particular reservation was
	// submitted to the policy — under the bounded policy, reservations in
	// the same batch can be released or retained independently.
	for _, depth := range depths {
		if m.metrics != nil {
			m.metrics.QueueDepth.WithLabelValues(req.AppID).Set(float64(depth))
		}
		audit.Event("node_monitor_reservation_submitted",
			audit.F("requestId", req.RequestID),
			audit.F("appId", req.AppID),
			audit.F("numTasks", req.NumTasks),
			audit.F("queueDepth", depth))
	}

	return &rpc.EnqueueTaskReservationsResponse{}, nil
}

// TasksFinished implements the tasksFinished RPC: for every finishing
// task, the completion pathway runs with requestId used twice, as both
// lastTaskRequestId and the job-accounting key.
func (m *Monitor) TasksFinished(ctx context.Context, req *rpc.TasksFinishedRequest) (*rpc.TasksFinishedResponse, error) {
	for _, t := range req.Finished {
		m.completed(t.RequestID, t.RequestID, t.TaskID)
	}
	return &rpc.TasksFinishedResponse{}, nil
}

// GetResourceUsage implements the getResourceUsage RPC, reading inUse and
// the policy's per-app queue length. Per spec.md §4.2/§5 this is load
// reporting, not an accounting mutation: it must not contend with the
// admission hot path, so it takes the policy lock only for the inUse
// snapshot and calls QueueLen afterward, unlocked. Policy implementations
// are responsible for synchronizing their own internal queue state so
// that a concurrent, lock-free QueueLen is safe (see DESIGN.md).
func (m *Monitor) GetResourceUsage(ctx context.Context, req *rpc.GetResourceUsageRequest) (*rpc.GetResourceUsageResponse, error) {
	m.mu.Lock()
	inUse := m.resources.InUse
	m.mu.Unlock()

	queueLen := m.policy.QueueLen(req.AppID)

	return &rpc.GetResourceUsageResponse{InUse: inUse, QueueLen: queueLen}, nil
}

// release is the admission.Releaser the policy invokes, under the policy
// lock, to hand a reservation to the task puller. It must not block on
// network I/O, so it only ever starts the puller's work asynchronously.
func (m *Monitor) release(r *types.Reservation) {
	go m.makeRunnable(r)
}
