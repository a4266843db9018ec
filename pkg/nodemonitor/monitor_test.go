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

package nodemonitor_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/NetSys/sparrow/pkg/admission"
	"github.com/NetSys/sparrow/pkg/nodemonitor"
	"github.com/NetSys/sparrow/pkg/rpc"
	"github.com/NetSys/sparrow/pkg/types"
)

// fakeScheduler answers getTask according to a per-requestId script.
type fakeScheduler struct {
	mu       sync.Mutex
	specs    map[string][]rpc.TaskLaunchSpec
	fail     map[string]bool
	requests []string
}

func (f *fakeScheduler) GetTask(ctx context.Context, req *rpc.GetTaskRequest) (*rpc.GetTaskResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req.RequestID)
	fail := f.fail[req.RequestID]
	specs := f.specs[req.RequestID]
	f.mu.Unlock()

	if fail {
		return nil, assert.AnError
	}
	return &rpc.GetTaskResponse{Tasks: specs}, nil
}

// fakeBackend records launchTask calls.
type fakeBackend struct {
	mu        sync.Mutex
	launched  []rpc.LaunchTaskRequest
	launchedC chan rpc.LaunchTaskRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{launchedC: make(chan rpc.LaunchTaskRequest, 16)}
}

func (f *fakeBackend) LaunchTask(ctx context.Context, req *rpc.LaunchTaskRequest) (*rpc.LaunchTaskResponse, error) {
	f.mu.Lock()
	f.launched = append(f.launched, *req)
	f.mu.Unlock()
	f.launchedC <- *req
	return &rpc.LaunchTaskResponse{}, nil
}

func startScheduler(t *testing.T, s *fakeScheduler) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	rpc.RegisterSchedulerServer(srv, s)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
	return lis.Addr().String()
}

func startBackend(t *testing.T, b *fakeBackend) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	rpc.RegisterBackendServer(srv, b)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
	return lis.Addr().String()
}

func newMonitor(t *testing.T, policy string, capacity types.Resources) *nodemonitor.Monitor {
	t.Helper()
	m, err := nodemonitor.New(nodemonitor.Config{
		SelfAddress:   "test-node:1",
		Capacity:      capacity,
		Policy:        policy,
		Workers:       4,
		SchedulerPool: rpc.NewSchedulerPool(1000, 100),
		BackendPool:   rpc.NewBackendPool(4),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })
	return m
}

// TestSingleReservationTaskReturned is spec scenario 1: a reservation
// whose scheduler returns a task spec reaches launchTask, and the
// completion callback zeroes accounting out again.
func TestSingleReservationTaskReturned(t *testing.T) {
	sched := &fakeScheduler{specs: map[string][]rpc.TaskLaunchSpec{
		"r1": {{TaskID: "t1", Message: []byte("hello")}},
	}}
	backend := newFakeBackend()

	schedAddr := startScheduler(t, sched)
	backendAddr := startBackend(t, backend)

	m := newMonitor(t, admission.FIFOName, types.Resources{MemoryMB: 4096, CPUCores: 4})

	_, err := m.EnqueueTaskReservations(context.Background(), &rpc.EnqueueTaskReservationsRequest{
		RequestID:          "r1",
		AppID:              "app",
		User:               "alice",
		EstimatedResources: types.Resources{MemoryMB: 1024, CPUCores: 1},
		SchedulerAddress:   schedAddr,
		AppBackendAddress:  backendAddr,
		NumTasks:           1,
	})
	require.NoError(t, err)

	var launched rpc.LaunchTaskRequest
	select {
	case launched = <-backend.launchedC:
	case <-time.After(2 * time.Second):
		t.Fatal("launchTask was never called")
	}
	assert.Equal(t, "t1", launched.FullTaskID.TaskID)
	assert.Equal(t, "r1", launched.FullTaskID.RequestID)

	_, err = m.TasksFinished(context.Background(), &rpc.TasksFinishedRequest{
		Finished: []rpc.FullTaskID{{TaskID: "t1", RequestID: "r1", AppID: "app"}},
	})
	require.NoError(t, err)

	usage, err := m.GetResourceUsage(context.Background(), &rpc.GetResourceUsageRequest{AppID: "app"})
	require.NoError(t, err)
	assert.Equal(t, types.Resources{}, usage.InUse)
}

// TestNoTaskReturned is spec scenario 2.
func TestNoTaskReturned(t *testing.T) {
	sched := &fakeScheduler{specs: map[string][]rpc.TaskLaunchSpec{"r1": {}}}
	backend := newFakeBackend()

	schedAddr := startScheduler(t, sched)
	backendAddr := startBackend(t, backend)

	m := newMonitor(t, admission.FIFOName, types.Resources{MemoryMB: 4096, CPUCores: 4})

	_, err := m.EnqueueTaskReservations(context.Background(), &rpc.EnqueueTaskReservationsRequest{
		RequestID:          "r1",
		AppID:              "app",
		EstimatedResources: types.Resources{MemoryMB: 1024, CPUCores: 1},
		SchedulerAddress:   schedAddr,
		AppBackendAddress:  backendAddr,
		NumTasks:           1,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		return len(sched.requests) == 1
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case <-backend.launchedC:
		t.Fatal("launchTask must not be called when getTask returns no specs")
	case <-time.After(200 * time.Millisecond):
	}

	usage, err := m.GetResourceUsage(context.Background(), &rpc.GetResourceUsageRequest{AppID: "app"})
	require.NoError(t, err)
	assert.Equal(t, types.Resources{}, usage.InUse)
}

// TestSchedulerFailureDropsClientAndReconnects is spec scenario 4.
func TestSchedulerFailureDropsClientAndReconnects(t *testing.T) {
	sched := &fakeScheduler{
		fail:  map[string]bool{"r1": true},
		specs: map[string][]rpc.TaskLaunchSpec{"r1b": {}},
	}
	backend := newFakeBackend()

	schedAddr := startScheduler(t, sched)
	backendAddr := startBackend(t, backend)

	m := newMonitor(t, admission.FIFOName, types.Resources{MemoryMB: 4096, CPUCores: 4})

	_, err := m.EnqueueTaskReservations(context.Background(), &rpc.EnqueueTaskReservationsRequest{
		RequestID:          "r1",
		AppID:              "app",
		EstimatedResources: types.Resources{MemoryMB: 1024, CPUCores: 1},
		SchedulerAddress:   schedAddr,
		AppBackendAddress:  backendAddr,
		NumTasks:           1,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		usage, err := m.GetResourceUsage(context.Background(), &rpc.GetResourceUsageRequest{AppID: "app"})
		return err == nil && usage.InUse == types.Resources{}
	}, 2*time.Second, 10*time.Millisecond)

	// A follow-up reservation against the same scheduler address must
	// succeed off a freshly dialed connection.
	_, err = m.EnqueueTaskReservations(context.Background(), &rpc.EnqueueTaskReservationsRequest{
		RequestID:          "r1b",
		AppID:              "app",
		EstimatedResources: types.Resources{MemoryMB: 1024, CPUCores: 1},
		SchedulerAddress:   schedAddr,
		AppBackendAddress:  backendAddr,
		NumTasks:           1,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		sched.mu.Lock()
		defer sched.mu.Unlock()
		for _, id := range sched.requests {
			if id == "r1b" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

// concurrencyBackend blocks every launchTask call until release is
// closed, so tests can observe how many calls are in flight at once.
type concurrencyBackend struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	release     chan struct{}
}

func (b *concurrencyBackend) LaunchTask(ctx context.Context, req *rpc.LaunchTaskRequest) (*rpc.LaunchTaskResponse, error) {
	b.mu.Lock()
	b.inFlight++
	if b.inFlight > b.maxInFlight {
		b.maxInFlight = b.inFlight
	}
	b.mu.Unlock()

	select {
	case <-b.release:
	case <-ctx.Done():
	}

	b.mu.Lock()
	b.inFlight--
	b.mu.Unlock()

	return &rpc.LaunchTaskResponse{}, nil
}

// TestLaunchConcurrencyBoundedPerBackend asserts at most P concurrent
// launchTask calls reach any single backend, by making the fake backend
// block until released and checking no more than P calls are in flight
// at once.
func TestLaunchConcurrencyBoundedPerBackend(t *testing.T) {
	const p = 2
	const n = 5

	specs := map[string][]rpc.TaskLaunchSpec{}
	for i := 0; i < n; i++ {
		id := requestIDFor(i)
		specs[id] = []rpc.TaskLaunchSpec{{TaskID: id + "-task"}}
	}
	sched := &fakeScheduler{specs: specs}
	schedAddr := startScheduler(t, sched)

	backend := &concurrencyBackend{release: make(chan struct{})}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := grpc.NewServer()
	rpc.RegisterBackendServer(srv, backend)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)
	backendAddr := lis.Addr().String()

	m, err := nodemonitor.New(nodemonitor.Config{
		SelfAddress:   "test-node:1",
		Capacity:      types.Resources{MemoryMB: 1 << 20, CPUCores: 1 << 10},
		Policy:        admission.FIFOName,
		Workers:       n,
		SchedulerPool: rpc.NewSchedulerPool(1000, 100),
		BackendPool:   rpc.NewBackendPool(p),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Stop() })

	for i := 0; i < n; i++ {
		id := requestIDFor(i)
		_, err := m.EnqueueTaskReservations(context.Background(), &rpc.EnqueueTaskReservationsRequest{
			RequestID:          id,
			AppID:              "app",
			EstimatedResources: types.Resources{MemoryMB: 1, CPUCores: 1},
			SchedulerAddress:   schedAddr,
			AppBackendAddress:  backendAddr,
			NumTasks:           1,
		})
		require.NoError(t, err)
	}

	time.Sleep(300 * time.Millisecond)
	close(backend.release)
	time.Sleep(300 * time.Millisecond)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.LessOrEqual(t, backend.maxInFlight, p)
}

func requestIDFor(i int) string {
	return string(rune('a' + i))
}
