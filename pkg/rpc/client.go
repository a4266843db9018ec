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

package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// callOpts selects the gob codec for every outgoing unary call this
// package makes, the client-side half of content-subtype negotiation.
func callOpts(opts ...grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}

// SchedulerClient is the node monitor's view of a scheduler: just getTask.
type SchedulerClient interface {
	GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error)
}

type schedulerClient struct {
	cc *grpc.ClientConn
}

// NewSchedulerClient builds a SchedulerClient bound to cc.
func NewSchedulerClient(cc *grpc.ClientConn) SchedulerClient {
	return &schedulerClient{cc: cc}
}

func (c *schedulerClient) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error) {
	out := new(GetTaskResponse)
	if err := c.cc.Invoke(ctx, SchedulerService_GetTask_FullMethodName, in, out, callOpts(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

// BackendClient is the node monitor's view of an application backend:
// just launchTask.
type BackendClient interface {
	LaunchTask(ctx context.Context, in *LaunchTaskRequest, opts ...grpc.CallOption) (*LaunchTaskResponse, error)
}

type backendClient struct {
	cc *grpc.ClientConn
}

// NewBackendClient builds a BackendClient bound to cc.
func NewBackendClient(cc *grpc.ClientConn) BackendClient {
	return &backendClient{cc: cc}
}

func (c *backendClient) LaunchTask(ctx context.Context, in *LaunchTaskRequest, opts ...grpc.CallOption) (*LaunchTaskResponse, error) {
	out := new(LaunchTaskResponse)
	if err := c.cc.Invoke(ctx, BackendService_LaunchTask_FullMethodName, in, out, callOpts(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

// NodeMonitorClient is a scheduler's view of a node monitor: the three
// RPCs it serves. Included for symmetry with the other clients; neither
// the production node-monitor code nor this repository's tests call it.
type NodeMonitorClient interface {
	EnqueueTaskReservations(ctx context.Context, in *EnqueueTaskReservationsRequest, opts ...grpc.CallOption) (*EnqueueTaskReservationsResponse, error)
	TasksFinished(ctx context.Context, in *TasksFinishedRequest, opts ...grpc.CallOption) (*TasksFinishedResponse, error)
	GetResourceUsage(ctx context.Context, in *GetResourceUsageRequest, opts ...grpc.CallOption) (*GetResourceUsageResponse, error)
}

type nodeMonitorClient struct {
	cc *grpc.ClientConn
}

// NewNodeMonitorClient builds a NodeMonitorClient bound to cc.
func NewNodeMonitorClient(cc *grpc.ClientConn) NodeMonitorClient {
	return &nodeMonitorClient{cc: cc}
}

func (c *nodeMonitorClient) EnqueueTaskReservations(ctx context.Context, in *EnqueueTaskReservationsRequest, opts ...grpc.CallOption) (*EnqueueTaskReservationsResponse, error) {
	out := new(EnqueueTaskReservationsResponse)
	if err := c.cc.Invoke(ctx, NodeMonitorService_EnqueueTaskReservations_FullMethodName, in, out, callOpts(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeMonitorClient) TasksFinished(ctx context.Context, in *TasksFinishedRequest, opts ...grpc.CallOption) (*TasksFinishedResponse, error) {
	out := new(TasksFinishedResponse)
	if err := c.cc.Invoke(ctx, NodeMonitorService_TasksFinished_FullMethodName, in, out, callOpts(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeMonitorClient) GetResourceUsage(ctx context.Context, in *GetResourceUsageRequest, opts ...grpc.CallOption) (*GetResourceUsageResponse, error) {
	out := new(GetResourceUsageResponse)
	if err := c.cc.Invoke(ctx, NodeMonitorService_GetResourceUsage_FullMethodName, in, out, callOpts(opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
