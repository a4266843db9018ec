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

// NodeMonitorServer is implemented by a node monitor to serve the RPCs a
// scheduler calls on it.
type NodeMonitorServer interface {
	EnqueueTaskReservations(context.Context, *EnqueueTaskReservationsRequest) (*EnqueueTaskReservationsResponse, error)
	TasksFinished(context.Context, *TasksFinishedRequest) (*TasksFinishedResponse, error)
	GetResourceUsage(context.Context, *GetResourceUsageRequest) (*GetResourceUsageResponse, error)
}

// SchedulerServer is implemented by a scheduler to serve getTask. Only the
// client side (the node monitor's Task Puller) is exercised by this
// repository; the server side exists so tests can stand up a fake
// scheduler without a second transport.
type SchedulerServer interface {
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
}

// BackendServer is implemented by an application backend to serve
// launchTask. As with SchedulerServer, only the client side is driven by
// the production code path; the server side backs test fakes.
type BackendServer interface {
	LaunchTask(context.Context, *LaunchTaskRequest) (*LaunchTaskResponse, error)
}

func enqueueTaskReservationsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EnqueueTaskReservationsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeMonitorServer).EnqueueTaskReservations(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NodeMonitorService_EnqueueTaskReservations_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeMonitorServer).EnqueueTaskReservations(ctx, req.(*EnqueueTaskReservationsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func tasksFinishedHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(TasksFinishedRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeMonitorServer).TasksFinished(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NodeMonitorService_TasksFinished_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeMonitorServer).TasksFinished(ctx, req.(*TasksFinishedRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getResourceUsageHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetResourceUsageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeMonitorServer).GetResourceUsage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NodeMonitorService_GetResourceUsage_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeMonitorServer).GetResourceUsage(ctx, req.(*GetResourceUsageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SchedulerServer).GetTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SchedulerService_GetTask_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SchedulerServer).GetTask(ctx, req.(*GetTaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func launchTaskHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LaunchTaskRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BackendServer).LaunchTask(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BackendService_LaunchTask_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BackendServer).LaunchTask(ctx, req.(*LaunchTaskRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Fully-qualified method names, the same shape protoc-gen-go-grpc emits.
const (
	NodeMonitorService_EnqueueTaskReservations_FullMethodName = "/sparrow.rpc.NodeMonitorService/EnqueueTaskReservations"
	NodeMonitorService_TasksFinished_FullMethodName           = "/sparrow.rpc.NodeMonitorService/TasksFinished"
	NodeMonitorService_GetResourceUsage_FullMethodName        = "/sparrow.rpc.NodeMonitorService/GetResourceUsage"
	SchedulerService_GetTask_FullMethodName                   = "/sparrow.rpc.SchedulerService/GetTask"
	BackendService_LaunchTask_FullMethodName                  = "/sparrow.rpc.BackendService/LaunchTask"
)

// NodeMonitorServiceDesc is the grpc.ServiceDesc a node monitor registers
// with its grpc.Server to serve NodeMonitorServer.
var NodeMonitorServiceDesc = grpc.ServiceDesc{
	ServiceName: "sparrow.rpc.NodeMonitorService",
	HandlerType: (*NodeMonitorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "EnqueueTaskReservations", Handler: enqueueTaskReservationsHandler},
		{MethodName: "TasksFinished", Handler: tasksFinishedHandler},
		{MethodName: "GetResourceUsage", Handler: getResourceUsageHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sparrow/rpc/node_monitor.proto",
}

// SchedulerServiceDesc lets test fakes stand up a SchedulerServer; the
// node monitor only ever speaks the client side of this service.
var SchedulerServiceDesc = grpc.ServiceDesc{
	ServiceName: "sparrow.rpc.SchedulerService",
	HandlerType: (*SchedulerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetTask", Handler: getTaskHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sparrow/rpc/scheduler.proto",
}

// BackendServiceDesc lets test fakes stand up a BackendServer; the node
// monitor only ever speaks the client side of this service.
var BackendServiceDesc = grpc.ServiceDesc{
	ServiceName: "sparrow.rpc.BackendService",
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "LaunchTask", Handler: launchTaskHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sparrow/rpc/backend.proto",
}

// RegisterNodeMonitorServer registers srv on s to answer the RPCs served
// by the node monitor.
func RegisterNodeMonitorServer(s *grpc.Server, srv NodeMonitorServer) {
	s.RegisterService(&NodeMonitorServiceDesc, srv)
}

// RegisterSchedulerServer registers srv on s; used by tests that fake a
// scheduler's getTask.
func RegisterSchedulerServer(s *grpc.Server, srv SchedulerServer) {
	s.RegisterService(&SchedulerServiceDesc, srv)
}

// RegisterBackendServer registers srv on s; used by tests that fake an
// application backend's launchTask.
func RegisterBackendServer(s *grpc.Server, srv BackendServer) {
	s.RegisterService(&BackendServiceDesc, srv)
}
