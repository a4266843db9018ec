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

// Package rpc is the wire layer between a node monitor, the schedulers it
// pulls tasks from, and the application backends it launches tasks on.
// There is no .proto IDL behind these messages, so request/response types
// are plain gob-encodable structs (this file), carried over
// grpc.ServiceDesc-registered RPCs (service.go) using a hand-registered
// gob codec (codec.go) instead of protoc-gen-go-grpc output.
package rpc

import "github.com/NetSys/sparrow/pkg/types"

// EnqueueTaskReservationsRequest is the wire form of
// enqueueTaskReservations's input: N reservations for one job, sharing a
// requestId, user, per-task resource estimate, and the scheduler/backend
// addresses needed to drive the reservations once released.
type EnqueueTaskReservationsRequest struct {
	RequestID          string
	AppID              string
	User               string
	EstimatedResources types.Resources
	SchedulerAddress   string
	AppBackendAddress  string
	NumTasks           int
}

// EnqueueTaskReservationsResponse acknowledges intake; enqueueing makes no
// placement guarantee.
type EnqueueTaskReservationsResponse struct{}

// FullTaskID is the wire form of types.FullTaskID.
type FullTaskID struct {
	TaskID               string
	RequestID            string
	AppID                string
	OriginatingScheduler string
}

// TasksFinishedRequest carries one tasksFinished callback batch.
type TasksFinishedRequest struct {
	Finished []FullTaskID
}

type TasksFinishedResponse struct{}

// GetResourceUsageRequest asks for inUse plus the app-specific queue depth.
type GetResourceUsageRequest struct {
	AppID string
}

type GetResourceUsageResponse struct {
	InUse    types.Resources
	QueueLen int
}

// GetTaskRequest is sent by a node monitor's task puller to the scheduler
// that issued a reservation.
type GetTaskRequest struct {
	RequestID          string
	NodeMonitorAddress string
}

// TaskLaunchSpec is the wire form of types.TaskLaunchSpec.
type TaskLaunchSpec struct {
	TaskID  string
	Message []byte
}

// GetTaskResponse carries zero or more specs; at most one in practice.
type GetTaskResponse struct {
	Tasks []TaskLaunchSpec
}

// LaunchTaskRequest is sent by a node monitor's launcher pool to the local
// application backend.
type LaunchTaskRequest struct {
	Message            []byte
	FullTaskID         FullTaskID
	User               string
	EstimatedResources types.Resources
}

type LaunchTaskResponse struct{}
