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

// Package instrumentation wires OpenCensus gRPC stats handlers into the
// node monitor's client and server dial/listen options.
package instrumentation

import (
	"fmt"

	"google.golang.org/grpc"

	"go.opencensus.io/plugin/ocgrpc"
	"go.opencensus.io/stats/view"

	logger "github.com/NetSys/sparrow/pkg/log"
)

var log = logger.NewLogger("instrumentation")

// InjectGrpcClientTrace appends the OpenCensus client stats handler to opts.
func InjectGrpcClientTrace(opts ...grpc.DialOption) []grpc.DialOption {
	return append(opts, grpc.WithStatsHandler(&ocgrpc.ClientHandler{}))
}

// InjectGrpcServerTrace appends the OpenCensus server stats handler to opts.
func InjectGrpcServerTrace(opts ...grpc.ServerOption) []grpc.ServerOption {
	return append(opts, grpc.StatsHandler(&ocgrpc.ServerHandler{}))
}

// RegisterGrpcViews registers the default OpenCensus gRPC client/server views.
// Call once during startup; safe to call even if tracing is never exported.
func RegisterGrpcViews() error {
	log.Debug("registering gRPC trace views...")

	if err := view.Register(ocgrpc.DefaultClientViews...); err != nil {
		return fmt.Errorf("instrumentation: failed to register gRPC client views: %v", err)
	}
	if err := view.Register(ocgrpc.DefaultServerViews...); err != nil {
		return fmt.Errorf("instrumentation: failed to register gRPC server views: %v", err)
	}
	return nil
}
