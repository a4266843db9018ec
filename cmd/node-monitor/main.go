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

package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"

	"github.com/NetSys/sparrow/pkg/config"
	"github.com/NetSys/sparrow/pkg/instrumentation"
	logger "github.com/NetSys/sparrow/pkg/log"
	"github.com/NetSys/sparrow/pkg/metrics"
	"github.com/NetSys/sparrow/pkg/nodemonitor"
	"github.com/NetSys/sparrow/pkg/rpc"
)

var log = logger.NewLogger("node-monitor")

const (
	schedulerConnectRate  = 20 // new scheduler connections/sec
	schedulerConnectBurst = 5
)

func main() {
	config.RegisterFlags()
	logger.RegisterFlags()
	pflag.Parse()
	logger.ApplyFlags()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: %v", err)
	}

	if err := instrumentation.RegisterGrpcViews(); err != nil {
		log.Fatal("failed to set up instrumentation: %v", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)
	exporter, err := instrumentation.NewPrometheusExporter(registry, 10*time.Second)
	if err != nil {
		log.Fatal("failed to start Prometheus exporter: %v", err)
	}

	selfAddress, err := selfAddress(cfg.Port)
	if err != nil {
		log.Fatal("failed to determine own address: %v", err)
	}

	schedulerPool := rpc.NewSchedulerPool(schedulerConnectRate, schedulerConnectBurst)
	backendPool := rpc.NewBackendPool(int64(cfg.CPUCores))

	mon, err := nodemonitor.New(nodemonitor.Config{
		SelfAddress:   selfAddress,
		Capacity:      cfg.Capacity(),
		Policy:        cfg.Policy,
		Workers:       cfg.CPUCores,
		GetTaskPort:   cfg.GetTaskPort,
		SchedulerPool: schedulerPool,
		BackendPool:   backendPool,
		Metrics:       m,
	})
	if err != nil {
		log.Fatal("failed to create node monitor: %v", err)
	}

	grpcServer := grpc.NewServer(instrumentation.InjectGrpcServerTrace()...)
	rpc.RegisterNodeMonitorServer(grpcServer, mon)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		log.Fatal("failed to bind intake port %d: %v", cfg.Port, err)
	}

	go func() {
		log.Info("node monitor serving reservation intake on %s...", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server exited: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.Handle(instrumentation.PrometheusMetricsPath, exporter)
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		log.Info("serving metrics on %s%s...", cfg.MetricsAddr, instrumentation.PrometheusMetricsPath)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server exited: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("received signal %v, shutting down...", sig)

	grpcServer.GracefulStop()
	if err := metricsServer.Close(); err != nil {
		log.Error("closing metrics server: %v", err)
	}
	if err := mon.Stop(); err != nil {
		log.Error("stopping node monitor: %v", err)
	}
	if err := schedulerPool.Close(); err != nil {
		log.Error("closing scheduler connection pool: %v", err)
	}
	if err := backendPool.Close(); err != nil {
		log.Error("closing backend connection pool: %v", err)
	}

	os.Exit(0)
}

// selfAddress builds the address schedulers should call back to for
// getTask, from this host's hostname and the intake port.
func selfAddress(port int) (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", host, port), nil
}
