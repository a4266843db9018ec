// Copyright 2020 Intel Corporation. All Rights Reserved.
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

// Package metrics collects the Prometheus series the node monitor exposes
// alongside the getResourceUsage RPC.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the node monitor's Prometheus collector.
type Metrics struct {
	InUseMemMB  prometheus.Gauge
	InUseCPU    prometheus.Gauge
	QueueDepth  *prometheus.GaugeVec
	Launches    prometheus.Counter
	NoTasks     prometheus.Counter
	LaunchFails prometheus.Counter
}

// NewMetrics creates and registers the node monitor's metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		InUseMemMB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "node_monitor",
			Name:      "in_use_memory_mb",
			Help:      "Memory currently claimed by runnable or running tasks, in MB.",
		}),
		InUseCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "node_monitor",
			Name:      "in_use_cpu_cores",
			Help:      "CPU cores currently claimed by runnable or running tasks.",
		}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "node_monitor",
			Name:      "policy_queue_depth",
			Help:      "Number of reservations retained by the admission policy, by app.",
		}, []string{"app_id"}),
		Launches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "node_monitor",
			Name:      "task_launches_total",
			Help:      "Total number of launchTask calls that app backends acknowledged.",
		}),
		NoTasks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "node_monitor",
			Name:      "no_task_total",
			Help:      "Total number of reservations that resolved to an empty getTask response.",
		}),
		LaunchFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "node_monitor",
			Name:      "task_launch_failures_total",
			Help:      "Total number of launches that failed: launchTask returned an RPC error, or no backend client could be acquired.",
		}),
	}

	reg.MustRegister(m.InUseMemMB, m.InUseCPU, m.QueueDepth, m.Launches, m.NoTasks, m.LaunchFails)

	return m
}
