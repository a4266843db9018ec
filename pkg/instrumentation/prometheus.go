// Copyright 2019-2020 Intel Corporation. All Rights Reserved.
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

package instrumentation

import (
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	pclient "github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/stats/view"
)

// PrometheusMetricsPath is the URL path node-monitor exposes metrics on.
const PrometheusMetricsPath = "/metrics"

// NewPrometheusExporter builds and registers an opencensus->Prometheus
// exporter gathering from reg, the node monitor's own metrics registry
// (pkg/metrics). It also starts reporting the gRPC views registered by
// RegisterGrpcViews at period.
func NewPrometheusExporter(reg *pclient.Registry, period time.Duration) (*prometheus.Exporter, error) {
	exp, err := prometheus.NewExporter(prometheus.Options{
		Namespace: "sparrow",
		Gatherer:  reg,
		OnError:   func(err error) { log.Error("prometheus exporter: %v", err) },
	})
	if err != nil {
		return nil, err
	}

	view.RegisterExporter(exp)
	view.SetReportingPeriod(period)

	return exp, nil
}
