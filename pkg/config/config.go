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

// Package config parses the node monitor's static configuration: a
// handful of pflag-registered command line options, optionally overridden
// by a YAML file. This is deliberately not a dynamic, hot-reloadable
// module system — node monitor configuration is read once at startup
// (see DESIGN.md).
package config

import (
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/NetSys/sparrow/pkg/admission"
	"github.com/NetSys/sparrow/pkg/types"
)

// Config is the node monitor's resolved configuration.
type Config struct {
	CPUCores      int     `yaml:"node_monitor.cpu_cores"`
	CapacityMemMB int64   `yaml:"node_monitor.capacity.mem"`
	CapacityCPU   float64 `yaml:"node_monitor.capacity.cpu"`
	Policy        string  `yaml:"node_monitor.policy"`
	Port          int     `yaml:"node_monitor.port"`
	GetTaskPort   int     `yaml:"get_task.port"`
	MetricsAddr   string  `yaml:"-"`
	ConfigFile    string  `yaml:"-"`
}

// Capacity returns the configured node resource capacity.
func (c *Config) Capacity() types.Resources {
	return types.Resources{MemoryMB: c.CapacityMemMB, CPUCores: c.CapacityCPU}
}

var (
	fCPUCores    int
	fCapacityMem int64
	fCapacityCPU float64
	fPolicy      string
	fPort        int
	fGetTaskPort int
	fMetricsAddr string
	fConfigFile  string
)

// RegisterFlags wires up the node monitor's command line flags. Call
// once from main() before pflag.Parse().
func RegisterFlags() {
	pflag.IntVar(&fCPUCores, "node_monitor.cpu_cores", runtime.NumCPU(),
		"number of launcher workers (P); defaults to the detected CPU count")
	pflag.Int64Var(&fCapacityMem, "node_monitor.capacity.mem", 0,
		"node memory capacity in MB")
	pflag.Float64Var(&fCapacityCPU, "node_monitor.capacity.cpu", 0,
		"node CPU capacity in cores")
	pflag.StringVar(&fPolicy, "node_monitor.policy", admission.FIFOName,
		"admission policy: fifo or bounded")
	pflag.IntVar(&fPort, "node_monitor.port", 20501,
		"port on which the node monitor serves reservation intake")
	pflag.IntVar(&fGetTaskPort, "get_task.port", 20502,
		"well-known port on which schedulers serve getTask")
	pflag.StringVar(&fMetricsAddr, "node_monitor.metrics_addr", ":9090",
		"address to serve /metrics on")
	pflag.StringVar(&fConfigFile, "node_monitor.config_file", "",
		"optional YAML file overriding the flags above")
}

// Load resolves the configuration from the parsed flags, applying any
// overrides from the YAML file named by --node_monitor.config_file.
func Load() (*Config, error) {
	c := &Config{
		CPUCores:      fCPUCores,
		CapacityMemMB: fCapacityMem,
		CapacityCPU:   fCapacityCPU,
		Policy:        fPolicy,
		Port:          fPort,
		GetTaskPort:   fGetTaskPort,
		MetricsAddr:   fMetricsAddr,
		ConfigFile:    fConfigFile,
	}

	if c.ConfigFile == "" {
		return c, nil
	}

	raw, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}
