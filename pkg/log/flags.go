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

package log

import (
	"strings"

	"github.com/spf13/pflag"
)

var namedLevels = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

var levelFlag string
var debugFlag string

// RegisterFlags wires up the command-line flags that configure logging.
// Callers should invoke it once from main() before pflag.Parse().
func RegisterFlags() {
	pflag.StringVar(&levelFlag, "logger-level", "info",
		"least severity of log messages to pass through (debug, info, warn, error)")
	pflag.StringVar(&debugFlag, "logger-debug", "",
		"comma-separated list of sources to enable debug logging for, or '*' for all")
}

// ApplyFlags applies the values parsed by RegisterFlags. Call after pflag.Parse().
func ApplyFlags() {
	if l, ok := namedLevels[strings.ToLower(levelFlag)]; ok {
		SetLevel(l)
	}
	if debugFlag == "" {
		return
	}
	for _, source := range strings.Split(debugFlag, ",") {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		if source == "*" {
			mu.Lock()
			for s := range loggers {
				debug[s] = true
			}
			mu.Unlock()
			continue
		}
		NewLogger(source).EnableDebug(true)
	}
}
