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

// Logging is controlled with --logger-level and --logger-debug. The former
// sets the lowest severity that is not suppressed (debug, info, warn, error).
// Debug messages are not gated by the level: they are emitted only for
// sources enabled by the latter, which takes a comma-separated list of
// logger sources to enable debug messages for, or '*' for every source.
package log
