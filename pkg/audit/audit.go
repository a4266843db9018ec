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

// Package audit emits the node monitor's stable-named operational audit
// events (spec.md §4.1, §4.4, §7) as structured Info log lines. Events
// are not persisted; they exist for operators tailing logs.
package audit

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	logger "github.com/NetSys/sparrow/pkg/log"
)

var log = logger.NewLogger("audit")

// Event emits a single audit record. name is a stable event name (e.g.
// "node_monitor_task_launch"); fields are logged as key=value pairs in
// the order given.
func Event(name string, fields ...Field) {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" id=")
	b.WriteString(uuid.NewString())
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	log.Info("%s", b.String())
}

// Field is a single key=value pair attached to an audit Event.
type Field struct {
	Key   string
	Value string
}

// F builds a Field from any value via fmt-style %v formatting.
func F(key string, value interface{}) Field {
	if s, ok := value.(string); ok {
		return Field{Key: key, Value: s}
	}
	return Field{Key: key, Value: fmt.Sprintf("%v", value)}
}
