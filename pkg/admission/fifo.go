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

package admission

import "github.com/NetSys/sparrow/pkg/types"

// FIFOName is the well-known name of the unbounded FIFO policy.
const FIFOName = "fifo"

// fifo is the unbounded admission policy: every reservation is released
// the moment it is submitted. Accounting is still maintained by the
// caller; this policy never retains anything.
type fifo struct{}

func newFIFO(types.Resources) Policy {
	return &fifo{}
}

func (*fifo) Name() string { return FIFOName }

func (*fifo) HandleSubmit(r *types.Reservation, release Releaser) int {
	release(r)
	return 0
}

func (*fifo) HandleTaskCompleted(string, string, types.Resources, Releaser) {}

func (*fifo) QueueLen(string) int { return 0 }

func init() {
	Register(FIFOName, newFIFO)
}
