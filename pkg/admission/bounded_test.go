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

package admission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetSys/sparrow/pkg/admission"
	"github.com/NetSys/sparrow/pkg/types"
)

func TestBoundedSlotReuse(t *testing.T) {
	// Mirrors spec scenario 3: two reservations against a worker whose
	// capacity admits exactly one at a time.
	capacity := types.Resources{MemoryMB: 4096, CPUCores: 2}
	p, err := admission.New(admission.BoundedName, capacity)
	require.NoError(t, err)

	resources := types.Resources{MemoryMB: 4096, CPUCores: 2}
	var released []*types.Reservation
	release := func(r *types.Reservation) { released = append(released, r) }

	first := &types.Reservation{RequestID: "r2", EstimatedResources: resources}
	second := &types.Reservation{RequestID: "r2", EstimatedResources: resources}

	depth := p.HandleSubmit(first, release)
	assert.Equal(t, 0, depth, "first reservation should release immediately")

	depth = p.HandleSubmit(second, release)
	assert.Equal(t, 1, depth, "second reservation should be retained")
	require.Len(t, released, 1)

	p.HandleTaskCompleted("r2", "t1", resources, release)

	require.Len(t, released, 2)
	assert.Equal(t, "r2", released[1].PreviousRequestID)
	assert.Equal(t, "t1", released[1].PreviousTaskID)
}

func TestBoundedCompletionNeverDrivesCommittedNegative(t *testing.T) {
	capacity := types.Resources{MemoryMB: 1024, CPUCores: 1}
	p, err := admission.New(admission.BoundedName, capacity)
	require.NoError(t, err)

	release := func(*types.Reservation) {}
	// Completing a reservation this policy never released must not
	// corrupt future admission decisions.
	p.HandleTaskCompleted("unknown", "t1", types.Resources{MemoryMB: 1024, CPUCores: 1}, release)

	var released []*types.Reservation
	r := &types.Reservation{EstimatedResources: types.Resources{MemoryMB: 1024, CPUCores: 1}}
	depth := p.HandleSubmit(r, func(r *types.Reservation) { released = append(released, r) })

	assert.Equal(t, 0, depth)
	assert.Len(t, released, 1)
}

func TestBoundedQueueLenFiltersByApp(t *testing.T) {
	capacity := types.Resources{}
	p, err := admission.New(admission.BoundedName, capacity)
	require.NoError(t, err)

	big := types.Resources{MemoryMB: 1, CPUCores: 1}
	p.HandleSubmit(&types.Reservation{AppID: "a", EstimatedResources: big}, func(*types.Reservation) {})
	p.HandleSubmit(&types.Reservation{AppID: "b", EstimatedResources: big}, func(*types.Reservation) {})

	assert.Equal(t, 1, p.QueueLen("a"))
	assert.Equal(t, 1, p.QueueLen("b"))
	assert.Equal(t, 0, p.QueueLen("c"))
}
