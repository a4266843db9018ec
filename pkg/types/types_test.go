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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NetSys/sparrow/pkg/types"
)

func TestResourcesArithmetic(t *testing.T) {
	a := types.Resources{MemoryMB: 1024, CPUCores: 1}
	b := types.Resources{MemoryMB: 512, CPUCores: 0.5}

	assert.Equal(t, types.Resources{MemoryMB: 1536, CPUCores: 1.5}, a.Add(b))
	assert.Equal(t, types.Resources{MemoryMB: 512, CPUCores: 0.5}, a.Sub(b))
}

func TestResourcesFitsIn(t *testing.T) {
	cap := types.Resources{MemoryMB: 4096, CPUCores: 2}
	assert.True(t, types.Resources{MemoryMB: 4096, CPUCores: 2}.FitsIn(cap))
	assert.False(t, types.Resources{MemoryMB: 4097, CPUCores: 2}.FitsIn(cap))
}

func TestNodeResourcesFree(t *testing.T) {
	n := types.NodeResources{
		Capacity: types.Resources{MemoryMB: 4096, CPUCores: 4},
		InUse:    types.Resources{MemoryMB: 1024, CPUCores: 1},
	}
	queued := types.Resources{MemoryMB: 512, CPUCores: 0.5}

	assert.Equal(t, types.Resources{MemoryMB: 2560, CPUCores: 2.5}, n.Free(queued))
}

func TestResourcesNonNegative(t *testing.T) {
	assert.True(t, types.Resources{MemoryMB: 0, CPUCores: 0}.NonNegative())
	assert.False(t, types.Resources{MemoryMB: -1, CPUCores: 0}.NonNegative())
}
