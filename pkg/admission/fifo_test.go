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

func TestFIFOReleasesImmediately(t *testing.T) {
	p, err := admission.New(admission.FIFOName, types.Resources{})
	require.NoError(t, err)

	var released []*types.Reservation
	for i := 0; i < 3; i++ {
		r := &types.Reservation{RequestID: "r"}
		depth := p.HandleSubmit(r, func(r *types.Reservation) { released = append(released, r) })
		assert.Equal(t, 0, depth)
	}

	assert.Len(t, released, 3)
}

func TestFIFOQueueLenAlwaysZero(t *testing.T) {
	p, err := admission.New(admission.FIFOName, types.Resources{})
	require.NoError(t, err)

	p.HandleSubmit(&types.Reservation{AppID: "a"}, func(*types.Reservation) {})
	assert.Equal(t, 0, p.QueueLen("a"))
}

func TestUnknownPolicyName(t *testing.T) {
	_, err := admission.New("no-such-policy", types.Resources{})
	assert.Error(t, err)
}
