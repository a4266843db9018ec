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

package rpc

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// appendErr wraps err with the address it came from and folds it into
// result, aggregating independent shutdown errors instead of stopping at
// the first one.
func appendErr(result error, address string, err error) error {
	return multierror.Append(result, errors.Wrapf(err, "rpc: closing connection to %s", address))
}
