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
	"fmt"
	"os"
)

// FmtBackendName is the name of the default fmt.Printf-based backend.
const FmtBackendName = "fmt"

// fmtBackend is the default Backend, printing to stderr.
type fmtBackend struct{}

func newFmtBackend() Backend {
	return &fmtBackend{}
}

func (f *fmtBackend) Name() string {
	return FmtBackendName
}

func (f *fmtBackend) Emit(level Level, source, message string) {
	fmt.Fprintf(os.Stderr, "%s: [%s] %s\n", levelNames[level], source, message)
}
