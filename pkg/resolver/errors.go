// Copyright 2025 walteh LLC
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

package resolver

import (
	"fmt"

	"github.com/walteh/bookpack/pkg/artifact"
	"gitlab.com/tozd/go/errors"
)

var ErrDestinationConflict = errors.Base("destination conflict")

// 💥 DestinationConflictError is returned when two different artifacts would
// be written to the same file
type DestinationConflictError struct {
	Path     string
	Existing *artifact.Artifact
	Rejected *artifact.Artifact
}

func (e *DestinationConflictError) Error() string {
	return fmt.Sprintf("destination %q is already written by %s, cannot add %s", e.Path, e.Existing, e.Rejected)
}

func (e *DestinationConflictError) Unwrap() error {
	return ErrDestinationConflict
}
