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

package finder

import (
	"fmt"
	"strings"

	"github.com/walteh/bookpack/pkg/group"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrFileNotFound       = errors.Base("file not found")
	ErrMultipleFilesFound = errors.Base("multiple files found")
)

func describeGroups(groups []group.Group) string {
	if len(groups) == 0 {
		return "any"
	}
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = ":" + string(g)
	}
	return strings.Join(names, ", ")
}

func describeContext(dir string) string {
	if dir == "" {
		return "<root>"
	}
	return dir
}

// 🔍 FileNotFoundError is returned when a single-result find matched nothing
type FileNotFoundError struct {
	Pattern    string
	Groups     []group.Group
	Context    string
	SearchedIn string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found for pattern %q (expected group: %s, context: %s, searched in: %s)",
		e.Pattern, describeGroups(e.Groups), describeContext(e.Context), e.SearchedIn)
}

func (e *FileNotFoundError) Unwrap() error {
	return ErrFileNotFound
}

// 👯 MultipleFilesFoundError is returned when a single-result find matched several files
type MultipleFilesFoundError struct {
	Pattern    string
	Groups     []group.Group
	Context    string
	SearchedIn string
	Candidates []string
}

func (e *MultipleFilesFoundError) Error() string {
	return fmt.Sprintf("multiple files found for pattern %q (expected group: %s, context: %s, searched in: %s), found candidates [%s]",
		e.Pattern, describeGroups(e.Groups), describeContext(e.Context), e.SearchedIn, strings.Join(e.Candidates, ", "))
}

func (e *MultipleFilesFoundError) Unwrap() error {
	return ErrMultipleFilesFound
}
