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

// Package request defines FileRequest, the symbolic description of the files
// a book wants included in its package.
package request

import (
	"fmt"
	"sort"
	"strings"

	"github.com/walteh/bookpack/pkg/group"
)

// 🏷️ Properties is an additive set of manifest properties such as "cover-image"
type Properties map[string]struct{}

// NewProperties creates a set holding names.
func NewProperties(names ...string) Properties {
	p := make(Properties, len(names))
	p.Add(names...)
	return p
}

// Add inserts names into the set, ignoring empty strings.
func (p Properties) Add(names ...string) {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			p[n] = struct{}{}
		}
	}
}

func (p Properties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Merge adds every property of other.
func (p Properties) Merge(other Properties) {
	for n := range other {
		p[n] = struct{}{}
	}
}

// Sorted returns the properties in lexical order.
func (p Properties) Sorted() []string {
	out := make([]string, 0, len(p))
	for n := range p {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// 📨 FileRequest asks for the files matching Pattern, optionally within Group
//
// Pattern, Group and OnlyOne never change after New; only Properties grow.
type FileRequest struct {
	pattern string
	group   group.Group
	onlyOne bool

	Properties Properties
}

// 🏭 New creates a request; an empty group means any group
func New(pattern string, g group.Group, onlyOne bool, properties ...string) *FileRequest {
	return &FileRequest{
		pattern:    pattern,
		group:      g,
		onlyOne:    onlyOne,
		Properties: NewProperties(properties...),
	}
}

func (r *FileRequest) Pattern() string    { return r.pattern }
func (r *FileRequest) Group() group.Group { return r.group }
func (r *FileRequest) OnlyOne() bool      { return r.onlyOne }

// Groups returns the group filter as a list, empty when unrestricted.
func (r *FileRequest) Groups() []group.Group {
	if r.group == "" {
		return nil
	}
	return []group.Group{r.group}
}

// AddProperty records additional properties on the request.
func (r *FileRequest) AddProperty(names ...string) {
	if r.Properties == nil {
		r.Properties = Properties{}
	}
	r.Properties.Add(names...)
}

// 🔑 Key identifies requests for lookup: equal pattern and group
type Key struct {
	Pattern string
	Group   group.Group
}

func (r *FileRequest) Key() Key {
	return Key{Pattern: r.pattern, Group: r.group}
}

// Equal reports whether both requests have the same pattern, group and OnlyOne.
// Properties do not take part.
func (r *FileRequest) Equal(other *FileRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Key() == other.Key() && r.onlyOne == other.onlyOne
}

func (r *FileRequest) String() string {
	g := "any"
	if r.group != "" {
		g = ":" + string(r.group)
	}
	return fmt.Sprintf("%q (group %s, only one: %t)", r.pattern, g, r.onlyOne)
}
