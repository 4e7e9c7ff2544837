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

// Package manifest holds the ordered, duplicate-free collection of artifacts
// of one build together with its spine.
package manifest

import (
	"github.com/walteh/bookpack/pkg/artifact"
)

// 📚 Manifest keeps artifacts in insertion order without duplicates
//
// Two artifacts are duplicates when artifact.Equal says so. The spine is the
// ordered sub-sequence of artifacts whose PathType is artifact.Spine.
type Manifest struct {
	items []*artifact.Artifact
	spine []*artifact.Artifact
}

// 🏭 New creates an empty manifest
func New() *Manifest {
	return &Manifest{}
}

// ➕ Add inserts a, unless an equal artifact is already present
//
// It returns the artifact held by the manifest and whether a was inserted.
// When an equal artifact exists, a's properties are merged into it and a
// itself is discarded.
func (m *Manifest) Add(a *artifact.Artifact) (*artifact.Artifact, bool) {
	if existing := m.Find(a); existing != nil {
		existing.MergeWith(a)
		return existing, false
	}
	m.items = append(m.items, a)
	if a.PathType == artifact.Spine {
		m.spine = append(m.spine, a)
	}
	return a, true
}

// Find returns the first artifact equal to a, or nil.
func (m *Manifest) Find(a *artifact.Artifact) *artifact.Artifact {
	for _, item := range m.items {
		if item.Equal(a) {
			return item
		}
	}
	return nil
}

// FindAll returns every artifact equal to a, in manifest order.
func (m *Manifest) FindAll(a *artifact.Artifact) []*artifact.Artifact {
	var out []*artifact.Artifact
	for _, item := range m.items {
		if item.Equal(a) {
			out = append(out, item)
		}
	}
	return out
}

// WithSourcePath returns the artifact built from the source file p, or nil.
func (m *Manifest) WithSourcePath(p string) *artifact.Artifact {
	for _, item := range m.items {
		if item.SourcePath != "" && item.SourcePath == p {
			return item
		}
	}
	return nil
}

// WithDestinationPath returns the artifact written to p, or nil. p may be
// given with or without the path type prefix.
func (m *Manifest) WithDestinationPath(p string) *artifact.Artifact {
	for _, item := range m.items {
		if item.DestinationPath == p || item.PkgDestinationPath() == p {
			return item
		}
	}
	return nil
}

func (m *Manifest) Len() int {
	return len(m.items)
}

// All returns the artifacts in insertion order.
func (m *Manifest) All() []*artifact.Artifact {
	return append([]*artifact.Artifact(nil), m.items...)
}

// Spine returns the spine artifacts in insertion order.
func (m *Manifest) Spine() []*artifact.Artifact {
	return append([]*artifact.Artifact(nil), m.spine...)
}

// SourcePaths lists the source paths of every artifact that has one.
func (m *Manifest) SourcePaths() []string {
	out := make([]string, 0, len(m.items))
	for _, item := range m.items {
		if item.SourcePath != "" {
			out = append(out, item.SourcePath)
		}
	}
	return out
}

func (m *Manifest) spineIndex(a *artifact.Artifact) int {
	for i, item := range m.spine {
		if item == a {
			return i
		}
	}
	return -1
}

// ⬅️ Previous returns the spine item before a, or nil
func (m *Manifest) Previous(a *artifact.Artifact) *artifact.Artifact {
	if i := m.spineIndex(a); i > 0 {
		return m.spine[i-1]
	}
	return nil
}

// ➡️ Next returns the spine item after a, or nil
func (m *Manifest) Next(a *artifact.Artifact) *artifact.Artifact {
	if i := m.spineIndex(a); i >= 0 && i+1 < len(m.spine) {
		return m.spine[i+1]
	}
	return nil
}
