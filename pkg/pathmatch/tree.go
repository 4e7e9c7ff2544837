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

package pathmatch

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📁 Entry is one node of an in-memory tree: a directory or a file leaf
type Entry struct {
	Name     string
	Children map[string]*Entry // nil for files
	Size     int64
	ModTime  time.Time
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.Children != nil
}

// 🌲 Tree is an in-memory directory tree that never touches disk
type Tree struct {
	Root    *Entry
	Ignored IgnoreList
	Name    string
}

// 🏭 NewTree creates an empty tree
func NewTree() *Tree {
	return &Tree{Root: &Entry{Children: map[string]*Entry{}}}
}

// TreeFromPaths builds a tree holding one file per slash-separated path.
func TreeFromPaths(paths ...string) (*Tree, error) {
	t := NewTree()
	for _, p := range paths {
		if _, err := t.AddFile(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// 📸 Snapshot copies the file list of any backend into a new tree
func Snapshot(ctx context.Context, b Backend) (*Tree, error) {
	files, err := b.Files(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}
	t, err := TreeFromPaths(files...)
	if err != nil {
		return nil, err
	}
	t.Name = b.Location()
	return t, nil
}

func (t *Tree) Location() string {
	if t.Name != "" {
		return t.Name
	}
	return "<memory>"
}

func splitPath(p string) ([]string, error) {
	clean := strings.TrimPrefix(path.Clean(strings.TrimSpace(p)), "/")
	if clean == "." || clean == "" {
		return nil, nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, errors.Errorf("path %q escapes the tree root", p)
	}
	return strings.Split(clean, "/"), nil
}

// MkdirAll creates the directory p and any missing parents.
func (t *Tree) MkdirAll(p string) (*Entry, error) {
	parts, err := splitPath(p)
	if err != nil {
		return nil, err
	}
	cur := t.Root
	for i, name := range parts {
		next, ok := cur.Children[name]
		if !ok {
			next = &Entry{Name: name, Children: map[string]*Entry{}}
			cur.Children[name] = next
		} else if !next.IsDir() {
			return nil, errors.Errorf("%s is a file, not a directory", path.Join(parts[:i+1]...))
		}
		cur = next
	}
	return cur, nil
}

// ➕ AddFile adds a file leaf at p, creating parent directories as needed
func (t *Tree) AddFile(p string) (*Entry, error) {
	parts, err := splitPath(p)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, errors.Errorf("empty file path")
	}
	dir, err := t.MkdirAll(path.Join(parts[:len(parts)-1]...))
	if err != nil {
		return nil, err
	}
	name := parts[len(parts)-1]
	if existing, ok := dir.Children[name]; ok {
		if existing.IsDir() {
			return nil, errors.Errorf("%s is a directory, not a file", p)
		}
		return existing, nil
	}
	leaf := &Entry{Name: name, ModTime: time.Now()}
	dir.Children[name] = leaf
	return leaf, nil
}

// Lookup returns the entry at p, or nil.
func (t *Tree) Lookup(p string) *Entry {
	parts, err := splitPath(p)
	if err != nil {
		return nil
	}
	cur := t.Root
	for _, name := range parts {
		if !cur.IsDir() {
			return nil
		}
		next, ok := cur.Children[name]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// 📋 Files lists every file leaf, skipping ignored paths
func (t *Tree) Files(ctx context.Context) ([]string, error) {
	var out []string
	var walk func(e *Entry, prefix string)
	walk = func(e *Entry, prefix string) {
		names := make([]string, 0, len(e.Children))
		for name := range e.Children {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := e.Children[name]
			rel := name
			if prefix != "" {
				rel = prefix + "/" + name
			}
			if t.Ignored.Matches(rel) {
				continue
			}
			if child.IsDir() {
				walk(child, rel)
				continue
			}
			out = append(out, rel)
		}
	}
	walk(t.Root, "")
	sort.Strings(out)
	return out, nil
}
