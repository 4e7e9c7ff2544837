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

// Package pathmatch matches glob patterns against a snapshot of a directory
// tree and computes relative paths between entries of that tree.
//
// A Backend lists the files of a tree. Two backends are provided: OSBackend
// walks a real directory and Tree is an in-memory directory-entry tree used for
// dry-run resolution. Both report slash-separated paths relative to their root,
// sorted, with ignored paths removed, so every matching function in this
// package behaves the same regardless of the backend.
package pathmatch

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌳 Backend lists every file of a directory tree
type Backend interface {
	// Files returns root-relative, slash-separated file paths in sorted order
	Files(ctx context.Context) ([]string, error)
	// Location describes where the tree lives, for error messages
	Location() string
}

// 🙈 IgnoreList holds glob patterns evaluated relative to a tree root
type IgnoreList []string

// Validate checks that every pattern is a valid glob.
func (l IgnoreList) Validate() error {
	for _, p := range l {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid ignore pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// Matches reports whether rel, or any directory containing it, is ignored.
func (l IgnoreList) Matches(rel string) bool {
	if len(l) == 0 {
		return false
	}
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		for _, pattern := range l {
			if ok, err := doublestar.Match(pattern, p); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// 💾 OSBackend walks a directory on disk
type OSBackend struct {
	Root    string
	Ignored IgnoreList
}

// 🏭 NewOSBackend creates a backend rooted at root
func NewOSBackend(root string, ignored ...string) (*OSBackend, error) {
	list := IgnoreList(ignored)
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return &OSBackend{Root: filepath.Clean(root), Ignored: list}, nil
}

func (b *OSBackend) Location() string {
	return b.Root
}

// 📋 Files walks Root and returns every non-directory entry that is not ignored
//
// A missing root yields an error wrapping fs.ErrNotExist.
func (b *OSBackend) Files(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(b.Root); err != nil {
		return nil, errors.Errorf("reading tree root %s: %w", b.Root, err)
	}

	var out []string
	err := filepath.WalkDir(b.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if b.Ignored.Matches(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", b.Root, err)
	}

	sort.Strings(out)
	zerolog.Ctx(ctx).Trace().Str("root", b.Root).Int("files", len(out)).Msg("listed directory tree")
	return out, nil
}
