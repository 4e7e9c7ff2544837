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

// Package finder resolves file patterns against a source tree.
//
// A Finder searches a pathmatch.Backend, so the same lookup rules apply to the
// real filesystem and to an in-memory tree. Lookups try, in order:
//
//  1. the pattern as given, relative to the context directory
//  2. the pattern with any recognized extension in any letter case, when it
//     has none of its own
//  3. both of the above below every directory of the tree, unless the query is
//     local only or the pattern already starts with "**"
//
// The first step that matches anything wins. Results are relative to the
// context directory.
package finder

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bookpack/pkg/group"
	"github.com/walteh/bookpack/pkg/pathmatch"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Query describes one lookup
type Query struct {
	// Pattern is a glob, optionally followed by "#fragment" which is ignored
	Pattern string
	// Context is the directory results are relative to, relative to the tree root
	Context string
	// Groups restricts matches to these groups; empty means any
	Groups []group.Group
	// LocalOnly disables the search below every directory of the tree
	LocalOnly bool
}

// 🔎 Finder finds files matching a Query
type Finder interface {
	// FindFiles returns every match, possibly none
	FindFiles(ctx context.Context, q Query) ([]string, error)
	// FindFile returns the only match, failing when there are zero or several
	FindFile(ctx context.Context, q Query) (string, error)
	// Backend returns the tree the finder searches
	Backend() pathmatch.Backend
}

// FileFinder implements Finder on top of a pathmatch.Backend.
type FileFinder struct {
	backend pathmatch.Backend
}

var _ Finder = (*FileFinder)(nil)

// New creates a finder searching b.
func New(b pathmatch.Backend) *FileFinder {
	return &FileFinder{backend: b}
}

// 💾 NewFilesystem creates a finder over the directory root
func NewFilesystem(root string, ignored ...string) (*FileFinder, error) {
	b, err := pathmatch.NewOSBackend(root, ignored...)
	if err != nil {
		return nil, errors.Errorf("creating filesystem backend: %w", err)
	}
	return New(b), nil
}

// 🌲 NewImaginary creates a finder over an in-memory tree
func NewImaginary(tree *pathmatch.Tree) *FileFinder {
	return New(tree)
}

func (f *FileFinder) Backend() pathmatch.Backend {
	return f.backend
}

// FindFiles implements Finder.
func (f *FileFinder) FindFiles(ctx context.Context, q Query) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	pattern, _ := pathmatch.StripFragment(q.Pattern)
	if strings.TrimSpace(pattern) == "" {
		return nil, errors.Errorf("empty pattern in query %q", q.Pattern)
	}

	exts, err := group.Extensions(q.Groups...)
	if err != nil {
		return nil, err
	}

	files, err := f.backend.Files(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files in %s: %w", f.backend.Location(), err)
	}

	dir := pathmatch.CleanDir(q.Context)
	implicit := !pathmatch.HasExtension(pattern)

	find := func(p, in string) ([]string, error) {
		found, err := matchGroups(files, p, in, q.Groups)
		if err != nil || len(found) > 0 || !implicit {
			return found, err
		}
		return matchImplicit(files, p, in, exts, q.Groups)
	}

	found, err := find(pattern, dir)
	if err != nil {
		return nil, err
	}

	if len(found) == 0 && !q.LocalOnly && searchable(pattern) {
		found, err = find("**/"+pattern, "")
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, len(found))
	for i, p := range found {
		out[i] = pathmatch.Relativize(p, dir)
	}

	logger.Debug().
		Str("pattern", q.Pattern).
		Str("context", dir).
		Strs("matches", out).
		Msg("resolved pattern")

	return out, nil
}

// FindFile implements Finder.
func (f *FileFinder) FindFile(ctx context.Context, q Query) (string, error) {
	found, err := f.FindFiles(ctx, q)
	if err != nil {
		return "", err
	}

	switch len(found) {
	case 0:
		return "", &FileNotFoundError{
			Pattern:    q.Pattern,
			Groups:     q.Groups,
			Context:    pathmatch.CleanDir(q.Context),
			SearchedIn: f.backend.Location(),
		}
	case 1:
		return found[0], nil
	default:
		return "", &MultipleFilesFoundError{
			Pattern:    q.Pattern,
			Groups:     q.Groups,
			Context:    pathmatch.CleanDir(q.Context),
			SearchedIn: f.backend.Location(),
			Candidates: found,
		}
	}
}

func matchGroups(files []string, pattern, dir string, groups []group.Group) ([]string, error) {
	found, err := pathmatch.MatchFiles(files, pattern, dir)
	if err != nil {
		return nil, err
	}
	return group.Filter(found, groups...)
}

// searchable reports whether pattern may be retried below every directory.
func searchable(pattern string) bool {
	return !strings.HasPrefix(pattern, "**") &&
		!strings.HasPrefix(pattern, "/") &&
		!strings.HasPrefix(pattern, "../")
}

// matchImplicit matches pattern against files with their extension removed,
// keeping only files whose extension is one of exts in any letter case.
func matchImplicit(files []string, pattern, dir string, exts []string, groups []group.Group) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var stems []string
	byStem := make(map[string][]string)
	for _, f := range files {
		ext := path.Ext(f)
		if !allowed[strings.ToLower(ext)] {
			continue
		}
		stem := strings.TrimSuffix(f, ext)
		if _, ok := byStem[stem]; !ok {
			stems = append(stems, stem)
		}
		byStem[stem] = append(byStem[stem], f)
	}

	matched, err := pathmatch.MatchFiles(stems, pattern, dir)
	if err != nil {
		return nil, err
	}

	var found []string
	for _, stem := range matched {
		found = append(found, byStem[stem]...)
	}
	sort.Strings(found)
	return group.Filter(found, groups...)
}
