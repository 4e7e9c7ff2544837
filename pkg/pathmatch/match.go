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
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

const globMeta = `*?[]{}\`

// EscapePattern escapes glob metacharacters so s only matches itself.
func EscapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ✂️ StripFragment splits "name#fragment" into its pattern and fragment parts
func StripFragment(pattern string) (string, string) {
	if i := strings.IndexByte(pattern, '#'); i >= 0 {
		return pattern[:i], pattern[i+1:]
	}
	return pattern, ""
}

// HasExtension reports whether the last element of pattern carries an extension.
func HasExtension(pattern string) bool {
	return path.Ext(path.Base(pattern)) != ""
}

// CleanDir normalizes a root-relative directory; the root itself is "".
func CleanDir(dir string) string {
	dir = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(dir)), "/")
	if dir == "." {
		return ""
	}
	return dir
}

// 🧭 Resolve joins pattern onto dir and cleans the result
//
// A leading slash makes pattern relative to the tree root instead of dir. The
// second return value is false when the pattern climbs above the root.
func Resolve(pattern, dir string) (string, bool) {
	pattern = filepath.ToSlash(pattern)
	full := pattern
	if strings.HasPrefix(pattern, "/") {
		full = strings.TrimLeft(pattern, "/")
	} else if dir = CleanDir(dir); dir != "" {
		full = EscapePattern(dir) + "/" + pattern
	}
	full = path.Clean(full)
	if full == ".." || strings.HasPrefix(full, "../") {
		return "", false
	}
	return full, true
}

// 🎯 MatchFiles returns the entries of files matched by pattern resolved in dir
//
// files must be root-relative and slash-separated; the output keeps their order.
func MatchFiles(files []string, pattern, dir string) ([]string, error) {
	full, ok := Resolve(pattern, dir)
	if !ok {
		return nil, nil
	}
	if !doublestar.ValidatePattern(full) {
		return nil, errors.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var out []string
	for _, f := range files {
		matched, err := doublestar.Match(full, f)
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

// Match lists the files of b and matches pattern against them.
func Match(ctx context.Context, b Backend, pattern, dir string) ([]string, error) {
	files, err := b.Files(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files in %s: %w", b.Location(), err)
	}
	return MatchFiles(files, pattern, dir)
}

// 🔗 Relativize returns the shortest path from the context directory to target
//
// Both arguments are relative to the same root. An empty context leaves target
// relative to the root.
func Relativize(target, dir string) string {
	target = strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(target)), "/")
	dir = CleanDir(dir)
	if dir == "" {
		return target
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
