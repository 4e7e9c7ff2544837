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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var fixture = []string{
	"cover.png",
	"file1.xhtml",
	"text/ch01.bade",
	"text/ch02.bade",
	"text/notes.txt",
	"styles/main.styl",
	"images/cover.jpg",
	".git/HEAD",
	".git/objects/ab/cdef",
	"abc/def/ghi/deep.xhtml",
}

func writeFixture(t *testing.T, paths []string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}
	return root
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestBackendEquivalence(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t, fixture)

	osb, err := NewOSBackend(root, ".git")
	require.NoError(t, err)

	tree, err := TreeFromPaths(fixture...)
	require.NoError(t, err)
	tree.Ignored = IgnoreList{".git"}

	osFiles, err := osb.Files(ctx)
	require.NoError(t, err)
	treeFiles, err := tree.Files(ctx)
	require.NoError(t, err)

	assert.Equal(t, osFiles, treeFiles)
	assert.NotContains(t, osFiles, ".git/HEAD")
	assert.Contains(t, osFiles, "text/ch01.bade")

	patterns := []struct {
		pattern string
		dir     string
	}{
		{"*.png", ""},
		{"**/cover*", ""},
		{"ch0*.bade", "text"},
		{"../cover.png", "text"},
		{"*.{bade,txt}", "text"},
		{"**/*.xhtml", ""},
		{"../../outside", "text"},
	}
	for _, p := range patterns {
		t.Run(p.pattern, func(t *testing.T) {
			fromOS, err := Match(ctx, osb, p.pattern, p.dir)
			require.NoError(t, err)
			fromTree, err := Match(ctx, tree, p.pattern, p.dir)
			require.NoError(t, err)
			assert.Equal(t, fromOS, fromTree)
		})
	}
}

func TestOSBackendMissingRoot(t *testing.T) {
	b, err := NewOSBackend(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	_, err = b.Files(testContext(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestIgnoreList(t *testing.T) {
	list := IgnoreList{".git", "**/.DS_Store", "build/*"}

	assert.True(t, list.Matches(".git/objects/ab"))
	assert.True(t, list.Matches("text/.DS_Store"))
	assert.True(t, list.Matches("build/out.xhtml"))
	assert.False(t, list.Matches("text/ch01.bade"))
	assert.False(t, list.Matches("gitlab/readme"))

	assert.Error(t, IgnoreList{"[unclosed"}.Validate())
	_, err := NewOSBackend(".", "[unclosed")
	assert.Error(t, err)
}

func TestMatchFiles(t *testing.T) {
	files := []string{"a.xhtml", "text/b.xhtml", "text/c.bade", "we*ird/d.xhtml"}

	tests := []struct {
		name    string
		pattern string
		dir     string
		want    []string
		wantErr bool
	}{
		{name: "root_wildcard", pattern: "*.xhtml", want: []string{"a.xhtml"}},
		{name: "in_dir", pattern: "*.xhtml", dir: "text", want: []string{"text/b.xhtml"}},
		{name: "alternation", pattern: "{b,c}.*", dir: "text", want: []string{"text/b.xhtml", "text/c.bade"}},
		{name: "recursive", pattern: "**/*.xhtml", want: []string{"a.xhtml", "text/b.xhtml", "we*ird/d.xhtml"}},
		{name: "parent", pattern: "../a.xhtml", dir: "text", want: []string{"a.xhtml"}},
		{name: "root_anchored", pattern: "/a.xhtml", dir: "text", want: []string{"a.xhtml"}},
		{name: "escaped_dir", pattern: "*.xhtml", dir: "we*ird", want: []string{"we*ird/d.xhtml"}},
		{name: "above_root", pattern: "../../a.xhtml", dir: "text", want: nil},
		{name: "bad_pattern", pattern: "[oops", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchFiles(files, tt.pattern, tt.dir)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelativize(t *testing.T) {
	tests := []struct {
		target string
		dir    string
		want   string
	}{
		{"file1.xhtml", "abc/def/ghi", "../../../file1.xhtml"},
		{"abc/def/x.png", "abc/def", "x.png"},
		{"abc/x.png", "abc/def", "../x.png"},
		{"images/a.png", "text", "../images/a.png"},
		{"a.png", "", "a.png"},
		{"a.png", ".", "a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.target+"_from_"+tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, Relativize(tt.target, tt.dir))
		})
	}
}

func TestStripFragment(t *testing.T) {
	p, frag := StripFragment("chapter1#section-2")
	assert.Equal(t, "chapter1", p)
	assert.Equal(t, "section-2", frag)

	p, frag = StripFragment("chapter1")
	assert.Equal(t, "chapter1", p)
	assert.Empty(t, frag)
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("cover.png"))
	assert.True(t, HasExtension("*.{png,jpg}"))
	assert.False(t, HasExtension("cover"))
	assert.False(t, HasExtension("cover*"))
	assert.False(t, HasExtension("dir.d/cover"))
}

func TestTree(t *testing.T) {
	tree := NewTree()
	_, err := tree.AddFile("a/b/c.txt")
	require.NoError(t, err)

	entry := tree.Lookup("a/b")
	require.NotNil(t, entry)
	assert.True(t, entry.IsDir())

	leaf := tree.Lookup("a/b/c.txt")
	require.NotNil(t, leaf)
	assert.False(t, leaf.IsDir())

	assert.Nil(t, tree.Lookup("a/missing"))

	_, err = tree.MkdirAll("a/b/c.txt/d")
	assert.Error(t, err, "cannot create a directory below a file")

	_, err = tree.AddFile("a/b")
	assert.Error(t, err, "cannot replace a directory with a file")

	_, err = tree.AddFile("../escape")
	assert.Error(t, err)

	again, err := tree.AddFile("a/b/c.txt")
	require.NoError(t, err)
	assert.Same(t, leaf, again)
}

func TestSnapshot(t *testing.T) {
	ctx := testContext(t)
	root := writeFixture(t, fixture)
	osb, err := NewOSBackend(root, ".git")
	require.NoError(t, err)

	tree, err := Snapshot(ctx, osb)
	require.NoError(t, err)
	assert.Equal(t, root, tree.Location())

	want, err := osb.Files(ctx)
	require.NoError(t, err)
	got, err := tree.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
