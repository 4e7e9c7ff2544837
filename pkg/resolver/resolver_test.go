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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/filetype"
	"github.com/walteh/bookpack/pkg/finder"
	"github.com/walteh/bookpack/pkg/group"
	"github.com/walteh/bookpack/pkg/pathmatch"
	"github.com/walteh/bookpack/pkg/request"
	"gitlab.com/tozd/go/errors"
)

var sourceFiles = []string{
	"cover.png",
	"images/logo.svg",
	"images/map.png",
	"text/ch01.bade",
	"text/ch02.bade",
	"text/ch03.xhtml",
	"styles/main.styl",
	"fonts/serif.otf",
	".git/HEAD",
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	src := t.TempDir()
	writeTree(t, src, sourceFiles...)

	r, err := New(Options{
		SourceRoot:      src,
		DestinationRoot: filepath.Join(t.TempDir(), "build"),
		Ignored:         []string{".git"},
	})
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	_, err := New(Options{DestinationRoot: "/dest"})
	assert.Error(t, err, "source root is required")

	_, err = New(Options{SourceRoot: "/src"})
	assert.Error(t, err, "destination root is required")

	_, err = New(Options{SourceRoot: "/src", DestinationRoot: "/dest", Ignored: []string{"[bad"}})
	assert.Error(t, err)
}

func TestAddFileFromRequestIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	req := request.New("text/*", group.Text, false)
	first, err := r.AddFileFromRequest(ctx, req, artifact.Spine)
	require.NoError(t, err)
	require.Len(t, first, 3)
	size := r.Manifest().Len()

	again, err := r.AddFileFromRequest(ctx, request.New("text/*", group.Text, false), artifact.Spine)
	require.NoError(t, err)
	assert.Equal(t, size, r.Manifest().Len())
	for i := range first {
		assert.Same(t, first[i], again[i])
	}

	dests := []string{}
	for _, a := range r.SpineFiles() {
		dests = append(dests, a.PkgDestinationPath())
	}
	assert.Equal(t, []string{"OEBPS/text/ch01.xhtml", "OEBPS/text/ch02.xhtml", "OEBPS/text/ch03.xhtml"}, dests)
	assert.Equal(t, filetype.Template, first[0].Kind)
	assert.Equal(t, filetype.XHTML, first[2].Kind)
}

func TestFileFromRequestReturnsSameArtifacts(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	cover := request.New("cover", group.Image, true, "cover-image")
	added, err := r.AddFileFromRequest(ctx, cover, artifact.Manifest)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "cover.png", added[0].SourcePath)
	assert.True(t, added[0].Properties.Has("cover-image"))

	found, err := r.FileFromRequest(ctx, request.New("cover", group.Image, true))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Same(t, added[0], found[0])

	images, err := r.AddFileFromRequest(ctx, request.New("images/*", group.Image, false), artifact.Manifest)
	require.NoError(t, err)
	again, err := r.FileFromRequest(ctx, request.New("images/*", group.Image, false))
	require.NoError(t, err)
	require.Len(t, again, len(images))
	for i := range images {
		assert.Same(t, images[i], again[i])
	}
}

func TestFileFromRequestUsesManifestOnly(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	_, err := r.AddFileFromRequest(ctx, request.New("images/map", group.Image, true), artifact.Manifest)
	require.NoError(t, err)

	// never requested; images/logo.svg exists on disk but is not in the manifest
	found, err := r.FileFromRequest(ctx, request.New("images/*", group.Image, false))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Same(t, r.FileWithSourcePath("images/map.png"), found[0])

	none, err := r.FileFromRequest(ctx, request.New("serif", group.Font, true))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFileFromRequestIgnoresOnlyOne(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	images, err := r.AddFileFromRequest(ctx, request.New("images/*", group.Image, false), artifact.Manifest)
	require.NoError(t, err)
	require.Len(t, images, 2)

	found, err := r.FileFromRequest(ctx, request.New("images/*", group.Image, true))
	require.NoError(t, err, "a lookup must not fail on the number of stored artifacts")
	require.Len(t, found, 2)
	for i := range images {
		assert.Same(t, images[i], found[i])
	}

	// never added under any flag; resolved from the manifest without erroring
	all, err := r.FileFromRequest(ctx, request.New("images/m*", group.Image, true))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Same(t, r.FileWithSourcePath("images/map.png"), all[0])

	multi, err := r.FileFromRequest(ctx, request.New("images/{logo,map}*", "", true))
	require.NoError(t, err)
	assert.Len(t, multi, 2)
}

func TestAddFileFromRequestErrors(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	_, err := r.AddFileFromRequest(ctx, request.New("missing", group.Text, true), artifact.Spine)
	require.Error(t, err)
	var nf *finder.FileNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Pattern)

	_, err = r.AddFileFromRequest(ctx, request.New("images/*", group.Image, true), artifact.Manifest)
	require.Error(t, err)
	var mf *finder.MultipleFilesFoundError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, []string{"images/logo.svg", "images/map.png"}, mf.Candidates)

	_, err = r.AddFileFromRequest(ctx, request.New("cover", "pictures", true), artifact.Manifest)
	assert.True(t, errors.Is(err, group.ErrUnknownGroup))

	assert.Zero(t, r.Manifest().Len(), "failed requests add nothing")

	none, err := r.AddFileFromRequest(ctx, request.New("audio/*", "", false), artifact.Manifest)
	require.NoError(t, err, "an empty multi-file request is not an error")
	assert.Empty(t, none)
}

func TestOverlappingPatternsShareArtifacts(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	all, err := r.AddFileFromRequest(ctx, request.New("text/*.bade", "", false), artifact.Spine)
	require.NoError(t, err)
	one, err := r.AddFileFromRequest(ctx, request.New("text/ch01*", group.Text, false, "scripted"), artifact.Spine)
	require.NoError(t, err)

	require.Len(t, one, 1)
	assert.Same(t, all[0], one[0])
	assert.True(t, all[0].Properties.Has("scripted"), "properties merge into the existing artifact")
	assert.Equal(t, 2, r.Manifest().Len())
}

func TestAddFile(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	nav, err := r.AddFile(ctx, artifact.Generated("nav.xhtml", artifact.Manifest, "nav"))
	require.NoError(t, err)
	dup, err := r.AddFile(ctx, artifact.Generated("nav.xhtml", artifact.Spine))
	require.NoError(t, err)
	assert.Same(t, nav, dup)
	assert.Equal(t, artifact.Manifest, dup.PathType, "path type is fixed on first insertion")
	assert.Empty(t, r.SpineFiles())

	style, err := r.AddFile(ctx, &artifact.Artifact{SourcePath: "styles/main.styl"})
	require.NoError(t, err)
	assert.Equal(t, "styles/main.css", style.DestinationPath)
	assert.Same(t, style, r.FileWithDestinationPath("styles/main.css"))
	assert.Same(t, style, r.FileWithSourcePath("styles/main.styl"))

	_, err = r.AddFile(ctx, &artifact.Artifact{})
	assert.Error(t, err)
	_, err = r.AddFile(ctx, nil)
	assert.Error(t, err)

	assert.Equal(t, filepath.ToSlash(r.DestinationRoot())+"/OEBPS/nav.xhtml", r.FinalPath(nav))
}

func TestAddFileRejectsDestinationConflicts(t *testing.T) {
	ctx := testContext(t)
	r := newResolver(t)

	opf, err := r.AddFile(ctx, artifact.FromSource("content.opf", artifact.Manifest))
	require.NoError(t, err)

	_, err = r.AddFile(ctx, artifact.Generated("OEBPS/content.opf", artifact.Package))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDestinationConflict))
	var conflict *DestinationConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "OEBPS/content.opf", conflict.Path)
	assert.Same(t, opf, conflict.Existing)
	assert.Equal(t, 1, r.Manifest().Len())

	// equal artifacts are still merged, not rejected
	again, err := r.AddFile(ctx, artifact.FromSource("content.opf", artifact.Spine))
	require.NoError(t, err)
	assert.Same(t, opf, again)

	_, err = r.AddFile(ctx, artifact.Generated("OEBPS/text/ch03.xhtml", artifact.Package))
	require.NoError(t, err)
	_, err = r.AddFileFromRequest(ctx, request.New("text/*", group.Text, false), artifact.Spine)
	require.True(t, errors.Is(err, ErrDestinationConflict))
	assert.Equal(t, 2, r.Manifest().Len(), "a conflicting request adds nothing")
	assert.Nil(t, r.FileWithSourcePath("text/ch01.bade"))

	finals := map[string]bool{}
	for _, a := range r.Files() {
		assert.False(t, finals[r.FinalPath(a)], "final path %s is written twice", r.FinalPath(a))
		finals[r.FinalPath(a)] = true
	}
}

func TestUnneededFilesInDestination(t *testing.T) {
	ctx := testContext(t)

	owned := []*artifact.Artifact{
		artifact.Generated("valid/1.xhtml", artifact.Package),
		artifact.Generated("valid/2.xhtml", artifact.Package),
	}

	t.Run("filesystem", func(t *testing.T) {
		dest := t.TempDir()
		writeTree(t, dest, "valid/1.xhtml", "valid/2.xhtml", "not_valid/1.xhtml")

		r, err := New(Options{SourceRoot: t.TempDir(), DestinationRoot: dest})
		require.NoError(t, err)
		for _, a := range owned {
			_, err := r.AddFile(ctx, a)
			require.NoError(t, err)
		}

		unneeded, err := r.UnneededFilesInDestination(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"not_valid/1.xhtml"}, unneeded)
	})

	t.Run("memory", func(t *testing.T) {
		destTree, err := pathmatch.TreeFromPaths("valid/1.xhtml", "valid/2.xhtml", "not_valid/1.xhtml", "OEBPS/old.xhtml", "OEBPS/text/ch01.xhtml")
		require.NoError(t, err)

		r, err := New(Options{
			SourceRoot:        t.TempDir(),
			DestinationRoot:   "/dest",
			DestinationFinder: finder.NewImaginary(destTree),
		})
		require.NoError(t, err)
		for _, a := range owned {
			_, err := r.AddFile(ctx, a)
			require.NoError(t, err)
		}
		_, err = r.AddFile(ctx, artifact.FromSource("text/ch01.bade", artifact.Spine))
		require.NoError(t, err)

		unneeded, err := r.UnneededFilesInDestination(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"OEBPS/old.xhtml", "not_valid/1.xhtml"}, unneeded)
	})

	t.Run("missing_destination", func(t *testing.T) {
		r, err := New(Options{SourceRoot: t.TempDir(), DestinationRoot: filepath.Join(t.TempDir(), "nope")})
		require.NoError(t, err)

		unneeded, err := r.UnneededFilesInDestination(ctx)
		require.NoError(t, err)
		assert.Empty(t, unneeded)
	})
}

func TestImaginaryResolutionMatchesFilesystem(t *testing.T) {
	ctx := testContext(t)
	onDisk := newResolver(t)

	tree, err := pathmatch.TreeFromPaths(sourceFiles...)
	require.NoError(t, err)
	tree.Ignored = pathmatch.IgnoreList{".git"}

	dry, err := New(Options{
		DestinationRoot: "/dest",
		SourceFinder:    finder.NewImaginary(tree),
	})
	require.NoError(t, err)

	requests := []struct {
		req      *request.FileRequest
		pathType artifact.PathType
	}{
		{request.New("cover", group.Image, true, "cover-image"), artifact.Manifest},
		{request.New("text/*", group.Text, false), artifact.Spine},
		{request.New("main", group.Style, true), artifact.Manifest},
		{request.New("**/*", group.Font, false), artifact.Manifest},
		{request.New("HEAD", "", false), artifact.Manifest},
	}

	for _, rq := range requests {
		_, err := onDisk.AddFileFromRequest(ctx, rq.req, rq.pathType)
		require.NoError(t, err)
		_, err = dry.AddFileFromRequest(ctx, rq.req, rq.pathType)
		require.NoError(t, err)
	}

	paths := func(r *Resolver) []string {
		var out []string
		for _, a := range r.Files() {
			out = append(out, a.SourcePath+" -> "+a.PkgDestinationPath())
		}
		return out
	}
	assert.Equal(t, paths(onDisk), paths(dry))
	assert.Equal(t, []string{
		"cover.png -> OEBPS/cover.png",
		"text/ch01.bade -> OEBPS/text/ch01.xhtml",
		"text/ch02.bade -> OEBPS/text/ch02.xhtml",
		"text/ch03.xhtml -> OEBPS/text/ch03.xhtml",
		"styles/main.styl -> OEBPS/styles/main.css",
		"fonts/serif.otf -> OEBPS/fonts/serif.otf",
	}, paths(dry))
}
