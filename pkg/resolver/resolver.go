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

// Package resolver turns file requests into a manifest of build artifacts.
//
// A Resolver owns the manifest of one build run. It resolves each request
// against the source tree, classifies the matched files, computes their
// destination paths and inserts them into the manifest, skipping artifacts
// that are already present. Resolution only reads the source and destination
// trees; nothing is written.
package resolver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/filetype"
	"github.com/walteh/bookpack/pkg/finder"
	"github.com/walteh/bookpack/pkg/manifest"
	"github.com/walteh/bookpack/pkg/pathmatch"
	"github.com/walteh/bookpack/pkg/request"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a Resolver
type Options struct {
	// SourceRoot is the directory requests are resolved in
	SourceRoot string
	// DestinationRoot is the directory the package is built into
	DestinationRoot string
	// Ignored lists glob patterns, relative to SourceRoot, excluded from every search
	Ignored []string
	// SourceFinder replaces the filesystem finder over SourceRoot, e.g. with
	// an in-memory finder for dry runs
	SourceFinder finder.Finder
	// DestinationFinder replaces the filesystem finder over DestinationRoot
	DestinationFinder finder.Finder
}

type requestKey struct {
	request.Key
	onlyOne bool
}

// 🧭 Resolver maintains the manifest of one build
type Resolver struct {
	sourceRoot        string
	destinationRoot   string
	sourceFinder      finder.Finder
	destinationFinder finder.Finder
	manifest          *manifest.Manifest
	requests          map[requestKey][]*artifact.Artifact
	byKey             map[request.Key][]*artifact.Artifact
}

// 🏭 New creates a resolver from opts
func New(opts Options) (*Resolver, error) {
	if opts.SourceRoot == "" && opts.SourceFinder == nil {
		return nil, errors.Errorf("source root is required")
	}
	if opts.DestinationRoot == "" {
		return nil, errors.Errorf("destination root is required")
	}

	r := &Resolver{
		sourceRoot:        filepath.Clean(opts.SourceRoot),
		destinationRoot:   filepath.Clean(opts.DestinationRoot),
		sourceFinder:      opts.SourceFinder,
		destinationFinder: opts.DestinationFinder,
		manifest:          manifest.New(),
		requests:          make(map[requestKey][]*artifact.Artifact),
		byKey:             make(map[request.Key][]*artifact.Artifact),
	}

	if r.sourceFinder == nil {
		f, err := finder.NewFilesystem(r.sourceRoot, opts.Ignored...)
		if err != nil {
			return nil, errors.Errorf("creating source finder: %w", err)
		}
		r.sourceFinder = f
	}
	if r.destinationFinder == nil {
		f, err := finder.NewFilesystem(r.destinationRoot)
		if err != nil {
			return nil, errors.Errorf("creating destination finder: %w", err)
		}
		r.destinationFinder = f
	}

	return r, nil
}

func (r *Resolver) SourceRoot() string { return r.sourceRoot }

func (r *Resolver) DestinationRoot() string { return r.destinationRoot }

func (r *Resolver) SourceFinder() finder.Finder { return r.sourceFinder }

func (r *Resolver) Manifest() *manifest.Manifest { return r.manifest }

// SpineFiles returns the spine artifacts in reading order.
func (r *Resolver) SpineFiles() []*artifact.Artifact { return r.manifest.Spine() }

// Files returns every artifact in manifest order.
func (r *Resolver) Files() []*artifact.Artifact { return r.manifest.All() }

// FinalPath returns where a is written below the destination root.
func (r *Resolver) FinalPath(a *artifact.Artifact) string {
	return a.FinalDestinationPath(filepath.ToSlash(r.destinationRoot))
}

// 📥 AddFileFromRequest resolves req and adds one artifact per matched source file
//
// A request with OnlyOne set yields exactly one artifact or fails with the
// finder's error; otherwise every match is added and no match is not an
// error. Artifacts already in the manifest are returned instead of new ones,
// so repeating a request never grows the manifest.
func (r *Resolver) AddFileFromRequest(ctx context.Context, req *request.FileRequest, pathType artifact.PathType) ([]*artifact.Artifact, error) {
	logger := zerolog.Ctx(ctx)

	paths, err := r.resolve(ctx, r.sourceFinder, req)
	if err != nil {
		return nil, err
	}

	candidates := make([]*artifact.Artifact, len(paths))
	for i, p := range paths {
		a := artifact.FromSource(p, pathType)
		a.SourcePattern = req.Pattern()
		a.Group = req.Group()
		a.Properties.Merge(req.Properties)
		if err := r.conflict(a); err != nil {
			return nil, err
		}
		candidates[i] = a
	}

	out := make([]*artifact.Artifact, 0, len(paths))
	seen := make(map[*artifact.Artifact]bool, len(paths))
	for i, a := range candidates {
		p := paths[i]
		stored, err := r.AddFile(ctx, a)
		if err != nil {
			return nil, errors.Errorf("adding %s: %w", p, err)
		}
		if !seen[stored] {
			seen[stored] = true
			out = append(out, stored)
		}
	}

	r.requests[keyFor(req)] = out
	if _, ok := r.byKey[req.Key()]; !ok {
		r.byKey[req.Key()] = out
	}

	logger.Debug().
		Str("request", req.String()).
		Int("artifacts", len(out)).
		Int("manifest_size", r.manifest.Len()).
		Msg("added files from request")

	return out, nil
}

// ➕ AddFile inserts a into the manifest unless an equal artifact is present
//
// The artifact held by the manifest is returned. Generated content is added
// this way directly. A source-backed artifact without a destination gets the
// renamed source path as destination.
func (r *Resolver) AddFile(ctx context.Context, a *artifact.Artifact) (*artifact.Artifact, error) {
	if a == nil {
		return nil, errors.Errorf("artifact is nil")
	}
	if a.DestinationPath == "" && a.SourcePath == "" {
		return nil, errors.Errorf("artifact %q has neither a source nor a destination path", a.SourcePattern)
	}
	if a.DestinationPath == "" {
		a.DestinationPath = filetype.RenameExtension(a.SourcePath)
	}
	if a.Properties == nil {
		a.Properties = request.Properties{}
	}

	if err := r.conflict(a); err != nil {
		return nil, err
	}

	stored, added := r.manifest.Add(a)
	if !added && stored.PathType != a.PathType {
		zerolog.Ctx(ctx).Warn().
			Str("destination", stored.PkgDestinationPath()).
			Stringer("path_type", stored.PathType).
			Stringer("requested_path_type", a.PathType).
			Msg("file already in manifest with another path type, keeping the first")
	}
	return stored, nil
}

// conflict reports a *DestinationConflictError when a is new to the manifest
// but another artifact already writes its package path.
func (r *Resolver) conflict(a *artifact.Artifact) error {
	if a.DestinationPath == "" {
		a.DestinationPath = filetype.RenameExtension(a.SourcePath)
	}
	if r.manifest.Find(a) != nil {
		return nil
	}
	for _, item := range r.manifest.All() {
		if item.PkgDestinationPath() == a.PkgDestinationPath() {
			return &DestinationConflictError{Path: a.PkgDestinationPath(), Existing: item, Rejected: a}
		}
	}
	return nil
}

// FileWithSourcePath returns the artifact built from the source file p, or nil.
func (r *Resolver) FileWithSourcePath(p string) *artifact.Artifact {
	return r.manifest.WithSourcePath(filepath.ToSlash(p))
}

// FileWithDestinationPath returns the artifact written to p, or nil.
func (r *Resolver) FileWithDestinationPath(p string) *artifact.Artifact {
	return r.manifest.WithDestinationPath(filepath.ToSlash(p))
}

// 🔁 FileFromRequest returns the artifacts a request resolved to, from the manifest
//
// A request added before returns the very same artifacts, whatever its OnlyOne
// flag was. Other requests are resolved against the source paths held by the
// manifest, never against the filesystem. Lookups never fail on the number of
// matches; nothing found yields nil without error.
func (r *Resolver) FileFromRequest(ctx context.Context, req *request.FileRequest) ([]*artifact.Artifact, error) {
	if found, ok := r.requests[keyFor(req)]; ok {
		return found, nil
	}
	if found, ok := r.byKey[req.Key()]; ok {
		return found, nil
	}

	tree, err := pathmatch.TreeFromPaths(r.manifest.SourcePaths()...)
	if err != nil {
		return nil, errors.Errorf("building manifest tree: %w", err)
	}

	paths, err := finder.NewImaginary(tree).FindFiles(ctx, queryFor(req))
	if err != nil {
		return nil, err
	}

	var out []*artifact.Artifact
	for _, p := range paths {
		if a := r.manifest.WithSourcePath(p); a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, f finder.Finder, req *request.FileRequest) ([]string, error) {
	q := queryFor(req)
	if !req.OnlyOne() {
		return f.FindFiles(ctx, q)
	}
	p, err := f.FindFile(ctx, q)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

// 🧹 UnneededFilesInDestination lists files in the destination tree no artifact owns
//
// Paths are relative to the destination root and sorted. A destination that
// does not exist yet has no unneeded files.
func (r *Resolver) UnneededFilesInDestination(ctx context.Context) ([]string, error) {
	existing, err := r.destinationFinder.Backend().Files(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("listing destination files: %w", err)
	}

	owned := make(map[string]bool, r.manifest.Len())
	for _, a := range r.manifest.All() {
		owned[a.PkgDestinationPath()] = true
	}

	var unneeded []string
	for _, p := range existing {
		if !owned[p] {
			unneeded = append(unneeded, p)
		}
	}
	sort.Strings(unneeded)

	zerolog.Ctx(ctx).Debug().
		Int("existing", len(existing)).
		Int("unneeded", len(unneeded)).
		Msg("compared destination with manifest")

	return unneeded, nil
}

func queryFor(req *request.FileRequest) finder.Query {
	return finder.Query{Pattern: req.Pattern(), Groups: req.Groups()}
}

func keyFor(req *request.FileRequest) requestKey {
	return requestKey{Key: req.Key(), onlyOne: req.OnlyOne()}
}
