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

package operation

import (
	"context"
	"path"

	"github.com/rs/zerolog"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/config"
	"github.com/walteh/bookpack/pkg/finder"
	"github.com/walteh/bookpack/pkg/log"
	"github.com/walteh/bookpack/pkg/pathmatch"
	"github.com/walteh/bookpack/pkg/resolver"
	"github.com/walteh/bookpack/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// OPFPath is where the package document is written when Options.WriteOPF is set.
const OPFPath = artifact.ContentDir + "/content.opf"

// 🎯 Operation is one step run against a book
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration shared by every operation
type Options struct {
	// Config is the build configuration
	Config *config.Config
	// Resolver holds the manifest; built from Config when nil
	Resolver *resolver.Resolver
	// StatusMgr manages the destination tree; rooted at Config.Destination when nil
	StatusMgr *status.Manager
	// Processors turn artifacts into destination content, first match wins;
	// CopyProcessor when empty
	Processors []Processor
	// DryRun resolves against a snapshot of the source tree and writes nothing
	DryRun bool
	// WriteOPF adds the package document to the manifest and writes it on build
	WriteOPF bool
}

// 🧱 BaseOperation carries what every operation needs
type BaseOperation struct {
	Config     *config.Config
	Resolver   *resolver.Resolver
	StatusMgr  *status.Manager
	Processors []Processor
	DryRun     bool
	WriteOPF   bool
}

// 🏭 NewBaseOperation validates opts and fills in defaults
func NewBaseOperation(ctx context.Context, opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}

	r := opts.Resolver
	if r == nil {
		var err error
		r, err = NewResolver(ctx, opts.Config, opts.DryRun)
		if err != nil {
			return BaseOperation{}, err
		}
	}

	mgr := opts.StatusMgr
	if mgr == nil {
		mgr = status.New(r.DestinationRoot())
	}

	processors := opts.Processors
	if len(processors) == 0 {
		processors = []Processor{&CopyProcessor{}}
	}
	if opts.WriteOPF {
		processors = append([]Processor{&OPFProcessor{Path: OPFPath}}, processors...)
	}

	return BaseOperation{
		Config:     opts.Config,
		Resolver:   r,
		StatusMgr:  mgr,
		Processors: processors,
		DryRun:     opts.DryRun,
		WriteOPF:   opts.WriteOPF,
	}, nil
}

// 🧭 NewResolver creates the resolver for cfg
//
// A dry run snapshots the source tree into memory first, so resolution
// and everything after it never consult the filesystem for listings.
func NewResolver(ctx context.Context, cfg *config.Config, dryRun bool) (*resolver.Resolver, error) {
	opts := resolver.Options{
		SourceRoot:      cfg.Source,
		DestinationRoot: cfg.Destination,
		Ignored:         cfg.Ignore,
	}

	if dryRun {
		backend, err := pathmatch.NewOSBackend(cfg.Source, cfg.Ignore...)
		if err != nil {
			return nil, errors.Errorf("creating source backend: %w", err)
		}
		tree, err := pathmatch.Snapshot(ctx, backend)
		if err != nil {
			return nil, errors.Errorf("snapshotting source tree: %w", err)
		}
		opts.SourceFinder = finder.NewImaginary(tree)
	}

	r, err := resolver.New(opts)
	if err != nil {
		return nil, errors.Errorf("creating resolver: %w", err)
	}
	return r, nil
}

// 📥 resolve adds every configured request to the manifest, in order
//
// The first failing request stops resolution.
func (op *BaseOperation) resolve(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	entries, err := op.Config.Requests()
	if err != nil {
		return errors.Errorf("building requests: %w", err)
	}

	for _, e := range entries {
		if _, err := op.Resolver.AddFileFromRequest(ctx, e.Request, e.PathType); err != nil {
			return errors.Errorf("resolving %s: %w", e.Request, err)
		}
	}

	if op.WriteOPF {
		if _, err := op.Resolver.AddFile(ctx, artifact.Generated(OPFPath, artifact.Package)); err != nil {
			return errors.Errorf("adding package document: %w", err)
		}
	}

	logger.Debug().
		Int("requests", len(entries)).
		Int("artifacts", op.Resolver.Manifest().Len()).
		Int("spine", len(op.Resolver.SpineFiles())).
		Msg("resolved configuration")

	return nil
}

func (op *BaseOperation) startBuild(ctx context.Context, name string) {
	log.FromContext(ctx).StartBuild(ctx, log.BuildOperation{
		Name:        name,
		Source:      op.Resolver.SourceRoot(),
		Destination: op.Resolver.DestinationRoot(),
		DryRun:      op.DryRun,
	})
}

func artifactLine(a *artifact.Artifact, st string) log.ArtifactOperation {
	return log.ArtifactOperation{
		Path:     a.PkgDestinationPath(),
		Kind:     a.Kind.String(),
		PathType: a.PathType.String(),
		Status:   st,
	}
}

// fileLine describes the outcome for a written or checked artifact.
func fileLine(a *artifact.Artifact, info status.FileInfo) log.ArtifactOperation {
	line := artifactLine(a, statusText(info.Status))
	line.IsNew = info.Status == status.StatusNew
	line.IsModified = info.Status == status.StatusModified
	return line
}

func statusText(s status.FileStatus) string {
	switch s {
	case status.StatusNew:
		return "NEW"
	case status.StatusModified:
		return "UPDATED"
	case status.StatusUnchanged:
		return "ok"
	case status.StatusDeleted:
		return "REMOVED"
	default:
		return "unknown"
	}
}

func orphanLine(p string, st string) log.ArtifactOperation {
	return log.ArtifactOperation{
		Path:     p,
		Kind:     "orphan",
		PathType: "-",
		Status:   st,
	}
}

// processorFor returns the first processor handling a, or nil.
func (op *BaseOperation) processorFor(a *artifact.Artifact) Processor {
	for _, p := range op.Processors {
		if p.Handles(a) {
			return p
		}
	}
	return nil
}

func sameExtension(a, b string) bool {
	return path.Ext(a) == path.Ext(b)
}
