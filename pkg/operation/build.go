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

	"github.com/rs/zerolog"
	"github.com/walteh/bookpack/pkg/log"
	"github.com/walteh/bookpack/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏗️ BuildOperation writes every handled artifact into the destination
type BuildOperation struct {
	BaseOperation
	results []ArtifactStatus
}

var _ Operation = (*BuildOperation)(nil)

// 🏭 NewBuildOperation creates a build operation
func NewBuildOperation(ctx context.Context, opts Options) (*BuildOperation, error) {
	base, err := NewBaseOperation(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &BuildOperation{BaseOperation: base}, nil
}

func (op *BuildOperation) Name() string { return "build" }

// 🏃 Execute resolves, then processes the artifacts one at a time in manifest order
//
// Processing stops at the first failing artifact. A dry run checks the
// content against the destination instead of writing it.
func (op *BuildOperation) Execute(ctx context.Context) error {
	if err := op.resolve(ctx); err != nil {
		return err
	}

	zlog := zerolog.Ctx(ctx)
	logger := log.FromContext(ctx)
	op.startBuild(ctx, op.Name())
	defer logger.EndBuild(ctx)

	files := op.Resolver.Files()
	op.StatusMgr.StartOperation(ctx, len(files))
	defer op.StatusMgr.FinishOperation(ctx)

	op.results = make([]ArtifactStatus, 0, len(files))
	for i, a := range files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("build cancelled: %w", err)
		}

		proc := op.processorFor(a)
		if proc == nil {
			zlog.Warn().
				Str("artifact", a.String()).
				Stringer("kind", a.Kind).
				Msg("no processor handles artifact, skipping")
			line := artifactLine(a, "SKIPPED")
			line.IsSkipped = true
			logger.LogArtifactOperation(ctx, line)
			op.results = append(op.results, ArtifactStatus{Artifact: a, Skipped: true})
			continue
		}

		content, err := proc.Process(ctx, op.Resolver, a)
		if err != nil {
			return errors.Errorf("processing %s: %w", a, err)
		}

		var info status.FileInfo
		if op.DryRun {
			info, err = op.StatusMgr.Check(ctx, a.PkgDestinationPath(), content)
		} else {
			info, err = op.StatusMgr.WriteFile(ctx, a.PkgDestinationPath(), content)
		}
		if err != nil {
			return errors.Errorf("writing %s: %w", a.PkgDestinationPath(), err)
		}

		logger.LogArtifactOperation(ctx, fileLine(a, info))
		op.results = append(op.results, ArtifactStatus{Artifact: a, Status: info.Status})
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}

// Results returns the outcome per artifact of the last Execute, in manifest order.
func (op *BuildOperation) Results() []ArtifactStatus {
	return op.results
}
