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

	"github.com/walteh/bookpack/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🧹 CleanOperation removes destination files no artifact owns
type CleanOperation struct {
	BaseOperation
	removed []string
}

var _ Operation = (*CleanOperation)(nil)

// 🏭 NewCleanOperation creates a clean operation
func NewCleanOperation(ctx context.Context, opts Options) (*CleanOperation, error) {
	base, err := NewBaseOperation(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &CleanOperation{BaseOperation: base}, nil
}

func (op *CleanOperation) Name() string { return "clean" }

// 🏃 Execute resolves, then deletes every unneeded destination file
//
// A dry run only reports the files.
func (op *CleanOperation) Execute(ctx context.Context) error {
	if err := op.resolve(ctx); err != nil {
		return err
	}

	unneeded, err := op.Resolver.UnneededFilesInDestination(ctx)
	if err != nil {
		return errors.Errorf("finding unneeded files: %w", err)
	}

	logger := log.FromContext(ctx)
	op.startBuild(ctx, op.Name())
	defer logger.EndBuild(ctx)

	op.StatusMgr.StartOperation(ctx, len(unneeded))
	defer op.StatusMgr.FinishOperation(ctx)

	op.removed = nil
	for i, p := range unneeded {
		if op.DryRun {
			logger.LogArtifactOperation(ctx, orphanLine(p, "would remove"))
			continue
		}

		if _, err := op.StatusMgr.DeleteFile(ctx, p); err != nil {
			return errors.Errorf("removing %s: %w", p, err)
		}
		op.removed = append(op.removed, p)

		line := orphanLine(p, "REMOVED")
		line.IsRemoved = true
		logger.LogArtifactOperation(ctx, line)
		op.StatusMgr.UpdateProgress(ctx, i+1)
	}

	return nil
}

// Removed returns the files deleted by the last Execute.
func (op *CleanOperation) Removed() []string {
	return op.removed
}
