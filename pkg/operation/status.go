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

	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/log"
	"github.com/walteh/bookpack/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📊 ArtifactStatus is the destination state of one artifact
type ArtifactStatus struct {
	Artifact *artifact.Artifact
	Status   status.FileStatus
	// Skipped is set when no processor handles the artifact
	Skipped bool
}

// 📋 Report lists what a build and a clean would change
type Report struct {
	Artifacts []ArtifactStatus
	Unneeded  []string
}

// Changed reports whether building or cleaning would touch the destination.
func (r *Report) Changed() bool {
	if len(r.Unneeded) > 0 {
		return true
	}
	for _, a := range r.Artifacts {
		if !a.Skipped && a.Status != status.StatusUnchanged {
			return true
		}
	}
	return false
}

// 🔍 StatusOperation compares the destination with the manifest without writing
type StatusOperation struct {
	BaseOperation
	report *Report
}

var _ Operation = (*StatusOperation)(nil)

// 🏭 NewStatusOperation creates a status operation
func NewStatusOperation(ctx context.Context, opts Options) (*StatusOperation, error) {
	base, err := NewBaseOperation(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &StatusOperation{BaseOperation: base}, nil
}

func (op *StatusOperation) Name() string { return "status" }

// 🏃 Execute resolves, renders every handled artifact and checks it against the destination
func (op *StatusOperation) Execute(ctx context.Context) error {
	if err := op.resolve(ctx); err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	op.startBuild(ctx, op.Name())
	defer logger.EndBuild(ctx)

	report := &Report{}
	for _, a := range op.Resolver.Files() {
		proc := op.processorFor(a)
		if proc == nil {
			line := artifactLine(a, "SKIPPED")
			line.IsSkipped = true
			logger.LogArtifactOperation(ctx, line)
			report.Artifacts = append(report.Artifacts, ArtifactStatus{Artifact: a, Skipped: true})
			continue
		}

		content, err := proc.Process(ctx, op.Resolver, a)
		if err != nil {
			return errors.Errorf("processing %s: %w", a, err)
		}
		info, err := op.StatusMgr.Check(ctx, a.PkgDestinationPath(), content)
		if err != nil {
			return errors.Errorf("checking %s: %w", a.PkgDestinationPath(), err)
		}

		logger.LogArtifactOperation(ctx, fileLine(a, info))
		report.Artifacts = append(report.Artifacts, ArtifactStatus{Artifact: a, Status: info.Status})
	}

	unneeded, err := op.Resolver.UnneededFilesInDestination(ctx)
	if err != nil {
		return errors.Errorf("finding unneeded files: %w", err)
	}
	for _, p := range unneeded {
		line := orphanLine(p, "unneeded")
		line.IsRemoved = true
		logger.LogArtifactOperation(ctx, line)
	}
	report.Unneeded = unneeded

	op.report = report
	return nil
}

// Report returns the result of the last Execute, or nil.
func (op *StatusOperation) Report() *Report {
	return op.report
}
