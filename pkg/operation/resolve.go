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
)

// 📥 ResolveOperation fills the manifest from the configuration
type ResolveOperation struct {
	BaseOperation
}

var _ Operation = (*ResolveOperation)(nil)

// 🏭 NewResolveOperation creates a resolve operation
func NewResolveOperation(ctx context.Context, opts Options) (*ResolveOperation, error) {
	base, err := NewBaseOperation(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ResolveOperation{BaseOperation: base}, nil
}

func (op *ResolveOperation) Name() string { return "resolve" }

// 🏃 Execute resolves every request and prints the manifest
func (op *ResolveOperation) Execute(ctx context.Context) error {
	if err := op.resolve(ctx); err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	op.startBuild(ctx, op.Name())
	for _, a := range op.Resolver.Files() {
		logger.LogArtifactOperation(ctx, artifactLine(a, "resolved"))
	}
	logger.EndBuild(ctx)

	return nil
}

// Artifacts returns the resolved artifacts in manifest order.
func (op *ResolveOperation) Artifacts() []*artifact.Artifact {
	return op.Resolver.Files()
}
