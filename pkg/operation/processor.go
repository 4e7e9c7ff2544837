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
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/filetype"
	"github.com/walteh/bookpack/pkg/resolver"
	"gitlab.com/tozd/go/errors"
)

// ⚙️ Processor produces the destination content of an artifact
type Processor interface {
	// Handles reports whether the processor can produce a
	Handles(a *artifact.Artifact) bool
	// Process returns the content written to a's destination
	Process(ctx context.Context, r *resolver.Resolver, a *artifact.Artifact) ([]byte, error)
}

// 📋 CopyProcessor copies source files whose content is already final
//
// Templates and any source whose extension changes on the way to the
// destination need a transformation and are not handled.
type CopyProcessor struct{}

var _ Processor = (*CopyProcessor)(nil)

func (p *CopyProcessor) Handles(a *artifact.Artifact) bool {
	if a.IsGenerated() || a.Kind == filetype.Template {
		return false
	}
	return sameExtension(a.SourcePath, a.DestinationPath)
}

func (p *CopyProcessor) Process(ctx context.Context, r *resolver.Resolver, a *artifact.Artifact) ([]byte, error) {
	src := filepath.Join(r.SourceRoot(), filepath.FromSlash(a.SourcePath))
	content, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.Errorf("reading source %s: %w", a.SourcePath, err)
	}
	return content, nil
}

// 📦 OPFProcessor writes the package document listing the manifest and spine
type OPFProcessor struct {
	// Path is the package path of the document
	Path string
}

var _ Processor = (*OPFProcessor)(nil)

func (p *OPFProcessor) Handles(a *artifact.Artifact) bool {
	return a.IsGenerated() && a.PkgDestinationPath() == p.Path
}

func (p *OPFProcessor) Process(ctx context.Context, r *resolver.Resolver, a *artifact.Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Manifest().WriteOPF(&buf); err != nil {
		return nil, errors.Errorf("writing package document: %w", err)
	}
	return buf.Bytes(), nil
}
