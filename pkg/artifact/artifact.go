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

// Package artifact models one resolved build item and its three path views:
// source, package-relative destination and final destination.
package artifact

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/walteh/bookpack/pkg/filetype"
	"github.com/walteh/bookpack/pkg/group"
	"github.com/walteh/bookpack/pkg/request"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ PathType decides where an artifact lives inside the package
type PathType int

const (
	Manifest PathType = iota // listed in the OPF manifest, under OEBPS/
	Spine                    // manifest item that is also read in order
	Package                  // package-level file at the root, e.g. mimetype
)

// ContentDir is the directory manifest and spine items are placed in.
const ContentDir = "OEBPS"

func (p PathType) String() string {
	switch p {
	case Spine:
		return "spine"
	case Package:
		return "package"
	default:
		return "manifest"
	}
}

// Prefix returns the destination-root-relative prefix of the path type.
func (p PathType) Prefix() string {
	if p == Package {
		return ""
	}
	return ContentDir + "/"
}

// ParsePathType converts "manifest", "spine" or "package"; empty means manifest.
func ParsePathType(s string) (PathType, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ":") {
	case "", "manifest":
		return Manifest, nil
	case "spine":
		return Spine, nil
	case "package":
		return Package, nil
	default:
		return Manifest, errors.Errorf("unknown path type %q", s)
	}
}

// 📦 Artifact is one item of the build
//
// SourcePath is empty for generated content. DestinationPath is relative to
// the path type's prefix. Once an artifact is in a manifest its paths and
// PathType do not change; only Properties grow.
type Artifact struct {
	SourcePath      string
	DestinationPath string
	PathType        PathType
	Kind            filetype.Kind
	Properties      request.Properties

	// SourcePattern and Group identify artifacts not yet bound to a path
	SourcePattern string
	Group         group.Group
}

// 🏭 FromSource creates an artifact for a root-relative source file
//
// The destination is the source path with its extension renamed for the kind.
func FromSource(sourcePath string, pathType PathType, properties ...string) *Artifact {
	src := cleanRel(sourcePath)
	return &Artifact{
		SourcePath:      src,
		DestinationPath: filetype.RenameExtension(src),
		PathType:        pathType,
		Kind:            filetype.KindForPath(src),
		Properties:      request.NewProperties(properties...),
	}
}

// ⚙️ Generated creates an artifact produced by the build with no source file
func Generated(destinationPath string, pathType PathType, properties ...string) *Artifact {
	return &Artifact{
		DestinationPath: cleanRel(destinationPath),
		PathType:        pathType,
		Kind:            filetype.Generated,
		Properties:      request.NewProperties(properties...),
	}
}

// FromRequest creates an unbound artifact carrying the request's pattern and group.
func FromRequest(req *request.FileRequest, pathType PathType) *Artifact {
	a := &Artifact{
		SourcePattern: req.Pattern(),
		Group:         req.Group(),
		PathType:      pathType,
		Properties:    request.NewProperties(),
	}
	a.Properties.Merge(req.Properties)
	return a
}

func cleanRel(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
}

// 🟰 Equal compares artifacts by the most specific identity both sides carry
//
// Destination paths win over source paths, which win over (pattern, group).
func (a *Artifact) Equal(other *Artifact) bool {
	if a == nil || other == nil {
		return a == other
	}
	switch {
	case a.DestinationPath != "" && other.DestinationPath != "":
		return a.DestinationPath == other.DestinationPath
	case a.SourcePath != "" && other.SourcePath != "":
		return a.SourcePath == other.SourcePath
	default:
		return a.SourcePattern == other.SourcePattern && a.Group == other.Group
	}
}

// 🔀 MergeWith adds the properties of other; paths are never changed
func (a *Artifact) MergeWith(other *Artifact) {
	if other == nil || len(other.Properties) == 0 {
		return
	}
	if a.Properties == nil {
		a.Properties = request.Properties{}
	}
	a.Properties.Merge(other.Properties)
}

// PkgDestinationPath is the path inside the package, e.g. "OEBPS/text/ch01.xhtml".
func (a *Artifact) PkgDestinationPath() string {
	return a.PathType.Prefix() + a.DestinationPath
}

// FinalDestinationPath joins the package path onto the destination root.
func (a *Artifact) FinalDestinationPath(destinationRoot string) string {
	return strings.TrimSuffix(destinationRoot, "/") + "/" + a.PkgDestinationPath()
}

// IsGenerated reports whether the artifact has no source file.
func (a *Artifact) IsGenerated() bool {
	return a.SourcePath == ""
}

func (a *Artifact) String() string {
	src := a.SourcePath
	if src == "" {
		src = "<generated>"
	}
	return fmt.Sprintf("%s -> %s (%s, %s)", src, a.PkgDestinationPath(), a.Kind, a.PathType)
}
