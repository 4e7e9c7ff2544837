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

// Package filetype maps file extensions to artifact kinds, destination
// extensions and media types.
package filetype

import (
	"path"
	"strings"
)

// 🧩 Kind is the processing category of an artifact
type Kind int

const (
	Static     Kind = iota // copied unchanged
	XHTML                  // already-final XHTML content
	Generated              // produced by the pipeline, no source file
	Stylesheet             // compiled to CSS
	Template               // rendered to XHTML
	Image                  // raster or vector image
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case XHTML:
		return "xhtml"
	case Generated:
		return "generated"
	case Stylesheet:
		return "stylesheet"
	case Template:
		return "template"
	case Image:
		return "image"
	default:
		return "static"
	}
}

// OutputXHTMLExtension is the extension rendered templates are written with.
const OutputXHTMLExtension = ".xhtml"

var kinds = map[string]Kind{
	".xhtml":  XHTML,
	".html":   XHTML,
	".bade":   Template,
	".rxhtml": Template,
	".styl":   Stylesheet,
	".css":    Stylesheet,
	".png":    Image,
	".jpg":    Image,
	".jpeg":   Image,
	".gif":    Image,
	".svg":    Image,
}

// source extension -> destination extension, only for extensions that change
var renames = map[string]string{
	".bade":   OutputXHTMLExtension,
	".rxhtml": OutputXHTMLExtension,
	".styl":   ".css",
}

var mediaTypes = map[string]string{
	".xhtml": "application/xhtml+xml",
	".html":  "application/xhtml+xml",
	".css":   "text/css",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".js":    "application/javascript",
	".mp3":   "audio/mpeg",
	".m4a":   "audio/mp4",
	".mp4":   "video/mp4",
	".m4v":   "video/mp4",
	".ncx":   "application/x-dtbncx+xml",
	".opf":   "application/oebps-package+xml",
	".xml":   "application/xml",
}

// DefaultMediaType is reported for extensions without a registered media type.
const DefaultMediaType = "application/octet-stream"

func ext(p string) string {
	return strings.ToLower(path.Ext(p))
}

// 🎯 KindFor returns the kind for an extension; unknown extensions are Static
func KindFor(extension string) Kind {
	e := strings.ToLower(extension)
	if e != "" && !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	if k, ok := kinds[e]; ok {
		return k
	}
	return Static
}

// KindForPath returns the kind of the file at p.
func KindForPath(p string) Kind {
	return KindFor(ext(p))
}

// 🔄 RenameExtension returns p with its destination extension
//
// Templates become .xhtml and stylesheet sources become .css; every other path
// is returned unchanged. Applying it twice yields the same result as once.
func RenameExtension(p string) string {
	e := path.Ext(p)
	to, ok := renames[strings.ToLower(e)]
	if !ok {
		return p
	}
	return strings.TrimSuffix(p, e) + to
}

// MediaType returns the OPF media type of p.
func MediaType(p string) string {
	if mt, ok := mediaTypes[ext(p)]; ok {
		return mt
	}
	return DefaultMediaType
}
