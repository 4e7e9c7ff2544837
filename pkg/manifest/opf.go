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

package manifest

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/filetype"
	"gitlab.com/tozd/go/errors"
)

const opfNamespace = "http://www.idpf.org/2007/opf"

// 📝 WriteOPF writes the manifest and spine sections of an OPF package document
//
// Package-level artifacts are not part of the OPF manifest and are skipped.
// Hrefs are relative to the content directory, where the OPF file lives.
func (m *Manifest) WriteOPF(w io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", opfNamespace)
	pkg.CreateAttr("version", "3.0")

	ids := m.itemIDs()

	manifestEl := pkg.CreateElement("manifest")
	for _, item := range m.items {
		if item.PathType == artifact.Package {
			continue
		}
		el := manifestEl.CreateElement("item")
		el.CreateAttr("id", ids[item])
		el.CreateAttr("href", item.DestinationPath)
		el.CreateAttr("media-type", filetype.MediaType(item.DestinationPath))
		if len(item.Properties) > 0 {
			el.CreateAttr("properties", strings.Join(item.Properties.Sorted(), " "))
		}
	}

	spineEl := pkg.CreateElement("spine")
	for _, item := range m.spine {
		ref := spineEl.CreateElement("itemref")
		ref.CreateAttr("idref", ids[item])
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Errorf("writing OPF document: %w", err)
	}
	return nil
}

// itemIDs assigns every manifest item a unique XML id derived from its destination.
func (m *Manifest) itemIDs() map[*artifact.Artifact]string {
	ids := make(map[*artifact.Artifact]string, len(m.items))
	used := make(map[string]bool, len(m.items))
	for _, item := range m.items {
		base := xmlID(item.DestinationPath)
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		used[id] = true
		ids[item] = id
	}
	return ids
}

func xmlID(p string) string {
	var b strings.Builder
	for _, r := range p {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	id := b.String()
	if id == "" || !unicode.IsLetter([]rune(id)[0]) && id[0] != '_' {
		id = "id_" + id
	}
	return id
}
