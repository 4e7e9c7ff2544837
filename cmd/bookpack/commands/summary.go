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

package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/operation"
)

// 📊 renderManifest prints the artifacts as a table
func renderManifest(arts []*artifact.Artifact) error {
	data := pterm.TableData{{"#", "source", "destination", "kind", "path type", "properties"}}
	for i, a := range arts {
		src := a.SourcePath
		if src == "" {
			src = "<generated>"
		}
		data = append(data, []string{
			fmt.Sprint(i + 1),
			src,
			a.PkgDestinationPath(),
			a.Kind.String(),
			a.PathType.String(),
			fmt.Sprint(a.Properties.Sorted()),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// 📋 renderSummary prints how many artifacts ended up in each state
func renderSummary(results []operation.ArtifactStatus, label string, paths []string) error {
	counts := map[string]int{}
	for _, r := range results {
		if r.Skipped {
			counts["skipped"]++
			continue
		}
		counts[r.Status.String()]++
	}

	data := pterm.TableData{{"state", "files"}}
	for _, state := range []string{"new", "modified", "unchanged", "skipped"} {
		data = append(data, []string{state, fmt.Sprint(counts[state])})
	}
	if label != "" {
		data = append(data, []string{label, fmt.Sprint(len(paths))})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
