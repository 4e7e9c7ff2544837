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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/group"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

type HCLParser struct{}

type hclFileBlock struct {
	Pattern    string   `hcl:"pattern,label"`
	Group      string   `hcl:"group,optional"`
	OnlyOne    bool     `hcl:"only_one,optional"`
	PathType   string   `hcl:"path_type,optional"`
	Properties []string `hcl:"properties,optional"`
}

type hclConfig struct {
	Source      string         `hcl:"source"`
	Destination string         `hcl:"destination"`
	Ignore      []string       `hcl:"ignore,optional"`
	Files       []hclFileBlock `hcl:"file,block"`
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 🌍 EvalContext exposes the `group` and `path` objects to HCL expressions
func EvalContext() *hcl.EvalContext {
	groups := make(map[string]cty.Value)
	for _, g := range group.All() {
		groups[g.String()] = cty.StringVal(g.String())
	}

	paths := make(map[string]cty.Value)
	for _, pt := range []artifact.PathType{artifact.Manifest, artifact.Spine, artifact.Package} {
		paths[pt.String()] = cty.StringVal(pt.String())
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"group": cty.ObjectVal(groups),
			"path":  cty.ObjectVal(paths),
		},
	}
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, EvalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Source:      hclCfg.Source,
		Destination: hclCfg.Destination,
		Ignore:      hclCfg.Ignore,
	}
	for _, f := range hclCfg.Files {
		cfg.Files = append(cfg.Files, FileEntry{
			Pattern:    f.Pattern,
			Group:      f.Group,
			OnlyOne:    f.OnlyOne,
			PathType:   f.PathType,
			Properties: f.Properties,
		})
	}

	return cfg, nil
}
