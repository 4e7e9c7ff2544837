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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bookpack/pkg/artifact"
	"github.com/walteh/bookpack/pkg/group"
	"github.com/walteh/bookpack/pkg/pathmatch"
	"github.com/walteh/bookpack/pkg/request"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser decodes one configuration format
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var parsers []Parser

// 📝 Register adds a parser to the registry
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns the first registered parser accepting filename, or nil
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📄 FileEntry describes one file request
type FileEntry struct {
	Pattern    string   `json:"pattern" yaml:"pattern"`
	Group      string   `json:"group,omitempty" yaml:"group,omitempty"`
	OnlyOne    bool     `json:"only_one,omitempty" yaml:"only_one,omitempty"`
	PathType   string   `json:"path_type,omitempty" yaml:"path_type,omitempty"`
	Properties []string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// 📚 Config is the build configuration of one book
type Config struct {
	Source      string      `json:"source" yaml:"source"`
	Destination string      `json:"destination" yaml:"destination"`
	Ignore      []string    `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Files       []FileEntry `json:"files" yaml:"files"`

	location string
}

// 📥 Entry is a validated file entry ready for the resolver
type Entry struct {
	Request  *request.FileRequest
	PathType artifact.PathType
}

// 🔄 Load reads, parses and validates the configuration at path
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config %s: %w", path, err)
	}

	cfg.location = path
	cfg.resolveRoots(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config %s: %w", path, err)
	}

	logger.Debug().
		Str("source", cfg.Source).
		Str("destination", cfg.Destination).
		Int("files", len(cfg.Files)).
		Msg("loaded configuration")

	return cfg, nil
}

// Location is the file the configuration was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

func (cfg *Config) resolveRoots(base string) {
	if cfg.Source != "" && !filepath.IsAbs(cfg.Source) {
		cfg.Source = filepath.Join(base, cfg.Source)
	}
	if cfg.Destination != "" && !filepath.IsAbs(cfg.Destination) {
		cfg.Destination = filepath.Join(base, cfg.Destination)
	}
}

// 🔍 Validate checks roots, ignore globs, groups and path types
//
// An unknown group fails with an error wrapping *group.UnknownGroupError.
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return errors.Errorf("source is required")
	}
	if cfg.Destination == "" {
		return errors.Errorf("destination is required")
	}

	cfg.Source = filepath.Clean(cfg.Source)
	cfg.Destination = filepath.Clean(cfg.Destination)

	if err := pathmatch.IgnoreList(cfg.Ignore).Validate(); err != nil {
		return err
	}

	for i, f := range cfg.Files {
		if strings.TrimSpace(f.Pattern) == "" {
			return errors.Errorf("files[%d]: pattern is required", i)
		}
		if _, err := parseGroup(f.Group); err != nil {
			return errors.Errorf("files[%d] %q: %w", i, f.Pattern, err)
		}
		if _, err := artifact.ParsePathType(f.PathType); err != nil {
			return errors.Errorf("files[%d] %q: %w", i, f.Pattern, err)
		}
	}

	return nil
}

func parseGroup(name string) (group.Group, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	return group.Parse(name)
}

// 📋 Requests converts the file entries into resolver input, in order
func (cfg *Config) Requests() ([]Entry, error) {
	out := make([]Entry, 0, len(cfg.Files))
	for i, f := range cfg.Files {
		g, err := parseGroup(f.Group)
		if err != nil {
			return nil, errors.Errorf("files[%d] %q: %w", i, f.Pattern, err)
		}
		pt, err := artifact.ParsePathType(f.PathType)
		if err != nil {
			return nil, errors.Errorf("files[%d] %q: %w", i, f.Pattern, err)
		}
		out = append(out, Entry{
			Request:  request.New(f.Pattern, g, f.OnlyOne, f.Properties...),
			PathType: pt,
		})
	}
	return out, nil
}

func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%d file entries)", cfg.Source, cfg.Destination, len(cfg.Files))
}
