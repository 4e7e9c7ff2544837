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

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/bookpack/pkg/config"
)

func ExampleLoad() {
	dir, err := os.MkdirTemp("", "bookpack-config")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configYAML := `
source: /books/moby
destination: /books/moby/build
files:
  - pattern: cover
    group: image
    only_one: true
    properties: [cover-image]
  - pattern: text/*
    group: text
    path_type: spine
`
	configPath := filepath.Join(dir, "book.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	entries, err := cfg.Requests()
	if err != nil {
		fmt.Printf("Error building requests: %v\n", err)
		return
	}

	fmt.Println(cfg)
	for _, e := range entries {
		fmt.Printf("%s -> %s\n", e.Request, e.PathType)
	}

	// Output:
	// /books/moby -> /books/moby/build (2 file entries)
	// "cover" (group :image, only one: true) -> manifest
	// "text/*" (group :text, only one: false) -> spine
}
