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

// Package config loads the build configuration of a book.
//
// 	            +-------------+
// 	            |   Config    |
// 	            | (requests)  |
// 	            +------+------+
// 	                   |
// 	      +------------+------------+
// 	      |            |            |
// 	+-----+----+ +-----+----+ +-----+----+
// 	|   YAML   | |   JSON   | |   HCL    |
// 	|  Parser  | |  Parser  | |  Parser  |
// 	+----------+ +----------+ +----------+
//
// A configuration names the source tree, the destination tree, ignore globs
// and an ordered list of file entries. Each entry becomes one file request
// handed to the resolver together with the path type its artifacts get.
//
// The parser is picked by file extension. HCL files write one block per entry
// and may reference groups and path types through the `group` and `path`
// objects:
//
// 	source      = "."
// 	destination = "build"
// 	ignore      = [".git", "**/*.tmp"]
//
// 	file "cover" {
// 	  group      = group.image
// 	  only_one   = true
// 	  properties = ["cover-image"]
// 	}
//
// 	file "text/*" {
// 	  group     = group.text
// 	  path_type = path.spine
// 	}
//
// Relative roots are resolved against the directory of the configuration file.
package config
