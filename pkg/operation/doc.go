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

/*
Package operation runs the build steps of a book over its resolved manifest.

	            +-----------+
	            |  config   |
	            +-----+-----+
	                  |
	            +-----+-----+        +-----------+
	            |  resolve  | -----> | resolver  |
	            +-----+-----+        +-----------+
	                  |
	   +--------------+--------------+
	   |              |              |
	+--+-----+   +----+----+   +-----+---+
	| status |   |  clean  |   |  build  |
	+--------+   +---------+   +----+----+
	                                |
	                         +------+------+
	                         | processors  |
	                         +------+------+
	                                |
	                         +------+------+
	                         |   status    |
	                         |  (manager)  |
	                         +-------------+

Every operation first resolves the configured file requests into the
resolver's manifest. Resolution is idempotent, so operations that share a
resolver may run one after another.

Build hands each artifact, in manifest order, to the first Processor that
handles it and writes the returned content through the status manager.
CopyProcessor only copies files whose content is already final. Artifacts
no processor handles are reported as skipped.

Clean removes the destination files no artifact owns. Status reports what a
build and a clean would change without touching the destination.

A dry run resolves against an in-memory snapshot of the source tree and
never writes or deletes.
*/
package operation
