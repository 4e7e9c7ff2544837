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
Package status manages the files of a destination tree.

	+-------------+      +-------------+
	|  operation  | ---> |   Manager   |
	|  (build)    |      | (dest tree) |
	+-------------+      +------+------+
	                            |
	              +-------------+-------------+
	              |             |             |
	        +-----+----+  +-----+----+  +-----+----+
	        |  write   |  |  delete  |  |  status  |
	        | (atomic) |  | (prune)  |  | (sha256) |
	        +----------+  +----------+  +----------+

A Manager is rooted at the destination directory. Every path it accepts is
relative to that root and may not leave it. Writes go through a temporary
file and a rename, and content that already matches the destination by
checksum is not rewritten. Deleting a file prunes the directories it leaves
empty.

Every file touched is tracked with a FileStatus so operations can report
what changed:

	mgr := status.New(destinationRoot)

	info, err := mgr.WriteFile(ctx, "OEBPS/text/ch01.xhtml", content)
	if err != nil {
		return err
	}
	if info.Status == status.StatusUnchanged {
		// nothing was written
	}
*/
package status
