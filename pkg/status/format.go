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

package status

import "fmt"

const (
	EmojiProgress = "⏳"
	EmojiComplete = "✅"

	// MsgProgress takes the emoji, current, total and a percentage
	MsgProgress = "%s Progress: %d/%d (%.0f%%)"
)

// 🎨 FileFormatter formats status messages
type FileFormatter interface {
	// FormatFileInfo formats the status of one destination file
	FormatFileInfo(info FileInfo) string
	// FormatProgress formats a progress update
	FormatProgress(current, total int) string
	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

func (f *DefaultFileFormatter) FormatFileInfo(info FileInfo) string {
	if info.Error != nil {
		return fmt.Sprintf("❌ Failed %s", info.Path)
	}
	switch info.Status {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s", info.Path)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s", info.Path)
	case StatusDeleted:
		return fmt.Sprintf("🗑️  Removed %s", info.Path)
	case StatusUnchanged:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	default:
		return fmt.Sprintf("❔ Unknown %s", info.Path)
	}
}

// FormatProgress clamps negative values to zero and reports 100% once current reaches total.
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	current = max(current, 0)
	total = max(total, 0)

	var percentage float64
	if total > 0 {
		percentage = min(float64(current)/float64(total)*100, 100)
	}

	emoji := EmojiProgress
	if (total > 0 && current >= total) || (total == 0 && current > 0) {
		emoji = EmojiComplete
	}
	return fmt.Sprintf(MsgProgress, emoji, current, total, percentage)
}

func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
