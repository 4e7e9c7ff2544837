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

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) (context.Context, *Manager, string) {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()
	return ctx, New(dir), dir
}

func TestWriteFile(t *testing.T) {
	ctx, mgr, dir := setupManager(t)

	info, err := mgr.WriteFile(ctx, "OEBPS/text/ch01.xhtml", []byte("<html/>"))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, info.Status)
	assert.Equal(t, "OEBPS/text/ch01.xhtml", info.Path)
	assert.Equal(t, int64(7), info.Size)
	assert.Len(t, info.Checksum, 64)

	content, err := os.ReadFile(filepath.Join(dir, "OEBPS", "text", "ch01.xhtml"))
	require.NoError(t, err)
	assert.Equal(t, "<html/>", string(content))

	info, err = mgr.WriteFile(ctx, "OEBPS/text/ch01.xhtml", []byte("<html/>"))
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, info.Status)

	info, err = mgr.WriteFile(ctx, "OEBPS/text/ch01.xhtml", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, StatusModified, info.Status)

	entries, err := os.ReadDir(filepath.Join(dir, "OEBPS", "text"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	tracked, err := mgr.GetFileInfo(ctx, "OEBPS/text/ch01.xhtml")
	require.NoError(t, err)
	assert.Equal(t, StatusModified, tracked.Status)
}

func TestCheckDoesNotWrite(t *testing.T) {
	ctx, mgr, dir := setupManager(t)

	info, err := mgr.Check(ctx, "mimetype", []byte("application/epub+zip"))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, info.Status)

	exists, err := mgr.FileExists(ctx, "mimetype")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "mimetype"), []byte("application/epub+zip"), 0o644))
	info, err = mgr.Check(ctx, "mimetype", []byte("application/epub+zip"))
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, info.Status)

	assert.Empty(t, mgr.ListFiles(ctx), "check does not track")
}

func TestDeleteFile(t *testing.T) {
	ctx, mgr, dir := setupManager(t)

	_, err := mgr.WriteFile(ctx, "not_valid/deep/1.xhtml", []byte("x"))
	require.NoError(t, err)
	_, err = mgr.WriteFile(ctx, "valid/1.xhtml", []byte("x"))
	require.NoError(t, err)

	info, err := mgr.DeleteFile(ctx, "not_valid/deep/1.xhtml")
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, info.Status)

	_, err = os.Stat(filepath.Join(dir, "not_valid"))
	assert.True(t, os.IsNotExist(err), "empty parents are pruned")
	_, err = os.Stat(dir)
	assert.NoError(t, err, "the root stays")

	_, err = mgr.DeleteFile(ctx, "missing.xhtml")
	assert.Error(t, err)

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 3)
	assert.Equal(t, "missing.xhtml", files[0].Path)
	assert.Error(t, files[0].Error)
	assert.Equal(t, "not_valid/deep/1.xhtml", files[1].Path)
	assert.Equal(t, "valid/1.xhtml", files[2].Path)
}

func TestPathsStayInsideRoot(t *testing.T) {
	ctx, mgr, _ := setupManager(t)

	for _, p := range []string{"../escape.txt", "/etc/passwd", "a/../../b"} {
		t.Run(p, func(t *testing.T) {
			_, err := mgr.WriteFile(ctx, p, []byte("x"))
			assert.Error(t, err)
			_, err = mgr.DeleteFile(ctx, p)
			assert.Error(t, err)
			_, err = mgr.ReadFile(ctx, p)
			assert.Error(t, err)
		})
	}
}

func TestProgress(t *testing.T) {
	ctx, mgr, _ := setupManager(t)

	mgr.StartOperation(ctx, 4)
	mgr.UpdateProgress(ctx, 2)
	done, total := mgr.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 4, total)

	mgr.FinishOperation(ctx)
	done, _ = mgr.Progress()
	assert.Equal(t, 4, done)
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "deleted", StatusDeleted.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
