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
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the state of a destination file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // file doesn't exist in destination
	StatusModified             // file exists but content differs
	StatusUnchanged            // file exists and content matches
	StatusDeleted              // file was deleted
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// 📄 FileInfo describes one destination file
type FileInfo struct {
	Path     string     // slash-separated, relative to the destination root
	Status   FileStatus // current status
	Size     int64      // content size in bytes
	Checksum string     // hex sha256 of the content
	Error    error      // any error associated with this file
}

// 💾 FileManager handles destination file operations
type FileManager interface {
	WriteFile(ctx context.Context, path string, content []byte) (FileInfo, error)
	Check(ctx context.Context, path string, content []byte) (FileInfo, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	DeleteFile(ctx context.Context, path string) (FileInfo, error)
	FileExists(ctx context.Context, path string) (bool, error)
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements FileManager and StatusReporter over one directory
type Manager struct {
	baseDir   string
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a manager rooted at baseDir
func New(baseDir string) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

func (m *Manager) BaseDir() string {
	return m.baseDir
}

// absPath maps a root-relative path into baseDir, rejecting paths that leave it.
func (m *Manager) absPath(p string) (string, error) {
	local := filepath.FromSlash(p)
	if !filepath.IsLocal(local) {
		return "", errors.Errorf("path %q is outside of %s", p, m.baseDir)
	}
	return filepath.Join(m.baseDir, local), nil
}

func checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 🔍 Check reports the status content would get if written to p, without writing
func (m *Manager) Check(ctx context.Context, p string, content []byte) (FileInfo, error) {
	abs, err := m.absPath(p)
	if err != nil {
		return FileInfo{}, err
	}

	info := FileInfo{
		Path:     filepath.ToSlash(p),
		Size:     int64(len(content)),
		Checksum: checksum(content),
	}

	existing, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		info.Status = StatusNew
	case err != nil:
		return FileInfo{}, errors.Errorf("reading %s: %w", p, err)
	case checksum(existing) == info.Checksum:
		info.Status = StatusUnchanged
	default:
		info.Status = StatusModified
	}
	return info, nil
}

// 📝 WriteFile writes content to p unless it already matches, and tracks the result
func (m *Manager) WriteFile(ctx context.Context, p string, content []byte) (FileInfo, error) {
	info, err := m.Check(ctx, p, content)
	if err != nil {
		return FileInfo{}, err
	}

	if info.Status != StatusUnchanged {
		if err := m.writeAtomic(p, content); err != nil {
			info.Error = err
			m.TrackFile(ctx, info)
			return info, err
		}
	}

	m.TrackFile(ctx, info)
	return info, nil
}

func (m *Manager) writeAtomic(p string, content []byte) error {
	abs, err := m.absPath(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (m *Manager) ReadFile(ctx context.Context, p string) ([]byte, error) {
	abs, err := m.absPath(p)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// 🗑️ DeleteFile removes p and every directory it leaves empty below the root
func (m *Manager) DeleteFile(ctx context.Context, p string) (FileInfo, error) {
	abs, err := m.absPath(p)
	if err != nil {
		return FileInfo{}, err
	}

	info := FileInfo{Path: filepath.ToSlash(p), Status: StatusDeleted}
	if err := os.Remove(abs); err != nil {
		info.Error = errors.Errorf("deleting file: %w", err)
		m.TrackFile(ctx, info)
		return info, info.Error
	}

	for dir := filepath.Dir(abs); dir != m.baseDir && len(dir) > len(m.baseDir); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("dir", dir).Msg("leaving directory in place")
			break
		}
	}

	m.TrackFile(ctx, info)
	return info, nil
}

func (m *Manager) FileExists(ctx context.Context, p string) (bool, error) {
	abs, err := m.absPath(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	logger := zerolog.Ctx(ctx)
	if info.Error != nil {
		logger.Error().Err(info.Error).Str("path", info.Path).Msg(m.formatter.FormatError(info.Error))
		return
	}
	logger.Debug().
		Str("path", info.Path).
		Stringer("status", info.Status).
		Msg(m.formatter.FormatFileInfo(info))
}

func (m *Manager) GetFileInfo(ctx context.Context, p string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[filepath.ToSlash(p)]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", p)
	}
	return info, nil
}

// ListFiles returns every tracked file sorted by path.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = m.total
	zerolog.Ctx(ctx).Debug().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.total, m.total))
}

// Progress returns the processed and total counts of the current operation.
func (m *Manager) Progress() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
