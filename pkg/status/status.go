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
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the outcome of one file during organize or undo
type FileStatus int

const (
	StatusUnknown  FileStatus = iota
	StatusMoved               // Moved under its original name
	StatusRenamed             // Moved under a collision-resolved name
	StatusInPlace             // Already at its destination
	StatusRestored            // Moved back by undo
	StatusSkipped             // Nothing to do (undo: file gone)
	StatusFailed              // Error, see the attached cause
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusMoved:
		return "moved"
	case StatusRenamed:
		return "renamed"
	case StatusInPlace:
		return "in place"
	case StatusRestored:
		return "restored"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 💾 FileManager handles all file system operations for a run
type FileManager interface {
	// Lookups
	Stat(ctx context.Context, path string) (os.FileInfo, error)
	FileExists(ctx context.Context, path string) (bool, error)
	ReadDir(ctx context.Context, path string) ([]os.DirEntry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Directory operations
	CreateDir(ctx context.Context, path string) error
	RemoveDir(ctx context.Context, path string) error

	// File operations
	MoveFile(ctx context.Context, src, dst string) error
	DeleteFile(ctx context.Context, path string) error

	// Atomic operations
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

var _ FileManager = (*Manager)(nil)

// 🔧 Manager implements FileManager on the local file system
type Manager struct {
	dirMode  os.FileMode
	fileMode os.FileMode
	rename   func(oldpath, newpath string) error
}

// 🏭 New creates a new file manager
func New() *Manager {
	return &Manager{
		dirMode:  0o755,
		fileMode: 0o644,
		rename:   os.Rename,
	}
}

func (m *Manager) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	return info, nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) ReadDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}
	return entries, nil
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, m.dirMode); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// RemoveDir removes path only if it is empty.
func (m *Manager) RemoveDir(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Errorf("removing directory: %w", err)
	}
	return nil
}

func (m *Manager) DeleteFile(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Errorf("deleting file: %w", err)
	}
	return nil
}

// MoveFile renames src to dst. When the two paths live on different devices
// the file is copied, verified by size and SHA-256, and only then is src
// removed.
func (m *Manager) MoveFile(ctx context.Context, src, dst string) error {
	err := m.rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return errors.Errorf("renaming file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("cross-device move, falling back to copy")

	if err := copyFileVerified(src, dst); err != nil {
		return errors.Errorf("copying across devices: %w", err)
	}

	if err := os.Remove(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}

	return nil
}

// WriteFileAtomic writes content to a temp file next to path and renames it
// over path, so readers never observe a partial file.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	cleanup := func() {
		if rerr := os.Remove(tempPath); rerr != nil && !os.IsNotExist(rerr) {
			zerolog.Ctx(ctx).Debug().Err(rerr).Str("path", tempPath).Msg("removing temp file")
		}
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, m.fileMode); err != nil {
		cleanup()
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		cleanup()
		return errors.Errorf("renaming temp file: %w", err)
	}

	syncDir(dir)

	return nil
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports fsync on directories, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// Helper functions

func copyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("stat source: %w", err)
	}

	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	srcHash := sha256.New()
	dstHash := sha256.New()

	written, err := io.Copy(io.MultiWriter(destination, dstHash), io.TeeReader(source, srcHash))
	if err != nil {
		destination.Close()
		_ = os.Remove(dst)
		return errors.Errorf("copying file: %w", err)
	}
	if err := destination.Sync(); err != nil {
		destination.Close()
		_ = os.Remove(dst)
		return errors.Errorf("syncing destination file: %w", err)
	}
	if err := destination.Close(); err != nil {
		_ = os.Remove(dst)
		return errors.Errorf("closing destination file: %w", err)
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return errors.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHash.Sum(nil), dstHash.Sum(nil)) {
		_ = os.Remove(dst)
		return errors.Errorf("copy hash mismatch")
	}

	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())

	return nil
}
