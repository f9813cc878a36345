package fsutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the default permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// DefaultDirMode is the permission mode for created output directories.
const DefaultDirMode os.FileMode = 0o755

// WriteStatus reports what WriteAtomicIfChanged did.
type WriteStatus int

const (
	// StatusWritten means the file was created or replaced.
	StatusWritten WriteStatus = iota

	// StatusUnchanged means the file already held the content.
	StatusUnchanged
)

func (s WriteStatus) String() string {
	if s == StatusUnchanged {
		return "unchanged"
	}
	return "written"
}

// WriteAtomic writes content to path atomically using a temp file in the
// same directory and a rename. Missing parent directories are created. If
// mode is 0, DefaultFileMode is used. On error the temp file is removed and
// any existing file is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// WriteAtomicIfChanged writes content to path atomically unless the file
// already holds exactly content.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (WriteStatus, error) {
	select {
	case <-ctx.Done():
		return StatusWritten, fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return StatusUnchanged, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return StatusWritten, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return StatusWritten, err
	}
	return StatusWritten, nil
}
