// ABOUTME: Whole-file replacement via temp file, fsync, and rename in the target directory.
// ABOUTME: Readers see either the previous file or the new one, never a partial write.
package store

import (
	"os"
	"path/filepath"
)

// writeFileAtomic replaces path with data, creating the parent directory if
// needed. Failures are returned as *IOError.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Path: path, Err: err}
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return &IOError{Path: path, Err: err}
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return &IOError{Path: path, Err: err}
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Path: path, Err: err}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Path: path, Err: err}
	}

	return nil
}
