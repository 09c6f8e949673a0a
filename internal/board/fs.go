package board

import (
	"fmt"
	"os"
)

// FS is the set of filesystem primitives the persistence engine needs. Each
// call is treated as atomic. Tests substitute implementations that fail on
// demand.
type FS interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or truncates path and writes data, syncing it to
	// stable storage before returning.
	WriteFile(path string, data []byte) error

	// Rename atomically replaces newpath with oldpath.
	Rename(oldpath, newpath string) error

	// Remove removes a file.
	Remove(path string) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error
}

// OSFS implements FS using actual OS operations.
type OSFS struct{}

// ReadFile reads the entire contents of a file.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path and fsyncs it.
func (OSFS) WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	return f.Close()
}

// Rename wraps os.Rename.
func (OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove wraps os.Remove.
func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

// MkdirAll creates path with mode 0755.
func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}
