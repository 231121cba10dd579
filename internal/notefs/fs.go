// Package notefs is the filesystem capability used by the syncer: list, read,
// write and delete, with an OS implementation and an in-memory one for tests.
package notefs

import (
	"io/fs"
)

// ErrNotExist is returned (wrapped) when a path does not exist.
var ErrNotExist = fs.ErrNotExist

// Entry is a direct child of a listed directory.
type Entry struct {
	// Name is the base name of the entry.
	Name string
	// Path is the directory joined with Name.
	Path string
	// Regular is true for regular files (symlinks are resolved).
	Regular bool
}

// FS provides the filesystem operations a sync run needs.
type FS interface {
	// IsDir reports whether path exists and is a directory. A missing path
	// is not an error.
	IsDir(path string) (bool, error)

	// List returns the direct entries of dir in name order.
	List(dir string) ([]Entry, error)

	// ReadFile returns the full content of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or truncates path and writes data.
	WriteFile(path string, data []byte) error

	// Remove deletes a file.
	Remove(path string) error
}
