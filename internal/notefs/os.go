package notefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OS implements FS on the local disk.
type OS struct {
	// FileMode is used for newly written files (default 0644).
	FileMode fs.FileMode
}

// NewOS returns an FS backed by the local disk.
func NewOS() *OS {
	return &OS{FileMode: 0o644}
}

// IsDir reports whether path exists and is a directory.
func (o *OS) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.IsDir(), nil
}

// List returns the direct entries of dir sorted by name.
func (o *OS) List(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		p := filepath.Join(dir, de.Name())
		regular := de.Type().IsRegular()
		if de.Type()&fs.ModeSymlink != 0 {
			if info, statErr := os.Stat(p); statErr == nil {
				regular = info.Mode().IsRegular()
			}
		}
		entries = append(entries, Entry{Name: de.Name(), Path: p, Regular: regular})
	}
	return entries, nil
}

// ReadFile returns the content of path.
func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile creates or truncates path.
func (o *OS) WriteFile(path string, data []byte) error {
	mode := o.FileMode
	if mode == 0 {
		mode = 0o644
	}
	return os.WriteFile(path, data, mode)
}

// Remove deletes path.
func (o *OS) Remove(path string) error {
	return os.Remove(path)
}
