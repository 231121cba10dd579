package notefs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Mem is an in-memory implementation of FS for testing. Paths are slash
// separated and cleaned; directories must be created with MkdirAll.
type Mem struct {
	mu    sync.RWMutex
	dirs  map[string]bool
	files map[string][]byte
	calls MemCalls

	fail map[string]map[string]error
}

// MemCalls tracks method invocations for test verification.
type MemCalls struct {
	IsDir  int
	List   int
	Read   int
	Write  int
	Remove int
}

// NewMem creates an empty in-memory filesystem containing only "/".
func NewMem() *Mem {
	return &Mem{
		dirs:  map[string]bool{"/": true},
		files: make(map[string][]byte),
		fail:  make(map[string]map[string]error),
	}
}

// MkdirAll creates dir and its parents.
func (m *Mem) MkdirAll(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := clean(dir); ; p = path.Dir(p) {
		m.dirs[p] = true
		if p == "/" || p == "." {
			return
		}
	}
}

// Put writes a file directly, bypassing call tracking and failure injection.
func (m *Mem) Put(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(p)] = append([]byte(nil), data...)
}

// Exists reports whether a file exists, bypassing call tracking.
func (m *Mem) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[clean(p)]
	return ok
}

// Content returns a file's bytes, bypassing call tracking.
func (m *Mem) Content(p string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.files[clean(p)]...)
}

// Calls returns a snapshot of the call counters.
func (m *Mem) Calls() MemCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// FailOn makes op ("read", "write", "remove") on p return err.
func (m *Mem) FailOn(op, p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[op] == nil {
		m.fail[op] = make(map[string]error)
	}
	m.fail[op][clean(p)] = err
}

// IsDir reports whether dir was created.
func (m *Mem) IsDir(p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.IsDir++
	return m.dirs[clean(p)], nil
}

// List returns direct children of dir sorted by name.
func (m *Mem) List(dir string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.List++

	d := clean(dir)
	if !m.dirs[d] {
		return nil, fmt.Errorf("read directory %s: %w", dir, fs.ErrNotExist)
	}

	var entries []Entry
	for p := range m.files {
		if path.Dir(p) == d {
			entries = append(entries, Entry{Name: path.Base(p), Path: p, Regular: true})
		}
	}
	for p := range m.dirs {
		if p != d && path.Dir(p) == d {
			entries = append(entries, Entry{Name: path.Base(p), Path: p})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ReadFile returns a copy of the file content.
func (m *Mem) ReadFile(p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Read++

	p = clean(p)
	if err := m.fail["read"][p]; err != nil {
		return nil, err
	}
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores data at p; the parent directory must exist.
func (m *Mem) WriteFile(p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Write++

	p = clean(p)
	if err := m.fail["write"][p]; err != nil {
		return err
	}
	if !m.dirs[path.Dir(p)] {
		return &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	m.files[p] = append([]byte(nil), data...)
	return nil
}

// Remove deletes the file at p.
func (m *Mem) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Remove++

	p = clean(p)
	if err := m.fail["remove"][p]; err != nil {
		return err
	}
	if _, ok := m.files[p]; !ok {
		return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
	}
	delete(m.files, p)
	return nil
}

func clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
