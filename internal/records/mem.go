package records

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Repository for tests.
type MemStore struct {
	mu      sync.RWMutex
	bySlug  map[string]*Record
	nextID  int64
	upserts int
	now     func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{bySlug: make(map[string]*Record), now: time.Now}
}

// UpsertBySlug inserts or overwrites the record with the slug.
func (m *MemStore) UpsertBySlug(_ context.Context, slug string, f Fields) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++

	now := m.now().UTC()
	rec, ok := m.bySlug[slug]
	if !ok {
		m.nextID++
		rec = &Record{ID: m.nextID, Slug: slug, CreatedAt: now}
		m.bySlug[slug] = rec
	}
	rec.Title = f.Title
	rec.Content = f.Content
	rec.Status = f.Status
	rec.UpdatedAt = now

	out := *rec
	return &out, nil
}

// Get returns a copy of the record with the slug.
func (m *MemStore) Get(_ context.Context, slug string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.bySlug[slug]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

// List returns copies of the stored records, most recently updated first.
func (m *MemStore) List(_ context.Context, opts ListOptions) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.bySlug))
	for _, rec := range m.bySlug {
		if opts.Status != "" && rec.Status != opts.Status {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Upserts returns how many upserts were performed.
func (m *MemStore) Upserts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upserts
}

// Close is a no-op.
func (m *MemStore) Close() error { return nil }
