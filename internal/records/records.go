// Package records persists published posts keyed by slug.
package records

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record has the requested slug.
var ErrNotFound = errors.New("record not found")

// Record is a published post. Slug is the unique key.
type Record struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields are the values written by an upsert.
type Fields struct {
	Title   string
	Content string
	Status  string
}

// ListOptions filters List results.
type ListOptions struct {
	// Status keeps only records with this status when non-empty.
	Status string
	// Limit caps the number of records when positive.
	Limit int
}

// Repository is the record store boundary of a sync run.
type Repository interface {
	// UpsertBySlug overwrites title, content and status of the record with
	// the slug, creating it when missing, and returns the stored record.
	UpsertBySlug(ctx context.Context, slug string, f Fields) (*Record, error)

	// Get returns the record with the slug or ErrNotFound.
	Get(ctx context.Context, slug string) (*Record, error)

	// List returns records ordered by most recently updated first.
	List(ctx context.Context, opts ListOptions) ([]Record, error)

	// Close releases resources held by the repository.
	Close() error
}
