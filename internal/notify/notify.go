// Package notify publishes "post synced" events to downstream consumers.
package notify

import (
	"context"
	"time"
)

// Event describes one post that was written to the destination and upserted.
type Event struct {
	RunID       string    `json:"run_id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Destination string    `json:"destination"`
	Source      string    `json:"source"`
	SyncedAt    time.Time `json:"synced_at"`
}

// Notifier announces synced posts.
type Notifier interface {
	PostSynced(ctx context.Context, ev Event) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

func (Noop) PostSynced(context.Context, Event) error { return nil }
func (Noop) Close() error                            { return nil }
