// Package journal keeps an append-only history of sync runs.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inful/mdfp"
)

// Event types written by a sync run.
const (
	TypeRunStarted   = "run_started"
	TypeFileSynced   = "file_synced"
	TypeFileSkipped  = "file_skipped"
	TypeFileFailed   = "file_failed"
	TypeRunCompleted = "run_completed"
)

// Event is one journal entry.
type Event struct {
	ID        int64           `json:"id"`
	RunID     string          `json:"run_id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// FilePayload describes the outcome for one source file.
type FilePayload struct {
	File        string `json:"file"`
	Slug        string `json:"slug,omitempty"`
	Destination string `json:"destination,omitempty"`
	Status      string `json:"status,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// RunPayload summarizes a run.
type RunPayload struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Synced      int    `json:"synced"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	DryRun      bool   `json:"dry_run,omitempty"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
}

// NewEvent marshals payload into an event for runID.
func NewEvent(runID, eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{RunID: runID, Type: eventType, Timestamp: time.Now().UTC(), Payload: raw}, nil
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Journal stores and retrieves sync events.
type Journal interface {
	// Append adds an event.
	Append(ctx context.Context, e Event) error

	// ByRun returns all events of one run in insertion order.
	ByRun(ctx context.Context, runID string) ([]Event, error)

	// Recent returns the newest events first.
	Recent(ctx context.Context, limit int) ([]Event, error)

	// Close releases resources.
	Close() error
}

// Fingerprint is the content fingerprint recorded for a synced file, computed
// over the raw frontmatter and the stripped body.
func Fingerprint(frontmatter, body []byte) string {
	return mdfp.CalculateFingerprintFromParts(string(frontmatter), string(body))
}
