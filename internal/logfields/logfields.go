package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyFile        = "file"
	KeySlug        = "slug"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyStatus      = "status"
	KeyReason      = "reason"
	KeyTrigger     = "trigger"
	KeyCount       = "count"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func File(name string) slog.Attr       { return slog.String(KeyFile, name) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr   { return slog.String(KeyDestination, p) }
func Status(s string) slog.Attr        { return slog.String(KeyStatus, s) }
func Reason(r string) slog.Attr        { return slog.String(KeyReason, r) }
func Trigger(t string) slog.Attr       { return slog.String(KeyTrigger, t) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
