package metrics

import "time"

// FileResult enumerates per-file outcomes.
type FileResult string

const (
	FileSynced  FileResult = "synced"
	FileSkipped FileResult = "skipped"
	FileFailed  FileResult = "failed"
	FileIgnored FileResult = "ignored"
)

// RunOutcome enumerates final run states.
type RunOutcome string

const (
	RunSuccess     RunOutcome = "success"
	RunNothingToDo RunOutcome = "nothing_to_do"
	RunPartial     RunOutcome = "partial"
	RunFailed      RunOutcome = "failed"
)

// Recorder defines observability hooks for sync runs.
type Recorder interface {
	IncFileResult(result FileResult)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome RunOutcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileResult(FileResult)         {}
func (NoopRecorder) ObserveRunDuration(time.Duration) {}
func (NoopRecorder) IncRunOutcome(RunOutcome)         {}
