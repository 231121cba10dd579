package syncer

import (
	"time"

	"git.home.luguber.info/inful/postsync/internal/metrics"
)

// Outcome is the result of processing one source file.
type Outcome string

const (
	OutcomeSynced  Outcome = "synced"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Skip reasons.
const (
	ReasonMissingTitle = "missing_title"
	ReasonEmptySlug    = "empty_slug"
)

// FileResult records what happened to one source file.
type FileResult struct {
	File        string
	Source      string
	Outcome     Outcome
	Slug        string
	Title       string
	Status      string
	Destination string
	Reason      string
	Fingerprint string
	Err         error
}

// Report summarizes a sync run.
type Report struct {
	RunID      string
	SourceDir  string
	DestDir    string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool

	Files   []FileResult
	Ignored int

	// NothingToDo is set when the source directory held no regular files.
	NothingToDo bool
	// Aborted is set when the run stopped before every file was processed.
	Aborted bool
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Synced returns the number of files moved and recorded.
func (r *Report) Synced() int { return r.count(OutcomeSynced) }

// Skipped returns the number of files left in place.
func (r *Report) Skipped() int { return r.count(OutcomeSkipped) }

// Failed returns the number of files whose processing hit an error.
func (r *Report) Failed() int { return r.count(OutcomeFailed) }

// Destinations lists the destination paths written during the run.
func (r *Report) Destinations() []string {
	var out []string
	for _, f := range r.Files {
		if f.Outcome == OutcomeSynced && f.Destination != "" {
			out = append(out, f.Destination)
		}
	}
	return out
}

// RunOutcome classifies the run for metrics.
func (r *Report) RunOutcome() metrics.RunOutcome {
	switch {
	case r.NothingToDo:
		return metrics.RunNothingToDo
	case r.Failed() == 0:
		return metrics.RunSuccess
	case r.Synced() > 0:
		return metrics.RunPartial
	default:
		return metrics.RunFailed
	}
}
