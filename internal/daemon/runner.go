package daemon

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/postsync/internal/logfields"
)

// Trigger sources.
const (
	TriggerStartup  = "startup"
	TriggerFSNotify = "fsnotify"
	TriggerInterval = "interval"
	TriggerFollowUp = "follow_up"
)

// RunFunc performs one full sync.
type RunFunc func(ctx context.Context, trigger string) error

// Runner serializes sync runs. A trigger that arrives while a run is in
// progress schedules exactly one follow-up run, no matter how many arrive.
type Runner struct {
	run RunFunc

	mu      sync.Mutex
	running bool
	pending bool
	stopped bool
	wg      sync.WaitGroup
}

// NewRunner wraps run.
func NewRunner(run RunFunc) *Runner {
	return &Runner{run: run}
}

// Trigger starts a run in the background, or marks a follow-up as pending
// when one is already running. It reports whether a new run was started.
// Triggers after Stop are dropped.
func (r *Runner) Trigger(ctx context.Context, trigger string) bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		slog.Debug("Runner stopped, trigger dropped", logfields.Trigger(trigger))
		return false
	}
	if r.running {
		if !r.pending {
			slog.Debug("Sync running, follow-up scheduled", logfields.Trigger(trigger))
		}
		r.pending = true
		r.mu.Unlock()
		return false
	}
	r.running = true
	r.wg.Add(1)
	r.mu.Unlock()

	go r.loop(ctx, trigger)
	return true
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait blocks until no run is in progress.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Stop rejects further triggers and waits for the current run, including a
// pending follow-up, to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, trigger string) {
	defer r.wg.Done()
	for {
		if ctx.Err() == nil {
			if err := r.run(ctx, trigger); err != nil {
				slog.Error("Sync run failed", logfields.Trigger(trigger), logfields.Error(err))
			}
		}

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.pending = false
			r.running = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
		trigger = TriggerFollowUp
	}
}
