// Package daemon implements watch mode: sync on startup, on debounced
// changes in the source directory, and on a fixed interval.
package daemon

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/postsync/internal/logfields"
)

// Options configure a Watcher.
type Options struct {
	SourceDir string
	// Interval between scheduled runs; zero disables the schedule.
	Interval time.Duration
	// Debounce is the quiet window after the last file event.
	Debounce time.Duration
	// MetricsListen, when set, serves MetricsHandler at /metrics.
	MetricsListen  string
	MetricsHandler http.Handler
}

// Watcher drives a Runner from filesystem events and a schedule.
type Watcher struct {
	opts   Options
	runner *Runner

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewWatcher returns a Watcher that runs run.
func NewWatcher(opts Options, run RunFunc) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 2 * time.Second
	}
	return &Watcher{opts: opts, runner: NewRunner(run)}
}

// Run blocks until ctx is canceled. It returns an error only when watching
// could not be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	if err := fw.Add(w.opts.SourceDir); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", w.opts.SourceDir, err)
	}

	sched, err := w.startScheduler(ctx)
	if err != nil {
		return err
	}

	srv := w.startMetricsServer()
	defer func() {
		if srv == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Watching source directory",
		logfields.Source(w.opts.SourceDir),
		slog.Duration("interval", w.opts.Interval),
		slog.Duration("debounce", w.opts.Debounce))

	w.runner.Trigger(ctx, TriggerStartup)
	w.loop(ctx, fw)
	w.stop(sched)
	slog.Info("Watcher stopped")
	return nil
}

// stop silences every trigger source before waiting for the runner, so no
// run can start once shutdown begins.
func (w *Watcher) stop(sched gocron.Scheduler) {
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			slog.Warn("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.stopped = true
	w.mu.Unlock()
	w.runner.Stop()
}

func (w *Watcher) startScheduler(ctx context.Context) (gocron.Scheduler, error) {
	if w.opts.Interval <= 0 {
		return nil, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() { w.runner.Trigger(ctx, TriggerInterval) }),
		gocron.WithName("postsync-interval"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create interval job: %w", err)
	}
	s.Start()
	return s, nil
}

func (w *Watcher) startMetricsServer() *http.Server {
	if w.opts.MetricsListen == "" || w.opts.MetricsHandler == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", w.opts.MetricsHandler)
	srv := &http.Server{Addr: w.opts.MetricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", w.opts.MetricsListen, logfields.Error(err))
		}
	}()
	slog.Info("Serving metrics", "addr", w.opts.MetricsListen)
	return srv
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("Source change detected", logfields.File(filepath.Base(ev.Name)), "op", ev.Op.String())
			w.debounce(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

// relevant keeps creates, writes and renames of Markdown files. Removes are
// ignored since every successful sync deletes its source files.
func relevant(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".md" {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) debounce(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		w.runner.Trigger(ctx, TriggerFSNotify)
	})
}
