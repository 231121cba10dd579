package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/postsync/internal/daemon"
	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/logfields"
	"git.home.luguber.info/inful/postsync/internal/metrics"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source string `help:"Source folder of Markdown notes (overrides source_dir)" type:"path"`
	Dest   string `help:"Destination content folder (overrides dest_dir)" type:"path"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if err := overrideDirs(cfg, w.Source, w.Dest); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(ctx, cfg, cfg.Metrics.Listen != "")
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.newSyncer(syncFlags{})
	if err := s.CheckDirs(cfg.SourceDir, cfg.DestDir); err != nil {
		return err
	}
	run := func(ctx context.Context, trigger string) error {
		slog.Info("Sync triggered", logfields.Trigger(trigger))
		report, err := s.Sync(ctx, cfg.SourceDir, cfg.DestDir)
		if report != nil && !report.NothingToDo {
			printReport(g.out(), report)
		}
		return err
	}

	var handler http.Handler
	if a.recorder != nil {
		handler = metrics.HTTPHandler(a.recorder.Registry())
	}
	watcher := daemon.NewWatcher(daemon.Options{
		SourceDir:      cfg.SourceDir,
		Interval:       cfg.Watch.Interval,
		Debounce:       cfg.Watch.Debounce,
		MetricsListen:  cfg.Metrics.Listen,
		MetricsHandler: handler,
	}, run)
	if err := watcher.Run(ctx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "watch mode failed").Fatal().Build()
	}
	return nil
}
