package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/postsync/internal/logfields"
	"git.home.luguber.info/inful/postsync/internal/syncer"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	Source          string `help:"Source folder of Markdown notes (overrides source_dir)" type:"path"`
	Dest            string `help:"Destination content folder (overrides dest_dir)" type:"path"`
	DryRun          bool   `name:"dry-run" help:"Show what would be synced without changing anything"`
	ContinueOnError bool   `name:"continue-on-error" help:"Keep processing remaining files after a failure"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if err := overrideDirs(cfg, s.Source, s.Dest); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := openApp(ctx, cfg, cfg.Metrics.Textfile != "")
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.newSyncer(syncFlags{dryRun: s.DryRun, continueOnError: s.ContinueOnError}).
		Sync(ctx, cfg.SourceDir, cfg.DestDir)

	if a.recorder != nil {
		if werr := a.recorder.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Error(werr))
		}
	}
	if report != nil {
		printReport(g.out(), report)
	}
	return err
}

func printReport(w io.Writer, r *syncer.Report) {
	if r.NothingToDo {
		_, _ = fmt.Fprintln(w, "No files found in source folder.")
		return
	}
	prefix := ""
	if r.DryRun {
		prefix = "Dry run: "
	}
	for _, f := range r.Files {
		switch f.Outcome {
		case syncer.OutcomeSynced:
			_, _ = fmt.Fprintf(w, "  synced   %s -> %s\n", f.File, f.Destination)
		case syncer.OutcomeSkipped:
			_, _ = fmt.Fprintf(w, "  skipped  %s (%s)\n", f.File, f.Reason)
		case syncer.OutcomeFailed:
			_, _ = fmt.Fprintf(w, "  failed   %s: %v\n", f.File, f.Err)
		}
	}
	_, _ = fmt.Fprintf(w, "%s%d synced, %d skipped, %d failed, %d ignored\n",
		prefix, r.Synced(), r.Skipped(), r.Failed(), r.Ignored)
}
