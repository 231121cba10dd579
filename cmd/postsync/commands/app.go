package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/postsync/internal/config"
	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/gitpub"
	"git.home.luguber.info/inful/postsync/internal/journal"
	"git.home.luguber.info/inful/postsync/internal/logfields"
	"git.home.luguber.info/inful/postsync/internal/metrics"
	"git.home.luguber.info/inful/postsync/internal/notefs"
	"git.home.luguber.info/inful/postsync/internal/notify"
	"git.home.luguber.info/inful/postsync/internal/records"
	"git.home.luguber.info/inful/postsync/internal/syncer"
)

// app holds the collaborators of a sync run built from configuration.
type app struct {
	cfg      *config.Config
	repo     records.Repository
	journal  journal.Journal
	notifier notify.Notifier
	recorder *metrics.PrometheusRecorder
}

func openStore(ctx context.Context, cfg config.StoreConfig) (records.Repository, error) {
	repo, err := records.Open(ctx, records.Dialect(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "failed to open record store").
			Fatal().
			WithContext("driver", string(cfg.Driver)).
			Build()
	}
	return repo, nil
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	if !cfg.Enabled {
		return nil, errors.ConfigError("journal is disabled").Build()
	}
	j, err := journal.NewSQLiteJournal(cfg.Path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to open journal").
			WithContext("path", cfg.Path).
			Build()
	}
	return j, nil
}

// openApp wires the store plus the optional journal, notifier and metrics.
// Optional collaborators that fail to open are logged and left out.
func openApp(ctx context.Context, cfg *config.Config, withMetrics bool) (*app, error) {
	repo, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, repo: repo}

	if cfg.Journal.Enabled {
		if j, err := openJournal(cfg.Journal); err != nil {
			slog.Warn("Continuing without sync journal", logfields.Error(err))
		} else {
			a.journal = j
		}
	}
	if cfg.Notify.NATSURL != "" {
		if n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject); err != nil {
			slog.Warn("Continuing without notifications",
				logfields.Error(errors.WrapError(err, errors.CategoryNotify, "failed to connect notifier").Warning().Build()))
		} else {
			a.notifier = n
		}
	}
	if withMetrics {
		a.recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
	}
	return a, nil
}

type syncFlags struct {
	dryRun          bool
	continueOnError bool
}

func (a *app) newSyncer(flags syncFlags) *syncer.Syncer {
	opts := syncer.Options{
		ContinueOnError: a.cfg.Sync.ContinueOnError || flags.continueOnError,
		DefaultStatus:   a.cfg.Sync.DefaultStatus,
		DryRun:          flags.dryRun,
		Logger:          slog.Default(),
	}
	if a.journal != nil {
		opts.Journal = a.journal
	}
	if a.notifier != nil {
		opts.Notifier = a.notifier
	}
	if a.recorder != nil {
		opts.Recorder = a.recorder
	}
	if a.cfg.Git.Commit {
		opts.Committer = gitpub.NewCommitter(a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail, a.cfg.Git.Message)
	}
	return syncer.New(notefs.NewOS(), a.repo, opts)
}

func (a *app) Close() {
	if a.notifier != nil {
		_ = a.notifier.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			slog.Warn("Failed to close journal", logfields.Error(err))
		}
	}
	if err := a.repo.Close(); err != nil {
		slog.Warn("Failed to close record store", logfields.Error(err))
	}
}
