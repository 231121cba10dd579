package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postsync/internal/config"
	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/logging"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Stdout io.Writer

	logCloser io.Closer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// Close releases the configured log file, if any.
func (g *Global) Close() {
	if g != nil && g.logCloser != nil {
		_ = g.logCloser.Close()
		g.logCloser = nil
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"postsync.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync    SyncCmd    `cmd:"" help:"Move titled notes into the content folder and upsert them as posts"`
	Watch   WatchCmd   `cmd:"" help:"Sync on startup, on source changes and on an interval"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Records RecordsCmd `cmd:"" help:"Inspect published post records"`
	History HistoryCmd `cmd:"" help:"Show the sync journal"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig reads the config file and switches the default logger to the
// configured handler.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	logger, closer := logging.New(cfg.Logging, root.Verbose)
	g.Close()
	g.logCloser = closer
	slog.SetDefault(logger)
	return cfg, nil
}

// overrideDirs applies --source/--dest and validates the result again.
func overrideDirs(cfg *config.Config, source, dest string) error {
	if source == "" && dest == "" {
		return nil
	}
	if source != "" {
		cfg.SourceDir = source
	}
	if dest != "" {
		cfg.DestDir = dest
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid directory override").
			Fatal().
			UserAction().
			WithContext("source", cfg.SourceDir).
			WithContext("destination", cfg.DestDir).
			Build()
	}
	return nil
}
