package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	RunID string `name:"run" help:"Show every event of one run"`
	Limit int    `help:"Maximum number of events to show" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	ctx := context.Background()
	var events []journal.Event
	if h.RunID != "" {
		events, err = j.ByRun(ctx, h.RunID)
	} else {
		events, err = j.Recent(ctx, h.Limit)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryJournal, "failed to read journal").Build()
	}
	if len(events) == 0 && h.RunID != "" {
		return errors.NotFoundError("no journal events for run").WithContext("run_id", h.RunID).Build()
	}
	return printEvents(g.out(), events)
}

func printEvents(w io.Writer, events []journal.Event) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tRUN\tEVENT\tDETAIL")
	for _, e := range events {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.RunID, e.Type, describe(e))
	}
	return tw.Flush()
}

func describe(e journal.Event) string {
	switch e.Type {
	case journal.TypeRunStarted, journal.TypeRunCompleted:
		var p journal.RunPayload
		if err := e.Decode(&p); err != nil {
			return ""
		}
		if e.Type == journal.TypeRunStarted {
			return fmt.Sprintf("%s -> %s", p.Source, p.Destination)
		}
		return fmt.Sprintf("%d synced, %d skipped, %d failed in %dms", p.Synced, p.Skipped, p.Failed, p.DurationMS)
	default:
		var p journal.FilePayload
		if err := e.Decode(&p); err != nil {
			return ""
		}
		switch {
		case p.Error != "":
			return fmt.Sprintf("%s: %s", p.File, p.Error)
		case p.Reason != "":
			return fmt.Sprintf("%s (%s)", p.File, p.Reason)
		default:
			return fmt.Sprintf("%s -> %s", p.File, p.Slug)
		}
	}
}
