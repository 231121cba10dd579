package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/markdown"
	"git.home.luguber.info/inful/postsync/internal/records"
)

// RecordsCmd groups record inspection subcommands.
type RecordsCmd struct {
	List RecordsListCmd `cmd:"" help:"List published posts, most recently updated first"`
	Show RecordsShowCmd `cmd:"" help:"Show one post by slug"`
}

// RecordsListCmd implements 'records list'.
type RecordsListCmd struct {
	Status string `help:"Only show posts with this status"`
	Limit  int    `help:"Maximum number of posts to show" default:"50"`
}

func (l *RecordsListCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	recs, err := repo.List(ctx, records.ListOptions{Status: l.Status, Limit: l.Limit})
	if err != nil {
		return errors.WrapError(err, errors.CategoryStore, "failed to list records").Build()
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SLUG\tSTATUS\tUPDATED\tTITLE")
	for _, r := range recs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Slug, r.Status, r.UpdatedAt.Local().Format(time.DateTime), r.Title)
	}
	return tw.Flush()
}

// RecordsShowCmd implements 'records show'.
type RecordsShowCmd struct {
	Slug string `arg:"" help:"Post slug"`
	HTML bool   `name:"html" help:"Render the body as HTML"`
}

func (s *RecordsShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx := context.Background()
	repo, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	rec, err := repo.Get(ctx, s.Slug)
	if stderrors.Is(err, records.ErrNotFound) {
		return errors.NotFoundError("record not found").WithContext("slug", s.Slug).Build()
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryStore, "failed to load record").WithContext("slug", s.Slug).Build()
	}

	body := []byte(rec.Content)
	if s.HTML {
		if body, err = markdown.RenderHTML(body); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to render record").Build()
		}
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Title:   %s\n", rec.Title)
	_, _ = fmt.Fprintf(out, "Slug:    %s\n", rec.Slug)
	_, _ = fmt.Fprintf(out, "Status:  %s\n", rec.Status)
	_, _ = fmt.Fprintf(out, "Created: %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(out, "Updated: %s\n\n", rec.UpdatedAt.Local().Format(time.DateTime))
	_, _ = out.Write(body)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, _ = fmt.Fprintln(out)
	}
	return nil
}
