// Package syncer moves Markdown notes with YAML front matter from a source
// folder into a static-site content folder and records each one as a
// published post keyed by slug.
package syncer

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
	"git.home.luguber.info/inful/postsync/internal/frontmatter"
	"git.home.luguber.info/inful/postsync/internal/journal"
	"git.home.luguber.info/inful/postsync/internal/logfields"
	"git.home.luguber.info/inful/postsync/internal/metrics"
	"git.home.luguber.info/inful/postsync/internal/notefs"
	"git.home.luguber.info/inful/postsync/internal/notify"
	"git.home.luguber.info/inful/postsync/internal/records"
	"git.home.luguber.info/inful/postsync/internal/slug"
)

// DefaultStatus is stored when a note has no status.
const DefaultStatus = "draft"

const noteExt = ".md"

// Committer publishes the destination files written by a run.
type Committer interface {
	Commit(ctx context.Context, destDir string, paths []string) (string, error)
}

// Options configure a Syncer. Zero values give the reference behavior:
// abort on the first failure, status "draft", no journal, notifier or
// metrics.
type Options struct {
	ContinueOnError bool
	DefaultStatus   string
	DryRun          bool

	Recorder  metrics.Recorder
	Journal   journal.Journal
	Notifier  notify.Notifier
	Committer Committer
	Logger    *slog.Logger

	// Now and NewRunID are overridable for tests.
	Now      func() time.Time
	NewRunID func() string
}

// Syncer runs front matter syncs.
type Syncer struct {
	fs   notefs.FS
	repo records.Repository
	opts Options
	log  *slog.Logger
}

// New returns a Syncer using fsys for file access and repo for records.
func New(fsys notefs.FS, repo records.Repository, opts Options) *Syncer {
	if opts.DefaultStatus == "" {
		opts.DefaultStatus = DefaultStatus
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return uuid.NewString() }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{fs: fsys, repo: repo, opts: opts, log: logger}
}

// Sync processes every Markdown file directly inside sourceDir.
//
// Files with a usable title are copied byte-for-byte to <destDir>/<slug>.md,
// upserted as records with the front matter stripped, and then deleted from
// sourceDir. Files without a title stay where they are. The returned report
// is non-nil whenever the directories could be checked.
func (s *Syncer) Sync(ctx context.Context, sourceDir, destDir string) (*Report, error) {
	if err := s.CheckDirs(sourceDir, destDir); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     s.opts.NewRunID(),
		SourceDir: sourceDir,
		DestDir:   destDir,
		StartedAt: s.opts.Now(),
		DryRun:    s.opts.DryRun,
	}
	log := s.log.With(logfields.RunID(report.RunID))

	entries, err := s.fs.List(sourceDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to list source directory").
			Fatal().
			WithContext("path", sourceDir).
			Build()
	}

	var files []notefs.Entry
	for _, e := range entries {
		if e.Regular {
			files = append(files, e)
		}
	}
	if len(files) == 0 {
		log.Info("No files found in source folder", logfields.Source(sourceDir))
		report.NothingToDo = true
		s.finish(ctx, log, report)
		return report, nil
	}

	log.Info("Sync started",
		logfields.Source(sourceDir),
		logfields.Destination(destDir),
		logfields.Count(len(files)),
		slog.Bool("dry_run", s.opts.DryRun))
	s.record(ctx, log, report.RunID, journal.TypeRunStarted, journal.RunPayload{
		Source: sourceDir, Destination: destDir, DryRun: s.opts.DryRun,
	})

	seen := make(map[string]string)
	var failures []error
	for _, e := range files {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			log.Warn("Sync interrupted", logfields.Error(err))
			s.finish(ctx, log, report)
			return report, err
		}
		if filepath.Ext(e.Name) != noteExt {
			report.Ignored++
			s.opts.Recorder.IncFileResult(metrics.FileIgnored)
			log.Debug("Ignoring non-Markdown file", logfields.File(e.Name))
			continue
		}

		log.Info("Processing", logfields.File(e.Name))
		res := s.syncFile(ctx, log, e, report.RunID, destDir, seen)
		report.Files = append(report.Files, res)
		s.recordFile(ctx, log, report.RunID, res)

		if res.Outcome != OutcomeFailed {
			continue
		}
		if !s.opts.ContinueOnError {
			log.Error("Sync aborted", logfields.File(res.File), logfields.Error(res.Err))
			report.Aborted = true
			s.finish(ctx, log, report)
			return report, res.Err
		}
		log.Error("File failed, continuing", logfields.File(res.File), logfields.Error(res.Err))
		failures = append(failures, res.Err)
	}

	if err := s.commit(ctx, log, report); err != nil {
		failures = append(failures, err)
	}
	s.finish(ctx, log, report)
	return report, stderrors.Join(failures...)
}

// CheckDirs verifies that both directories exist and are distinct.
func (s *Syncer) CheckDirs(sourceDir, destDir string) error {
	if filepath.Clean(sourceDir) == filepath.Clean(destDir) {
		return errors.ValidationError("destination directory must differ from source directory").
			WithContext("path", sourceDir).
			Build()
	}
	if err := s.checkDir("source", sourceDir); err != nil {
		return err
	}
	return s.checkDir("destination", destDir)
}

func (s *Syncer) checkDir(role, dir string) error {
	ok, err := s.fs.IsDir(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat "+role+" directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}
	if !ok {
		return errors.DirectoryNotFound(role, dir)
	}
	return nil
}

func (s *Syncer) syncFile(ctx context.Context, log *slog.Logger, e notefs.Entry, runID, destDir string, seen map[string]string) FileResult {
	res := FileResult{File: e.Name, Source: e.Path}

	content, err := s.fs.ReadFile(e.Path)
	if err != nil {
		return failed(res, errors.WrapError(err, errors.CategoryFileSystem, "failed to read source file"))
	}

	meta, err := frontmatter.Parse(content)
	if err != nil {
		log.Warn("front matter could not be parsed", logfields.File(e.Name), logfields.Error(err))
		meta = frontmatter.Metadata{}
	}

	title, ok := meta.Title()
	if !ok {
		log.Warn("File is missing a title. Skipping.", logfields.File(e.Name), logfields.Reason(ReasonMissingTitle))
		return skipped(res, ReasonMissingTitle)
	}
	res.Title = title

	res.Slug = slug.Make(title)
	if res.Slug == "" {
		log.Warn("File title has no usable characters for a slug. Skipping.",
			logfields.File(e.Name), slog.String("title", title), logfields.Reason(ReasonEmptySlug))
		return skipped(res, ReasonEmptySlug)
	}
	if prev, dup := seen[res.Slug]; dup {
		log.Warn("Slug already synced in this run, overwriting",
			logfields.File(e.Name), logfields.Slug(res.Slug), slog.String("previous", prev))
	}
	seen[res.Slug] = e.Name

	res.Status = meta.Status(s.opts.DefaultStatus)
	res.Destination = filepath.Join(destDir, res.Slug+noteExt)
	body := frontmatter.Strip(content)

	if s.opts.DryRun {
		log.Info("Would move",
			logfields.File(e.Name), logfields.Destination(res.Destination),
			logfields.Slug(res.Slug), logfields.Status(res.Status))
		res.Outcome = OutcomeSynced
		return res
	}

	if err := s.fs.WriteFile(res.Destination, content); err != nil {
		return failed(res, errors.WrapError(err, errors.CategoryFileSystem, "failed to write destination file").
			WithContext("destination", res.Destination))
	}
	if _, err := s.repo.UpsertBySlug(ctx, res.Slug, records.Fields{
		Title:   title,
		Content: string(body),
		Status:  res.Status,
	}); err != nil {
		return failed(res, errors.WrapError(err, errors.CategoryStore, "failed to upsert record").Retryable())
	}
	if err := s.fs.Remove(e.Path); err != nil {
		return failed(res, errors.WrapError(err, errors.CategoryFileSystem, "failed to delete source file"))
	}

	res.Outcome = OutcomeSynced
	if fm, fmBody, _, _, err := frontmatter.Split(content); err == nil {
		res.Fingerprint = journal.Fingerprint(fm, fmBody)
	}
	log.Info("Moved to destination",
		logfields.File(e.Name), logfields.Destination(res.Destination),
		logfields.Slug(res.Slug), logfields.Status(res.Status))

	s.notify(ctx, log, runID, res)
	return res
}

func skipped(res FileResult, reason string) FileResult {
	res.Outcome = OutcomeSkipped
	res.Reason = reason
	return res
}

func failed(res FileResult, b *errors.ErrorBuilder) FileResult {
	b = b.Fatal().WithContext("file", res.File)
	if res.Slug != "" {
		b = b.WithContext("slug", res.Slug)
	}
	res.Outcome = OutcomeFailed
	res.Err = b.Build()
	return res
}

func (s *Syncer) notify(ctx context.Context, log *slog.Logger, runID string, res FileResult) {
	if s.opts.Notifier == nil {
		return
	}
	err := s.opts.Notifier.PostSynced(ctx, notify.Event{
		RunID:       runID,
		Slug:        res.Slug,
		Title:       res.Title,
		Status:      res.Status,
		Destination: res.Destination,
		Source:      res.File,
		SyncedAt:    s.opts.Now().UTC(),
	})
	if err != nil {
		werr := errors.WrapError(err, errors.CategoryNotify, "failed to publish post event").
			Warning().
			WithContext("slug", res.Slug).
			Build()
		log.Warn("Post notification failed", logfields.Slug(res.Slug), logfields.Error(werr))
	}
}

func (s *Syncer) commit(ctx context.Context, log *slog.Logger, report *Report) error {
	if s.opts.Committer == nil || s.opts.DryRun {
		return nil
	}
	paths := report.Destinations()
	if len(paths) == 0 {
		return nil
	}
	hash, err := s.opts.Committer.Commit(ctx, report.DestDir, paths)
	if err != nil {
		return errors.WrapError(err, errors.CategoryGit, "failed to commit synced posts").
			WithContext("path", report.DestDir).
			Build()
	}
	if hash != "" {
		log.Debug("Destination committed", slog.String("commit", hash))
	}
	return nil
}

func (s *Syncer) recordFile(ctx context.Context, log *slog.Logger, runID string, res FileResult) {
	switch res.Outcome {
	case OutcomeSynced:
		s.opts.Recorder.IncFileResult(metrics.FileSynced)
	case OutcomeSkipped:
		s.opts.Recorder.IncFileResult(metrics.FileSkipped)
	case OutcomeFailed:
		s.opts.Recorder.IncFileResult(metrics.FileFailed)
	}

	if s.opts.Journal == nil || s.opts.DryRun {
		return
	}
	payload := journal.FilePayload{
		File:        res.File,
		Slug:        res.Slug,
		Destination: res.Destination,
		Status:      res.Status,
		Reason:      res.Reason,
	}
	eventType := journal.TypeFileSynced
	switch res.Outcome {
	case OutcomeSkipped:
		eventType = journal.TypeFileSkipped
	case OutcomeFailed:
		eventType = journal.TypeFileFailed
		payload.Error = res.Err.Error()
	case OutcomeSynced:
		payload.Fingerprint = res.Fingerprint
	}
	s.record(ctx, log, runID, eventType, payload)
}

// record appends a journal event. Journal failures never fail the run.
func (s *Syncer) record(ctx context.Context, log *slog.Logger, runID, eventType string, payload any) {
	if s.opts.Journal == nil || s.opts.DryRun {
		return
	}
	ev, err := journal.NewEvent(runID, eventType, payload)
	if err == nil {
		err = s.opts.Journal.Append(ctx, ev)
	}
	if err != nil {
		werr := errors.WrapError(err, errors.CategoryJournal, "failed to append journal event").
			Warning().
			WithContext("type", eventType).
			Build()
		log.Warn("Failed to append journal event", slog.String("type", eventType), logfields.Error(werr))
	}
}

func (s *Syncer) finish(ctx context.Context, log *slog.Logger, report *Report) {
	report.FinishedAt = s.opts.Now()
	s.opts.Recorder.ObserveRunDuration(report.Duration())
	s.opts.Recorder.IncRunOutcome(report.RunOutcome())

	if report.NothingToDo {
		return
	}
	s.record(ctx, log, report.RunID, journal.TypeRunCompleted, journal.RunPayload{
		Source:      report.SourceDir,
		Destination: report.DestDir,
		Synced:      report.Synced(),
		Skipped:     report.Skipped(),
		Failed:      report.Failed(),
		DurationMS:  report.Duration().Milliseconds(),
	})

	attrs := []any{
		logfields.Count(report.Synced()),
		slog.Int("skipped", report.Skipped()),
		slog.Int("failed", report.Failed()),
		slog.Int("ignored", report.Ignored),
		logfields.DurationMS(float64(report.Duration().Microseconds()) / 1000),
	}
	if report.Aborted {
		log.Warn("Sync stopped before all files were processed", attrs...)
		return
	}
	if report.Failed() == 0 {
		log.Info("Sync completed successfully!", attrs...)
		return
	}
	log.Warn("Sync completed with failures", attrs...)
}
