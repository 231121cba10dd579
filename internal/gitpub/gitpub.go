// Package gitpub commits files written to the destination directory into the
// git repository that contains it.
package gitpub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultMessage is the commit message used when none is configured.
const DefaultMessage = "postsync: publish synced posts"

// Committer stages and commits destination files.
type Committer struct {
	AuthorName  string
	AuthorEmail string
	Message     string

	now func() time.Time
}

// NewCommitter returns a Committer with the given author.
func NewCommitter(name, email, message string) *Committer {
	if message == "" {
		message = DefaultMessage
	}
	return &Committer{AuthorName: name, AuthorEmail: email, Message: message, now: time.Now}
}

// Commit stages paths (absolute or relative to destDir) and records a commit.
// It returns the new commit hash, or "" when there was nothing to commit.
func (c *Committer) Commit(ctx context.Context, destDir string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	repo, err := git.PlainOpenWithOptions(destDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository for %s: %w", destDir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	root, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(destDir, p)
		}
		abs, err := resolve(p)
		if err != nil {
			return "", err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("path %s is outside repository %s", p, root)
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return "", fmt.Errorf("stage %s: %w", rel, err)
		}
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	hash, err := wt.Commit(c.message(), &git.CommitOptions{
		Author: &object.Signature{Name: c.AuthorName, Email: c.AuthorEmail, When: now()},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		slog.Debug("No changes to commit", "repo", root)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	slog.Info("Committed synced posts", "repo", root, "commit", hash.String(), "files", len(paths))
	return hash.String(), nil
}

func (c *Committer) message() string {
	if c.Message == "" {
		return DefaultMessage
	}
	return c.Message
}

// resolve makes p absolute with symlinks evaluated so paths compare against
// the worktree root reliably. A missing leaf is tolerated.
func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	dir, base := filepath.Split(abs)
	r, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return abs, nil
	}
	return filepath.Join(r, base), nil
}
