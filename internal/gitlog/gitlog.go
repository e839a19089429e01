// Package gitlog reads commit history, tags, and worktree state from a git
// repository using go-git, so no git CLI installation is required. It is the
// history source for changelog generation.
//
// All read failures degrade rather than fail: a missing repository or empty
// history yields empty results, matching the service's soft-failure policy.
package gitlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for gitlog operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// DefaultLogTimeout bounds a single history read. Reading the log is a
// bounded synchronous step; the timeout is a defensive limit, and hitting it
// surfaces as a degraded (partial or empty) result, not an error.
const DefaultLogTimeout = 30 * time.Second

// shortHashLen is the length of the abbreviated commit hash.
const shortHashLen = 7

// Commit is one history entry, as consumed by the changelog builder.
type Commit struct {
	Hash    string // short hash
	Subject string
	Author  string
	Time    time.Time
}

// Tag is a release tag with the commit time it points at.
type Tag struct {
	Name string
	Hash string // short hash of the tagged commit
	Time time.Time
}

// HeadInfo describes the current state of the worktree.
type HeadInfo struct {
	Branch string
	Commit string // short hash
	Time   time.Time
	Dirty  bool
}

// Reader reads history from a single repository path. The zero value is not
// usable; construct with NewReader. Readers are safe for concurrent use since
// every operation opens the repository fresh.
type Reader struct {
	path string
}

// NewReader returns a Reader for the repository at path. An empty path means
// the current working directory. The repository is located lazily; a missing
// repository is reported by Available and degrades reads to empty results.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// open opens the repository, traversing up the directory tree to find the
// repository root when path points inside a worktree.
func (r *Reader) open() (*git.Repository, error) {
	path := r.path
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// Available reports whether a readable repository exists at the reader path.
func (r *Reader) Available() bool {
	_, err := r.open()
	logDebug("[gitlog] Available: %v", err == nil)
	return err == nil
}

// GitDir returns the path of the repository's .git directory, used by the
// cache watcher to detect ref changes.
func (r *Reader) GitDir() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	return filepath.Join(worktree.Filesystem.Root(), git.GitDirName), nil
}

// Commits returns all commits reachable from HEAD, newest first. The context
// bounds the walk; on cancellation the commits collected so far are returned.
func (r *Reader) Commits(ctx context.Context) ([]Commit, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		// Repository exists but has no commits yet.
		logDebug("[gitlog] Commits: no HEAD: %v", err)
		return nil, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			logDebug("[gitlog] Commits: context done after %d commits", len(commits))
			return err
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String()[:shortHashLen],
			Subject: firstLine(c.Message),
			Author:  c.Author.Name,
			Time:    c.Author.When,
		})
		return nil
	})
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return nil, fmt.Errorf("iterating log: %w", err)
	}

	logDebug("[gitlog] Commits: read %d commits", len(commits))
	return commits, nil
}

// Tags returns all tags sorted newest first: semantic versions in descending
// version order, anything else after them by commit time.
func (r *Reader) Tags() ([]Tag, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		commit, err := resolveTagCommit(repo, ref)
		if err != nil {
			// Skip unresolvable tags rather than failing the listing.
			logDebug("[gitlog] Tags: skipping %s: %v", ref.Name().Short(), err)
			return nil
		}
		tags = append(tags, Tag{
			Name: ref.Name().Short(),
			Hash: commit.Hash.String()[:shortHashLen],
			Time: commit.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	sortTags(tags)
	logDebug("[gitlog] Tags: found %d tags", len(tags))
	return tags, nil
}

// Head returns the current branch, short commit hash, commit time, and
// whether the worktree has uncommitted changes.
func (r *Reader) Head() (*HeadInfo, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	info := &HeadInfo{Commit: head.Hash().String()[:shortHashLen]}

	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	if commit, err := repo.CommitObject(head.Hash()); err == nil {
		info.Time = commit.Author.When
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return info, nil
	}
	status, err := worktree.Status()
	if err != nil {
		logDebug("[gitlog] Head: status failed: %v", err)
		return info, nil
	}
	info.Dirty = !status.IsClean()

	return info, nil
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	for i := 0; i < len(message); i++ {
		if message[i] == '\n' {
			return message[:i]
		}
	}
	return message
}

// sortTags orders tags newest first. Semantic versions sort by descending
// version and come before non-semver tags, which sort by commit time.
func sortTags(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		vi, oki := parseSemver(tags[i].Name)
		vj, okj := parseSemver(tags[j].Name)
		switch {
		case oki && okj:
			return compareSemver(vi, vj) > 0
		case oki:
			return true
		case okj:
			return false
		default:
			return tags[i].Time.After(tags[j].Time)
		}
	})
}
