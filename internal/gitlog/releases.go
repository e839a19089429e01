package gitlog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/raveheart1/changelogd/internal/changelog"
)

func resolveTagCommit(repo *git.Repository, ref *plumbing.Reference) (*object.Commit, error) {
	// Annotated tags point at a tag object, lightweight tags directly at
	// the commit.
	if tag, err := repo.TagObject(ref.Hash()); err == nil {
		return tag.Commit()
	}
	return repo.CommitObject(ref.Hash())
}

// Releases reads the history and partitions it into release boundaries for
// the changelog builder, newest first.
//
// With fromTags false all commits collapse into a single unreleased bucket.
// With fromTags true the linear history is cut at each tagged commit: commits
// above the newest tag form the unreleased section, commits between two tags
// form the newer tag's section, and the oldest tag collects the remainder.
func (r *Reader) Releases(ctx context.Context, fromTags bool) ([]changelog.Release, error) {
	commits, err := r.Commits(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]changelog.LogEntry, len(commits))
	for i, c := range commits {
		entries[i] = changelog.LogEntry{Hash: c.Hash, Subject: c.Subject, Time: c.Time}
	}

	if !fromTags {
		return []changelog.Release{{Version: changelog.Unreleased, Entries: entries}}, nil
	}

	tags, err := r.Tags()
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []changelog.Release{{Version: changelog.Unreleased, Entries: entries}}, nil
	}

	return cutAtTags(entries, tags), nil
}

// cutAtTags walks the newest-first entry list and starts a new release each
// time a tagged commit is reached. Tags not present in the walked history are
// ignored.
func cutAtTags(entries []changelog.LogEntry, tags []Tag) []changelog.Release {
	tagByHash := make(map[string]Tag, len(tags))
	for _, t := range tags {
		tagByHash[t.Hash] = t
	}

	releases := []changelog.Release{{Version: changelog.Unreleased}}
	for _, e := range entries {
		if t, ok := tagByHash[e.Hash]; ok {
			releases = append(releases, changelog.Release{Version: t.Name, Date: t.Time})
		}
		last := len(releases) - 1
		releases[last].Entries = append(releases[last].Entries, e)
	}

	return releases
}

// Generate builds a changelog from the repository history. This is the
// degradation boundary: an unreadable repository, empty history, or a log
// read that exceeds its deadline all yield an empty (or partial) changelog
// with a warning, never an error, so dependent endpoints keep serving.
func (r *Reader) Generate(ctx context.Context, fromTags bool, now time.Time) *changelog.Changelog {
	releases, err := r.Releases(ctx, fromTags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[gitlog] Warning: changelog source unavailable: %v\n", err)
		return &changelog.Changelog{}
	}
	return changelog.Build(releases, now)
}
