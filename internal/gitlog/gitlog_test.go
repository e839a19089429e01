package gitlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/changelogd/internal/changelog"
)

// testRepo wraps a temp repository with helpers for committing and tagging.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	wt   *git.Worktree
	seq  int
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &testRepo{
		t:    t,
		dir:  dir,
		repo: repo,
		wt:   wt,
		when: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

// commit writes a new file and commits it with the given subject. Commit
// times increase monotonically.
func (r *testRepo) commit(subject string) plumbing.Hash {
	r.t.Helper()

	r.seq++
	r.when = r.when.Add(time.Minute)

	name := filepath.Join(r.dir, "file"+string(rune('a'+r.seq))+".txt")
	require.NoError(r.t, os.WriteFile(name, []byte(subject), 0o644))
	_, err := r.wt.Add(filepath.Base(name))
	require.NoError(r.t, err)

	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: r.when}
	hash, err := r.wt.Commit(subject, &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(r.t, err)
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func TestCommitsNewestFirst(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: first")
	tr.commit("fix: second")
	tr.commit("chore: third")

	reader := NewReader(tr.dir)
	commits, err := reader.Commits(context.Background())
	require.NoError(t, err)

	require.Len(t, commits, 3)
	assert.Equal(t, "chore: third", commits[0].Subject)
	assert.Equal(t, "fix: second", commits[1].Subject)
	assert.Equal(t, "feat: first", commits[2].Subject)
	assert.Len(t, commits[0].Hash, shortHashLen)
	assert.Equal(t, "Tester", commits[0].Author)
}

func TestCommitsSubjectIsFirstLine(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: subject line\n\nbody paragraph that should not leak")

	commits, err := NewReader(tr.dir).Commits(context.Background())
	require.NoError(t, err)

	require.Len(t, commits, 1)
	assert.Equal(t, "feat: subject line", commits[0].Subject)
}

func TestCommitsEmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commits, err := NewReader(dir).Commits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestAvailable(t *testing.T) {
	tr := newTestRepo(t)
	assert.True(t, NewReader(tr.dir).Available())
	assert.False(t, NewReader(t.TempDir()).Available())
}

func TestTagsSortedNewestFirst(t *testing.T) {
	tr := newTestRepo(t)
	h1 := tr.commit("feat: one")
	h2 := tr.commit("feat: two")
	h3 := tr.commit("feat: three")
	tr.tag("v0.2.0", h2)
	tr.tag("v0.10.0", h3)
	tr.tag("v0.1.0", h1)

	tags, err := NewReader(tr.dir).Tags()
	require.NoError(t, err)

	require.Len(t, tags, 3)
	// Numeric semver ordering, not lexicographic: 0.10.0 > 0.2.0.
	assert.Equal(t, "v0.10.0", tags[0].Name)
	assert.Equal(t, "v0.2.0", tags[1].Name)
	assert.Equal(t, "v0.1.0", tags[2].Name)
}

func TestHead(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: first")

	reader := NewReader(tr.dir)
	head, err := reader.Head()
	require.NoError(t, err)

	assert.Equal(t, "master", head.Branch)
	assert.Len(t, head.Commit, shortHashLen)
	assert.False(t, head.Dirty)

	// An uncommitted file makes the worktree dirty.
	require.NoError(t, os.WriteFile(filepath.Join(tr.dir, "scratch.txt"), []byte("x"), 0o644))
	head, err = reader.Head()
	require.NoError(t, err)
	assert.True(t, head.Dirty)
}

func TestReleasesSingleBucket(t *testing.T) {
	tr := newTestRepo(t)
	h := tr.commit("feat: one")
	tr.commit("fix: two")
	tr.tag("v1.0.0", h)

	releases, err := NewReader(tr.dir).Releases(context.Background(), false)
	require.NoError(t, err)

	// Tags are ignored in single-bucket mode.
	require.Len(t, releases, 1)
	assert.Equal(t, changelog.Unreleased, releases[0].Version)
	assert.Len(t, releases[0].Entries, 2)
}

func TestReleasesFromTags(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: initial release")
	h2 := tr.commit("fix: startup crash")
	tr.commit("feat: add html rendering")
	tr.tag("v1.0.0", h2)

	releases, err := NewReader(tr.dir).Releases(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, releases, 2)
	assert.Equal(t, changelog.Unreleased, releases[0].Version)
	require.Len(t, releases[0].Entries, 1)
	assert.Equal(t, "feat: add html rendering", releases[0].Entries[0].Subject)

	assert.Equal(t, "v1.0.0", releases[1].Version)
	require.Len(t, releases[1].Entries, 2)
	assert.Equal(t, "fix: startup crash", releases[1].Entries[0].Subject)
	assert.Equal(t, "feat: initial release", releases[1].Entries[1].Subject)
}

func TestGenerateDegradesToEmpty(t *testing.T) {
	// Not a repository at all: Generate must return an empty changelog,
	// never an error.
	log := NewReader(t.TempDir()).Generate(context.Background(), false, time.Now())
	require.NotNil(t, log)
	assert.True(t, log.IsEmpty())

	// The projections of the degraded value are still valid.
	assert.NotNil(t, changelog.ToStructured(log))
	assert.Contains(t, changelog.RenderHTML(log), "</html>")
}

func TestGenerateFromRepository(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("feat: add changelog endpoint")
	tr.commit("update readme")

	log := NewReader(tr.dir).Generate(context.Background(), false, time.Now())

	require.Len(t, log.Sections, 1)
	sec := log.Sections[0]
	assert.Len(t, sec.Groups[changelog.TypeFeature], 1)
	assert.Len(t, sec.Groups[changelog.TypeOther], 1)
}

func TestGitDir(t *testing.T) {
	tr := newTestRepo(t)

	gitDir, err := NewReader(tr.dir).GitDir()
	require.NoError(t, err)
	assert.Equal(t, ".git", filepath.Base(gitDir))
	assert.DirExists(t, gitDir)
}
