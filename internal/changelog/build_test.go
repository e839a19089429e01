package changelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildNow = time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)

func sampleEntries() []LogEntry {
	// Newest first, like the source log.
	return []LogEntry{
		{Hash: "aaa1111", Subject: "feat: add changelog endpoint", Time: buildNow.Add(-1 * time.Hour)},
		{Hash: "bbb2222", Subject: "fix(auth): correct token expiry", Time: buildNow.Add(-2 * time.Hour)},
		{Hash: "ccc3333", Subject: "feat(transport): expose balance lookup", Time: buildNow.Add(-3 * time.Hour)},
		{Hash: "ddd4444", Subject: "chore: bump deps", Time: buildNow.Add(-4 * time.Hour)},
		{Hash: "eee5555", Subject: "update readme", Time: buildNow.Add(-5 * time.Hour)},
	}
}

func TestBuildUnreleased(t *testing.T) {
	c := BuildUnreleased(sampleEntries(), buildNow)

	require.Len(t, c.Sections, 1)
	sec := c.Sections[0]
	assert.Equal(t, Unreleased, sec.Version)
	assert.True(t, sec.IsUnreleased())
	assert.Equal(t, "2026-08-26", sec.Date)

	// Each record lands in exactly one group.
	assert.Equal(t, 5, sec.Count())
	assert.Len(t, sec.Groups[TypeFeature], 2)
	assert.Len(t, sec.Groups[TypeFix], 1)
	assert.Len(t, sec.Groups[TypeChore], 1)
	assert.Len(t, sec.Groups[TypeOther], 1)

	// Newest first within a group, matching the input log order.
	feats := sec.Groups[TypeFeature]
	assert.Equal(t, "aaa1111", feats[0].Hash)
	assert.Equal(t, "ccc3333", feats[1].Hash)

	// Unrecognized subjects keep the full line.
	assert.Equal(t, "update readme", sec.Groups[TypeOther][0].Subject)
}

func TestBuildEmptyLog(t *testing.T) {
	c := BuildUnreleased(nil, buildNow)

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Sections)
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, "", c.LatestVersion())
}

func TestBuildIdempotent(t *testing.T) {
	a := BuildUnreleased(sampleEntries(), buildNow)
	b := BuildUnreleased(sampleEntries(), buildNow)

	assert.Equal(t, a, b)

	// The renderings are byte-identical too.
	mdA, err := RenderMarkdownString(a)
	require.NoError(t, err)
	mdB, err := RenderMarkdownString(b)
	require.NoError(t, err)
	assert.Equal(t, mdA, mdB)
	assert.Equal(t, RenderHTML(a), RenderHTML(b))
	assert.Equal(t, ToStructured(a), ToStructured(b))
}

func TestBuildTaggedReleases(t *testing.T) {
	tagDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	releases := []Release{
		{
			Version: Unreleased,
			Entries: []LogEntry{
				{Hash: "aaa1111", Subject: "feat: add html rendering"},
			},
		},
		{
			Version: "v1.0.0",
			Date:    tagDate,
			Entries: []LogEntry{
				{Hash: "bbb2222", Subject: "feat: initial release"},
				{Hash: "ccc3333", Subject: "fix: startup crash"},
			},
		},
	}

	c := Build(releases, buildNow)

	require.Len(t, c.Sections, 2)
	assert.Equal(t, Unreleased, c.Sections[0].Version)
	assert.Equal(t, "2026-08-26", c.Sections[0].Date)
	assert.Equal(t, "v1.0.0", c.Sections[1].Version)
	assert.Equal(t, "2026-07-01", c.Sections[1].Date)
	assert.Equal(t, Unreleased, c.LatestVersion())
}

func TestBuildDropsEmptyReleases(t *testing.T) {
	releases := []Release{
		{Version: Unreleased}, // HEAD is tagged, nothing unreleased
		{
			Version: "v1.0.0",
			Date:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			Entries: []LogEntry{{Hash: "bbb2222", Subject: "feat: initial release"}},
		},
	}

	c := Build(releases, buildNow)

	require.Len(t, c.Sections, 1)
	assert.Equal(t, "v1.0.0", c.Sections[0].Version)
	assert.Equal(t, "v1.0.0", c.LatestVersion())
}

func TestBuildBreakingChanges(t *testing.T) {
	entries := []LogEntry{
		{Hash: "aaa1111", Subject: "feat(api)!: drop legacy token support"},
		{Hash: "bbb2222", Subject: "fix: correct rounding"},
	}

	c := BuildUnreleased(entries, buildNow)

	require.Len(t, c.Sections, 1)
	sec := c.Sections[0]
	require.Len(t, sec.Breaking, 1)
	assert.Equal(t, "aaa1111", sec.Breaking[0].Hash)
	// The breaking record still lives in its type group.
	require.Len(t, sec.Groups[TypeFeature], 1)
	assert.Equal(t, "aaa1111", sec.Groups[TypeFeature][0].Hash)
}
