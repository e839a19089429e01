// Package changelog derives a structured, versioned change history from raw
// commit metadata. Commit subjects are classified against the Conventional
// Commits grammar, grouped by type under release sections, and projected into
// structured (JSON/YAML), HTML, markdown, and terminal renderings.
//
// All projections are pure functions of the Changelog value: building twice
// from the same log yields byte-identical output.
package changelog

import "time"

// CommitType classifies a commit by its Conventional Commits type token.
type CommitType string

const (
	TypeFeature  CommitType = "feat"
	TypeFix      CommitType = "fix"
	TypePerf     CommitType = "perf"
	TypeRefactor CommitType = "refactor"
	TypeDocs     CommitType = "docs"
	TypeStyle    CommitType = "style"
	TypeTest     CommitType = "test"
	TypeBuild    CommitType = "build"
	TypeCI       CommitType = "ci"
	TypeChore    CommitType = "chore"
	TypeRevert   CommitType = "revert"
	// TypeOther is the fallback for subjects that carry no recognized
	// type prefix. Such records keep their full subject line.
	TypeOther CommitType = "other"
)

// typeRule binds a type token to its rendering label. The table order is the
// rendering precedence: features first, fixes second, catch-all last.
type typeRule struct {
	Type  CommitType
	Label string
}

// typeRules is the single ordered classifier table. Classification and
// rendering both walk this table so the two can never disagree.
var typeRules = []typeRule{
	{TypeFeature, "Features"},
	{TypeFix, "Bug Fixes"},
	{TypePerf, "Performance Improvements"},
	{TypeRefactor, "Code Refactoring"},
	{TypeDocs, "Documentation"},
	{TypeStyle, "Styles"},
	{TypeTest, "Tests"},
	{TypeBuild, "Build System"},
	{TypeCI, "Continuous Integration"},
	{TypeChore, "Chores"},
	{TypeRevert, "Reverts"},
	{TypeOther, "Other Changes"},
}

// OrderedTypes returns all commit types in rendering precedence order.
func OrderedTypes() []CommitType {
	types := make([]CommitType, len(typeRules))
	for i, r := range typeRules {
		types[i] = r.Type
	}
	return types
}

// Label returns the human-readable heading for a commit type
// (e.g. "Features" for feat, "Bug Fixes" for fix).
func (t CommitType) Label() string {
	for _, r := range typeRules {
		if r.Type == t {
			return r.Label
		}
	}
	return typeRules[len(typeRules)-1].Label
}

// CommitRecord is a single classified commit.
type CommitRecord struct {
	// Hash is the short commit identifier.
	Hash string
	// Subject is the description with any type prefix stripped. Records
	// classified as "other" keep the full original subject line.
	Subject string
	// Type is the classified commit type.
	Type CommitType
	// Scope is the optional parenthesized scope, e.g. "auth" in
	// "fix(auth): correct token expiry".
	Scope string
	// Breaking is true when the subject carries the "!" breaking marker.
	Breaking bool
	// Time is the commit timestamp.
	Time time.Time
}

// Unreleased is the version label for commits not yet under a release tag.
const Unreleased = "Unreleased"

// ReleaseSection groups the records of one release, keyed by commit type.
// Records within a group keep the commit order of the source log
// (newest first).
type ReleaseSection struct {
	// Version is the release label, or "Unreleased" for untagged commits.
	Version string
	// Date is the release date in YYYY-MM-DD form. Unreleased sections
	// carry the generation date.
	Date string
	// Groups maps each commit type to its ordered records. Types with no
	// records have no map entry.
	Groups map[CommitType][]CommitRecord
	// Breaking lists records flagged as breaking changes. Each such record
	// also appears in its type group; this is a highlight, not a group.
	Breaking []CommitRecord
}

// IsUnreleased reports whether this section holds untagged commits.
func (s *ReleaseSection) IsUnreleased() bool {
	return s.Version == Unreleased
}

// Count returns the total number of records across all groups.
func (s *ReleaseSection) Count() int {
	n := 0
	for _, recs := range s.Groups {
		n += len(recs)
	}
	return n
}

// Changelog is the root artifact: release sections ordered newest first.
// Values are immutable once built; regeneration produces a new value.
type Changelog struct {
	Sections []ReleaseSection
}

// IsEmpty reports whether the changelog has no sections. An unreadable or
// empty history source yields an empty changelog rather than an error.
func (c *Changelog) IsEmpty() bool {
	return len(c.Sections) == 0
}

// Count returns the total number of records across all sections.
func (c *Changelog) Count() int {
	n := 0
	for i := range c.Sections {
		n += c.Sections[i].Count()
	}
	return n
}

// LatestVersion returns the newest section's version label, or the empty
// string for an empty changelog.
func (c *Changelog) LatestVersion() string {
	if len(c.Sections) == 0 {
		return ""
	}
	return c.Sections[0].Version
}
