package changelog

import "time"

// LogEntry is one raw commit from the history source, newest first.
type LogEntry struct {
	Hash    string
	Subject string
	Time    time.Time
}

// Release is the builder input for one release boundary: the version label
// (empty or Unreleased for untagged commits), the release date, and the raw
// log entries belonging to the release, newest first.
type Release struct {
	Version string
	Date    time.Time
	Entries []LogEntry
}

// Build folds raw releases into a Changelog value. Entries are classified by
// ParseSubject and grouped by commit type; group order inside a section
// follows the fixed type precedence, record order inside a group follows the
// input log (newest first).
//
// Releases with no entries are dropped, so an empty or unreadable log yields
// a changelog with zero sections. Unreleased sections are dated at now.
//
// Build is deterministic: the same releases and now always produce a
// deep-equal changelog, which in turn renders byte-identically.
func Build(releases []Release, now time.Time) *Changelog {
	c := &Changelog{}

	for _, r := range releases {
		if len(r.Entries) == 0 {
			continue
		}
		c.Sections = append(c.Sections, buildSection(r, now))
	}

	return c
}

// BuildUnreleased is the single-bucket form: all entries collapse into one
// Unreleased section dated at now.
func BuildUnreleased(entries []LogEntry, now time.Time) *Changelog {
	return Build([]Release{{Version: Unreleased, Entries: entries}}, now)
}

func buildSection(r Release, now time.Time) ReleaseSection {
	version := r.Version
	if version == "" {
		version = Unreleased
	}

	date := r.Date
	if date.IsZero() {
		date = now
	}

	sec := ReleaseSection{
		Version: version,
		Date:    date.Format("2006-01-02"),
		Groups:  make(map[CommitType][]CommitRecord, len(typeRules)),
	}

	for _, e := range r.Entries {
		rec := ParseSubject(e.Hash, e.Subject, e.Time)
		sec.Groups[rec.Type] = append(sec.Groups[rec.Type], rec)
		if rec.Breaking {
			sec.Breaking = append(sec.Breaking, rec)
		}
	}

	return sec
}
