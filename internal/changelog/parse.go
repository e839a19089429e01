package changelog

import (
	"regexp"
	"strings"
	"time"
)

// conventionalPattern matches "type(scope)!: description" with scope and the
// breaking "!" marker optional. Subjects that do not match classify as other.
var conventionalPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]+)\))?(!)?:\s*(.+)$`)

// Classify maps a type token to its CommitType. Unknown tokens fall back to
// TypeOther, so a malformed or exotic prefix never aborts a build.
func Classify(token string) CommitType {
	t := CommitType(strings.ToLower(token))
	for _, r := range typeRules {
		if r.Type == t {
			return t
		}
	}
	return TypeOther
}

// ParseSubject classifies a single commit subject line into a CommitRecord.
// Three shapes are accepted:
//
//	feat: add changelog endpoint        -> feat, no scope
//	fix(auth)!: correct token expiry    -> fix, scope auth, breaking
//	update readme                       -> other, full line kept as subject
func ParseSubject(hash, subject string, when time.Time) CommitRecord {
	rec := CommitRecord{
		Hash:    hash,
		Subject: strings.TrimSpace(subject),
		Type:    TypeOther,
		Time:    when,
	}

	m := conventionalPattern.FindStringSubmatch(rec.Subject)
	if m == nil {
		return rec
	}

	rec.Type = Classify(m[1])
	rec.Scope = m[2]
	rec.Breaking = m[3] == "!"
	rec.Subject = strings.TrimSpace(m[4])
	return rec
}
