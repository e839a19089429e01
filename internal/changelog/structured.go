package changelog

// StructuredEntry is the machine-readable form of a single record.
type StructuredEntry struct {
	Hash    string `json:"hash" yaml:"hash"`
	Subject string `json:"subject" yaml:"subject"`
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// StructuredVersion is the machine-readable form of one release section.
// Sections keys are commit type tokens ("feat", "fix", ...); only non-empty
// groups are present.
type StructuredVersion struct {
	Version  string                       `json:"version" yaml:"version"`
	Date     string                       `json:"date" yaml:"date"`
	Sections map[string][]StructuredEntry `json:"sections" yaml:"sections"`
	Breaking []StructuredEntry            `json:"breaking_changes,omitempty" yaml:"breaking_changes,omitempty"`
}

// ToStructured projects a Changelog into its lossless machine-readable form,
// suitable for JSON or YAML serialization. The result is never nil; an empty
// changelog projects to an empty slice.
func ToStructured(c *Changelog) []StructuredVersion {
	out := make([]StructuredVersion, 0, len(c.Sections))

	for i := range c.Sections {
		sec := &c.Sections[i]
		sv := StructuredVersion{
			Version:  sec.Version,
			Date:     sec.Date,
			Sections: make(map[string][]StructuredEntry, len(sec.Groups)),
			Breaking: structuredEntries(sec.Breaking),
		}
		for _, t := range OrderedTypes() {
			recs := sec.Groups[t]
			if len(recs) == 0 {
				continue
			}
			sv.Sections[string(t)] = structuredEntries(recs)
		}
		out = append(out, sv)
	}

	return out
}

func structuredEntries(recs []CommitRecord) []StructuredEntry {
	if len(recs) == 0 {
		return nil
	}
	entries := make([]StructuredEntry, len(recs))
	for i, rec := range recs {
		entries[i] = StructuredEntry{
			Hash:    rec.Hash,
			Subject: rec.Subject,
			Scope:   rec.Scope,
		}
	}
	return entries
}
