package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes the markdown rendering of a Changelog. This is the
// on-disk CHANGELOG.md format: a top-level heading, one "## version (date)"
// heading per section, "### label" headings per non-empty group, and one
// "* [**scope:**] subject (hash)" bullet per record. Breaking changes render
// first within their section.
//
// The function is idempotent: the same changelog always produces identical
// bytes.
func RenderMarkdown(c *Changelog, w io.Writer) error {
	if _, err := io.WriteString(w, "# Changelog\n\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range c.Sections {
		if err := renderMarkdownSection(&c.Sections[i], w); err != nil {
			return fmt.Errorf("rendering section %s: %w", c.Sections[i].Version, err)
		}
	}

	return nil
}

// RenderMarkdownString is a convenience wrapper that renders to a string.
func RenderMarkdownString(c *Changelog) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(c, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderMarkdownSection(sec *ReleaseSection, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "## %s (%s)\n\n", sec.Version, sec.Date); err != nil {
		return err
	}

	if len(sec.Breaking) > 0 {
		if err := renderMarkdownGroup("⚠ BREAKING CHANGES", sec.Breaking, w); err != nil {
			return err
		}
	}

	for _, t := range OrderedTypes() {
		recs := sec.Groups[t]
		if len(recs) == 0 {
			continue
		}
		if err := renderMarkdownGroup(t.Label(), recs, w); err != nil {
			return err
		}
	}

	return nil
}

func renderMarkdownGroup(label string, recs []CommitRecord, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "### %s\n\n", label); err != nil {
		return err
	}

	for _, rec := range recs {
		if _, err := io.WriteString(w, formatMarkdownBullet(rec)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}

func formatMarkdownBullet(rec CommitRecord) string {
	scope := ""
	if rec.Scope != "" {
		scope = fmt.Sprintf("**%s:** ", rec.Scope)
	}
	if rec.Hash == "" {
		return fmt.Sprintf("* %s%s\n", scope, rec.Subject)
	}
	return fmt.Sprintf("* %s%s (%s)\n", scope, rec.Subject, rec.Hash)
}
