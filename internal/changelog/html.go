package changelog

import (
	"html"
	"strings"
)

// RenderHTML projects a Changelog into a self-contained HTML document: an h2
// per release section, an h3 per non-empty type group, and one list item per
// record showing "subject (hash)". Breaking changes render first under their
// own heading. Subject, scope, and version text is escaped, so commit
// subjects containing markup never produce raw tags in the output.
//
// An empty changelog renders a minimal, still well-formed document.
func RenderHTML(c *Changelog) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n<title>Changelog</title>\n")
	b.WriteString("</head>\n<body>\n<h1>Changelog</h1>\n")

	if c.IsEmpty() {
		b.WriteString("<p>No changes recorded.</p>\n")
	}

	for i := range c.Sections {
		writeHTMLSection(&b, &c.Sections[i])
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeHTMLSection(b *strings.Builder, sec *ReleaseSection) {
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(sec.Version))
	b.WriteString(" (")
	b.WriteString(html.EscapeString(sec.Date))
	b.WriteString(")</h2>\n")

	if len(sec.Breaking) > 0 {
		writeHTMLGroup(b, "⚠ BREAKING CHANGES", sec.Breaking)
	}

	for _, t := range OrderedTypes() {
		recs := sec.Groups[t]
		if len(recs) == 0 {
			continue
		}
		writeHTMLGroup(b, t.Label(), recs)
	}
}

func writeHTMLGroup(b *strings.Builder, label string, recs []CommitRecord) {
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(label))
	b.WriteString("</h3>\n<ul>\n")

	for _, rec := range recs {
		b.WriteString("<li>")
		if rec.Scope != "" {
			b.WriteString("<strong>")
			b.WriteString(html.EscapeString(rec.Scope))
			b.WriteString(":</strong> ")
		}
		b.WriteString(html.EscapeString(rec.Subject))
		if rec.Hash != "" {
			b.WriteString(" (")
			b.WriteString(html.EscapeString(rec.Hash))
			b.WriteString(")")
		}
		b.WriteString("</li>\n")
	}

	b.WriteString("</ul>\n")
}
