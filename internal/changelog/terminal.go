package changelog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// typeStyle defines the color and icon for a commit type group.
type typeStyle struct {
	Color *color.Color
	Icon  string
}

var typeStyles = map[CommitType]typeStyle{
	TypeFeature:  {Color: color.New(color.FgGreen), Icon: "✓"},
	TypeFix:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	TypePerf:     {Color: color.New(color.FgCyan), Icon: "»"},
	TypeRefactor: {Color: color.New(color.FgBlue), Icon: "~"},
	TypeDocs:     {Color: color.New(color.FgWhite), Icon: "✎"},
	TypeRevert:   {Color: color.New(color.FgRed), Icon: "↩"},
}

var defaultStyle = typeStyle{Color: color.New(color.FgHiBlack), Icon: "•"}

// FormatOptions controls terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a color-coded summary of the changelog to the writer,
// one block per section with type headers and truncated subject lines. Used
// by the generate command's preview output.
func FormatTerminal(c *Changelog, w io.Writer, opts FormatOptions) error {
	if c.IsEmpty() {
		fmt.Fprintln(w, "No changelog entries found.")
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i := range c.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatTerminalSection(&c.Sections[i], w, opts, width); err != nil {
			return fmt.Errorf("formatting section %s: %w", c.Sections[i].Version, err)
		}
	}

	return nil
}

func formatTerminalSection(sec *ReleaseSection, w io.Writer, opts FormatOptions, width int) error {
	header := fmt.Sprintf("%s (%s)", sec.Version, sec.Date)
	if opts.Plain {
		fmt.Fprintln(w, header)
	} else {
		color.New(color.Bold).Fprintln(w, header)
	}

	for _, t := range OrderedTypes() {
		recs := sec.Groups[t]
		if len(recs) == 0 {
			continue
		}
		if err := formatTerminalGroup(t, recs, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

func formatTerminalGroup(t CommitType, recs []CommitRecord, w io.Writer, opts FormatOptions, width int) error {
	style, ok := typeStyles[t]
	if !ok {
		style = defaultStyle
	}

	if opts.Plain {
		fmt.Fprintf(w, "  %s\n", t.Label())
	} else {
		fmt.Fprint(w, "  ")
		style.Color.Fprintf(w, "%s %s\n", style.Icon, t.Label())
	}

	for _, rec := range recs {
		line := rec.Subject
		if rec.Scope != "" {
			line = rec.Scope + ": " + line
		}
		if rec.Hash != "" {
			line += " (" + rec.Hash + ")"
		}
		fmt.Fprintf(w, "    %s\n", truncate(line, width-4))
	}

	return nil
}

// resolveWidth returns the requested width, or the terminal width when
// auto-detecting. Falls back to 80 columns when stdout is not a terminal.
func resolveWidth(requested int) int {
	if requested > 0 {
		return requested
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func truncate(s string, max int) string {
	if max < 4 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
