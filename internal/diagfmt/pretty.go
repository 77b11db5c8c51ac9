package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
)

// PrettyOpts controls the human-readable rendering.
type PrettyOpts struct {
	Color bool
	// TabWidth is the visual width of a tab in source previews.
	TabWidth int
}

// SourceLine hands back the text of one source line for the caret preview,
// or "" when unavailable.
type SourceLine func(file string, line int) string

// visualWidthUpTo computes the visual width of a line prefix up to the
// given 1-based column, accounting for tabs and wide Unicode characters.
func visualWidthUpTo(s string, col, tabWidth int) int {
	if col <= 1 {
		return 0
	}
	pos := 0
	visual := 0
	for _, r := range s {
		if pos >= col-1 {
			break
		}
		if r == '\t' {
			visual = (visual + tabWidth) / tabWidth * tabWidth
		} else {
			visual += runewidth.RuneWidth(r)
		}
		pos += len(string(r))
	}
	return visual
}

// Pretty renders the diagnostics of a sorted bag in a human-readable form:
// one header line per diagnostic, followed by the source line with a caret
// under the offending column, followed by the notes.
func Pretty(w io.Writer, bag *diag.Bag, src SourceLine, opts PrettyOpts) {
	var (
		errorColor   = color.New(color.FgRed, color.Bold)
		warningColor = color.New(color.FgYellow, color.Bold)
		infoColor    = color.New(color.FgCyan, color.Bold)
		pathColor    = color.New(color.FgWhite, color.Bold)
		codeColor    = color.New(color.FgMagenta)
		caretColor   = color.New(color.FgRed, color.Bold)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = 4
	}

	for _, d := range bag.Items() {
		sev := infoColor
		switch d.Severity {
		case diag.SevError:
			sev = errorColor
		case diag.SevWarning:
			sev = warningColor
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pathColor.Sprint(d.Pos.String()),
			sev.Sprint(d.Severity.String()),
			codeColor.Sprint(d.Code.String()),
			d.Message)

		if src != nil && d.Pos.Valid() {
			if line := src(d.Pos.File, d.Pos.Line); line != "" {
				fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth)))
				pad := visualWidthUpTo(line, d.Pos.Col, tabWidth)
				fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), caretColor.Sprint("^"))
			}
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: note: %s\n", n.Pos, n.Msg)
		}
	}
}
