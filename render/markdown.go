package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/marginote/marginote/model"
)

// renderMarkdown writes the plain-text report: a YAML preamble naming the
// source, then one block per record, each followed by a blank line.
func (r *Renderer) renderMarkdown(notes []model.Note, w io.Writer) ([]model.Warning, error) {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "---\ncategories: Reading Notes\ntitle: Reading Notes for %s\n---\n\n", r.config.Stem)
	warnings := writeBody(bw, notes)
	return warnings, bw.Flush()
}

// writeBody writes the record blocks without the preamble. The HTML
// renderer reuses it for the document body.
func writeBody(bw *bufio.Writer, notes []model.Note) []model.Warning {
	var warnings []model.Warning
	for _, n := range notes {
		switch {
		case n.Outline != nil:
			fmt.Fprintf(bw, "%s %s\n\n", strings.Repeat("#", n.Outline.Level), n.Outline.Title)
		case n.Annotation != nil:
			if emptyNote(n.Annotation) {
				warnings = append(warnings, emptyNoteWarning(n.Annotation))
				continue
			}
			bw.WriteString(formatAnnotation(n.Annotation))
			bw.WriteString("\n")
		}
	}
	return warnings
}

// formatAnnotation lays out one annotation block. The comment goes on the
// " * " line, captured text follows as "   > " quote lines, and a page
// label lands on the last line of whichever part prints last:
//
//	 * worth citing
//	   > the issue is not raw speed | Page 7 (Highlight).
//
// The caller guarantees at least one of the two parts is non-empty.
func formatAnnotation(a *model.Annotation) string {
	comment := nonEmptyLines(a.Contents)
	var text []string
	if t := a.Text(); t != model.NoText {
		text = nonEmptyLines(t)
	}

	label := fmt.Sprintf("Page %d (%s).", a.Page.Number(), a.Kind)

	var b strings.Builder
	b.WriteString(" * ")
	b.WriteString(strings.Join(comment, "\n"))
	if len(text) > 0 {
		b.WriteString("\n")
		for i, para := range text {
			b.WriteString("   > ")
			b.WriteString(para)
			if i == len(text)-1 {
				b.WriteString(" | ")
				b.WriteString(label)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(" | ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}
