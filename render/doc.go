// Package render writes assembled reading notes as a report.
//
// A [Renderer] takes the ordered note records produced by extraction and
// serializes them in one of three formats:
//
//   - [FormatMarkdown] is the plain-text report: a YAML preamble naming the
//     source document, then one block per record in reading order. Outline
//     entries become headings at their nesting level; annotations print
//     their comment and the highlighted text as a quote, tagged with the
//     page number and annotation kind.
//   - [FormatJSON] emits the same records as a flat JSON array for
//     downstream tooling.
//   - [FormatHTML] converts the markdown report into a standalone HTML
//     document.
//
// Usage:
//
//	r := render.NewRendererWithConfig(render.Config{
//		Format: render.FormatMarkdown,
//		Stem:   "paper",
//	})
//	warnings, err := r.Render(notes, os.Stdout)
//
// Annotation records with neither captured text nor a comment are skipped
// and reported in the returned warnings.
package render
