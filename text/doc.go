// Package text turns a PDF's positioned glyphs into layout events.
//
// Page content is read with github.com/ledongthuc/pdf and reassembled into
// just enough structure for annotation matching: glyphs grouped into
// baseline lines, lines stacked into text boxes, and word breaks recovered
// from glyph positioning.
//
// # Reading Pages
//
// A [Source] opens a document and replays one page at a time to any
// [capture.Listener]:
//
//	src, err := text.Open("paper.pdf")
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//
//	err = src.EmitPage(0, collector)
//
// Events arrive in reading order: a container per text box, a container
// per line within it, each glyph with its box, synthesized spaces at word
// gaps, and a line break closing every line.
//
// # Layout Thresholds
//
// Grouping is controlled by [Config]; [DefaultConfig] suits common body
// text. Every threshold scales with glyph point size, so headings and
// footnotes on the same page group at their own scale.
//
// # Column Estimation
//
// [Source.LineBoxes] exposes per-line geometry without capture events so
// callers can inspect a page's column structure before deciding on a
// reading order.
package text
