// Package layout estimates the column structure of PDF pages.
//
// Reading order depends on how a page arranges its text: annotations on a
// two-column page must sort left column before right column at every
// height. Callers that do not know a document's layout in advance can
// derive a column count from line geometry and feed it to the ordering
// logic.
//
// # Column Estimation
//
// A [ColumnEstimator] works on the per-line bounding boxes of a page.
// Side-by-side columns leave a tall whitespace channel between them; the
// estimator merges the horizontal ranges covered by text, finds channels
// that stay clear over most of the page height, and counts the regions
// they separate:
//
//	est := layout.NewColumnEstimator()
//	cols := est.EstimatePage(lineBoxes, pageWidth, pageHeight)
//
// [ColumnEstimator.Estimate] aggregates per-page estimates across a whole
// document, letting the most common layout win. Thresholds are set by
// [ColumnConfig]; titles and headings that span every column are excluded
// from coverage so they do not hide the channel below them.
package layout
