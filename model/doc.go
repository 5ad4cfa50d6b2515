// Package model provides the intermediate representation (IR) for extracted
// annotations and document structure.
//
// This package defines the user-facing data structures that annotation
// extraction produces. All reading and capture operations ultimately build
// these types, making them the primary API for consuming extracted notes.
//
// # Document Structure
//
// The [Document] type represents the extracted view of a PDF:
//
//	doc := model.NewDocument()
//	doc.AddPage(model.NewPage(0, mediaBox))
//
// Each [Page] carries a zero-based ordinal, its media box, and the
// [Annotation] values found on it. Resolved bookmarks live on the document
// as [Outline] entries.
//
// # Annotations
//
// An [Annotation] pairs an annotation's own data (kind, comment, author,
// geometry) with the page text captured under its highlight boxes. Text
// arrives through [Annotation.Capture] one glyph or line break at a time;
// [Annotation.Text] returns the cleaned result, or one of the sentinels
// [NoText] and [MissingText] when nothing usable was captured.
//
// # Reading Order
//
// A [Pos] is a page plus coordinates. [Pos.Less] orders positions the way a
// reader moves through a document: page by page, column by column within a
// page, top to bottom within a column. Annotations and outline entries both
// reduce to positions, which is what makes a single merged reading order
// possible; [Note] is the merged record type.
//
// # Geometry
//
// [BBox] is an axis-aligned rectangle in PDF coordinate space. Its
// [BBox.CoversMost] method decides whether a glyph belongs to an annotation:
// at least half of the glyph's area must lie inside one of the annotation's
// boxes.
//
// # Warnings
//
// Extraction keeps going when it meets malformed data. Problems are
// reported as [Warning] values that accumulate alongside results rather
// than aborting the run.
package model
