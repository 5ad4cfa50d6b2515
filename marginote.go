// Package marginote extracts highlights, notes, and other margin annotations
// from PDF files, pairs each highlight with the page text it covers, merges
// the result with the document's outline in reading order, and renders it as
// a markdown report, JSON records, or an HTML page.
//
// Basic usage:
//
//	warnings, err := marginote.Open("paper.pdf").Markdown(os.Stdout)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", marginote.FormatWarnings(warnings))
//	}
//
// With options:
//
//	notes, _, err := marginote.Open("paper.pdf").
//	    WithColumns(2).
//	    WithStem("draft-v3").
//	    Notes()
//
// For advanced use cases, the lower-level reader, text, and render packages
// are also available.
package marginote

import "io"

// Open prepares an Extractor for the given PDF file. The file is opened
// lazily by the first operation that needs it and closed again by terminal
// operations like Notes or Markdown.
//
// Example:
//
//	notes, warnings, err := marginote.Open("paper.pdf").Notes()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader prepares an Extractor that reads the PDF from ra, which must
// cover size bytes. Rendered output names the document "document" unless
// WithStem overrides it.
//
// Example:
//
//	data, _ := os.ReadFile("paper.pdf")
//	notes, _, err := marginote.FromReader(bytes.NewReader(data), int64(len(data))).Notes()
func FromReader(ra io.ReaderAt, size int64) *Extractor {
	return &Extractor{
		ra:      ra,
		raSize:  size,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := marginote.Must(marginote.Open("paper.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustNotes is a helper that wraps a call returning (T, []Warning, error)
// and panics if the error is non-nil. It discards warnings and returns just
// the value.
//
// Example:
//
//	notes := marginote.MustNotes(marginote.Open("paper.pdf").Notes())
func MustNotes[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
