package model

// Page represents a single page of the source document. Pages are identified
// by their zero-based ordinal; equality of ordinals is what the reading
// order compares, so every position must reference a page owned by the same
// document.
type Page struct {
	// Ordinal is the zero-based position of the page in the document.
	Ordinal int

	// MediaBox is the page's media box. Positions are clamped into it
	// before they are compared.
	MediaBox BBox

	// Annotations holds the page's extracted annotations in start-position
	// order.
	Annotations []*Annotation
}

// NewPage creates a page with the given ordinal and media box.
func NewPage(ordinal int, mediaBox BBox) *Page {
	return &Page{Ordinal: ordinal, MediaBox: mediaBox}
}

// Number returns the one-based page number used in rendered output.
func (p *Page) Number() int {
	return p.Ordinal + 1
}
