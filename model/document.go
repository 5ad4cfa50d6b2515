package model

// Document represents the extracted view of a PDF: its pages with their
// annotations, plus the resolved outline entries. It holds only what note
// extraction needs, not the full document structure.
type Document struct {
	// Pages in document order. A page's index in this slice equals its
	// Ordinal.
	Pages []*Page

	// Outlines are the resolved bookmarks in tree order. Empty when the
	// document has none or when resolution failed.
	Outlines []*Outline
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddPage appends a page and assigns its ordinal.
func (d *Document) AddPage(p *Page) {
	p.Ordinal = len(d.Pages)
	d.Pages = append(d.Pages, p)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// PageAt returns the page with the given zero-based ordinal, or nil when out
// of range.
func (d *Document) PageAt(ordinal int) *Page {
	if ordinal < 0 || ordinal >= len(d.Pages) {
		return nil
	}
	return d.Pages[ordinal]
}

// Annotations returns every annotation in the document in page order,
// preserving each page's internal order.
func (d *Document) Annotations() []*Annotation {
	var all []*Annotation
	for _, p := range d.Pages {
		all = append(all, p.Annotations...)
	}
	return all
}
