package model

import "math"

// Pos represents a location on a page: the page itself plus x/y coordinates
// in PDF space. Positions are what give annotations and outline entries a
// total reading order across the document.
type Pos struct {
	Page *Page
	X    float64
	Y    float64
}

// NewPos creates a position on the given page. NaN coordinates are
// treated as zero so that malformed destinations still order somewhere
// deterministic.
func NewPos(page *Page, x, y float64) Pos {
	if math.IsNaN(x) {
		x = 0
	}
	if math.IsNaN(y) {
		y = 0
	}
	return Pos{Page: page, X: x, Y: y}
}

// Normalized returns the coordinates clamped into the page's media box.
// Destinations sometimes point slightly (or, for fit-page targets,
// infinitely) outside the page; clamping keeps column assignment sane.
func (p Pos) Normalized() (x, y float64) {
	box := p.Page.MediaBox
	x = math.Min(math.Max(p.X, box.Left()), box.Right())
	y = math.Min(math.Max(p.Y, box.Bottom()), box.Top())
	return x, y
}

// Column returns the zero-based column index the position falls into when
// the page is split into columnsPerPage equal vertical strips.
func (p Pos) Column(columnsPerPage int) int {
	if columnsPerPage < 1 {
		columnsPerPage = 1
	}
	box := p.Page.MediaBox
	width := box.Right() - box.Left()
	if width <= 0 {
		return 0
	}
	x, _ := p.Normalized()
	colWidth := width / float64(columnsPerPage)
	return int(math.Floor((x - box.Left()) / colWidth))
}

// Less reports whether p comes before other in reading order: first by page,
// then by column within the page, then top to bottom within the column.
// Both positions are normalized into their page's media box before
// comparison.
func (p Pos) Less(other Pos, columnsPerPage int) bool {
	if p.Page.Ordinal != other.Page.Ordinal {
		return p.Page.Ordinal < other.Page.Ordinal
	}
	pcol := p.Column(columnsPerPage)
	ocol := other.Column(columnsPerPage)
	if pcol != ocol {
		return pcol < ocol
	}
	_, py := p.Normalized()
	_, oy := other.Normalized()
	return py > oy
}
