// Package capture matches page text against annotation geometry.
//
// The layout engine walks a page's text depth-first and reports what it
// sees to a [Listener]: container boundaries, single glyphs with their
// boxes, and boxless whitespace. The [Collector] implementation of that
// interface attributes each glyph to the annotations whose highlight boxes
// cover it, and turns line breaks into capture events so hyphenated words
// can be reassembled.
package capture

import "github.com/marginote/marginote/model"

// Listener receives layout events for one page, in reading order.
//
// Implementations must tolerate any mix of events: containers may nest,
// glyphs may appear outside any container, and whitespace may arrive
// between lines as well as inside them.
type Listener interface {
	// EnterContainer is called before a container's children are visited.
	EnterContainer(box model.BBox)

	// ExitContainer is called after a container's children were visited.
	// textBox is true when the container is a text box, a group of lines
	// matched against annotations as a whole when it closes.
	ExitContainer(box model.BBox, textBox bool)

	// Glyph is called for each positioned glyph.
	Glyph(text string, box model.BBox)

	// Whitespace is called for text without geometry: synthesized word
	// gaps and line breaks. A line break is always the single string "\n".
	Whitespace(text string)
}

// Collector attributes page text to annotations. It implements [Listener]
// and is driven by the layout engine one page at a time: call
// [Collector.SetAnnotations] with the page's annotations before the page's
// events, and [Collector.Reset] afterwards.
//
// Matching happens at two granularities. Each glyph is captured by every
// annotation whose boxes cover most of it. When a text box closes, the
// whole box is matched once more, so annotations that cover a line without
// covering its final glyphs still receive the line break that separates
// their captured words.
type Collector struct {
	annotations []*model.Annotation

	// lastHit holds the annotations matched by the most recent box test,
	// glyph or text box. Boxless whitespace goes to these.
	lastHit map[*model.Annotation]struct{}

	// curLine accumulates every annotation hit since the last line break.
	// A line break is broadcast to all of them.
	curLine map[*model.Annotation]struct{}
}

// NewCollector creates a collector with no annotations to match.
func NewCollector() *Collector {
	return &Collector{
		lastHit: make(map[*model.Annotation]struct{}),
		curLine: make(map[*model.Annotation]struct{}),
	}
}

// SetAnnotations installs the annotations to match on the next page and
// clears all per-page state. Annotations without boxes can never match and
// are filtered out.
func (c *Collector) SetAnnotations(annotations []*model.Annotation) {
	c.annotations = c.annotations[:0]
	for _, a := range annotations {
		if a.HasBoxes() {
			c.annotations = append(c.annotations, a)
		}
	}
	c.Reset()
}

// Reset clears the matching state accumulated during a page. The installed
// annotations are kept.
func (c *Collector) Reset() {
	clear(c.lastHit)
	clear(c.curLine)
}

// EnterContainer implements [Listener]. Opening a container carries no
// matching information.
func (c *Collector) EnterContainer(model.BBox) {}

// ExitContainer implements [Listener]. Closing a text box tests the whole
// box against every annotation and then broadcasts a line break to every
// annotation hit since the previous break.
func (c *Collector) ExitContainer(box model.BBox, textBox bool) {
	if !textBox {
		return
	}
	c.testBoxes(box)
	c.breakLine()
}

// Glyph implements [Listener]. The glyph's text is captured by every
// annotation whose boxes cover most of the glyph.
func (c *Collector) Glyph(text string, box model.BBox) {
	for _, a := range c.testBoxes(box) {
		a.Capture(text)
	}
}

// Whitespace implements [Listener]. A line break is broadcast to every
// annotation hit on the current line. Other whitespace has no geometry of
// its own, so it goes to whatever the previous box test hit: a space
// between two matched glyphs is captured, a space after the match ends is
// not re-attributed.
func (c *Collector) Whitespace(text string) {
	if text == "\n" {
		c.breakLine()
		return
	}
	for a := range c.lastHit {
		a.Capture(text)
	}
}

// testBoxes finds the annotations whose boxes cover most of item. The hit
// set replaces the previous one even when empty, and is folded into the
// current line's hits.
func (c *Collector) testBoxes(item model.BBox) []*model.Annotation {
	var hits []*model.Annotation
	for _, a := range c.annotations {
		for _, b := range a.Boxes {
			if b.CoversMost(item) {
				hits = append(hits, a)
				break
			}
		}
	}
	clear(c.lastHit)
	for _, a := range hits {
		c.lastHit[a] = struct{}{}
		c.curLine[a] = struct{}{}
	}
	return hits
}

// breakLine sends a line break to every annotation hit on the current line
// and starts a new line.
func (c *Collector) breakLine() {
	for a := range c.curLine {
		a.Capture("\n")
	}
	clear(c.curLine)
}
