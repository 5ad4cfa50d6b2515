package capture

import (
	"testing"

	"github.com/marginote/marginote/model"
)

func page() *model.Page {
	return model.NewPage(0, model.NewBBox(0, 0, 612, 792))
}

func highlight(p *model.Page, boxes ...model.BBox) *model.Annotation {
	a := model.NewAnnotation(p, model.KindHighlight)
	a.Boxes = boxes
	return a
}

// glyphBox places a glyph of width 10 and height 12 with its left edge at x
// on a line whose baseline sits at y.
func glyphBox(x, y float64) model.BBox {
	return model.NewBBox(x, y, 10, 12)
}

func TestCollectorGlyphAttribution(t *testing.T) {
	p := page()
	a := highlight(p, model.NewBBox(0, 700, 100, 12))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	c.Glyph("i", glyphBox(10, 700))  // inside
	c.Glyph("o", glyphBox(400, 700)) // outside

	if got := a.Text(); got != "i" {
		t.Errorf("Text() = %q, want %q", got, "i")
	}
}

func TestCollectorSplitsLineBetweenAnnotations(t *testing.T) {
	p := page()
	left := highlight(p, model.NewBBox(0, 700, 100, 12))
	right := highlight(p, model.NewBBox(200, 700, 100, 12))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{left, right})

	line := model.NewBBox(0, 700, 300, 12)
	c.EnterContainer(line)
	c.Glyph("H", glyphBox(10, 700))
	c.Whitespace(" ")
	c.Glyph("W", glyphBox(210, 700))
	c.Whitespace("\n")
	c.ExitContainer(line, true)

	if got := left.Text(); got != "H" {
		t.Errorf("left.Text() = %q, want %q", got, "H")
	}
	if got := right.Text(); got != "W" {
		t.Errorf("right.Text() = %q, want %q", got, "W")
	}
}

func TestCollectorWhitespaceFollowsLastHit(t *testing.T) {
	p := page()
	a := highlight(p, model.NewBBox(0, 700, 100, 12))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	// The space between two matched glyphs is captured.
	c.Glyph("a", glyphBox(10, 700))
	c.Whitespace(" ")
	c.Glyph("b", glyphBox(30, 700))

	// A miss replaces the hit set, so the next space goes nowhere.
	c.Glyph("x", glyphBox(400, 700))
	c.Whitespace(" ")
	c.Glyph("y", glyphBox(420, 700))

	if got := a.Text(); got != "a b" {
		t.Errorf("Text() = %q, want %q", got, "a b")
	}
}

func TestCollectorLineBreakDehyphenates(t *testing.T) {
	p := page()
	a := highlight(p,
		model.NewBBox(0, 712, 100, 12),
		model.NewBBox(0, 700, 100, 12),
	)
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	// One text box holding two lines, the way a paragraph arrives.
	box := model.NewBBox(0, 700, 300, 24)
	c.EnterContainer(box)

	line1 := model.NewBBox(0, 712, 300, 12)
	c.EnterContainer(line1)
	c.Glyph("t", glyphBox(10, 712))
	c.Glyph("o", glyphBox(20, 712))
	c.Glyph("-", glyphBox(30, 712))
	c.Whitespace("\n")
	c.ExitContainer(line1, false)

	line2 := model.NewBBox(0, 700, 300, 12)
	c.EnterContainer(line2)
	c.Glyph("d", glyphBox(10, 700))
	c.Glyph("o", glyphBox(20, 700))
	c.Whitespace("\n")
	c.ExitContainer(line2, false)

	c.ExitContainer(box, true)

	if got := a.Text(); got != "todo" {
		t.Errorf("Text() = %q, want %q", got, "todo")
	}
}

func TestCollectorDehyphenatesWhenBoxCoversLines(t *testing.T) {
	p := page()
	// Covers the whole paragraph, so the box-level test hits it too. The
	// extra line break broadcast at box close must not undo the hyphen
	// fold or double up spaces.
	a := highlight(p, model.NewBBox(0, 700, 300, 24))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	box := model.NewBBox(0, 700, 300, 24)
	c.EnterContainer(box)
	c.Glyph("u", glyphBox(10, 712))
	c.Glyph("p", glyphBox(20, 712))
	c.Glyph("-", glyphBox(30, 712))
	c.Whitespace("\n")
	c.Glyph("s", glyphBox(10, 700))
	c.Glyph("e", glyphBox(20, 700))
	c.Glyph("t", glyphBox(30, 700))
	c.Whitespace("\n")
	c.ExitContainer(box, true)

	if got := a.Text(); got != "upset" {
		t.Errorf("Text() = %q, want %q", got, "upset")
	}
}

func TestCollectorBoxCloseUpdatesLastHit(t *testing.T) {
	p := page()
	// Spans both single-line boxes, so each box close hits it at box level
	// and the boxless space between the boxes is captured.
	spanning := highlight(p, model.NewBBox(0, 700, 300, 24))
	// Covers one glyph on each line but never a whole box; the box-level
	// test replaces it in the hit set, so the same space passes it by.
	narrow := highlight(p,
		model.NewBBox(0, 712, 20, 12),
		model.NewBBox(0, 700, 20, 12),
	)
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{spanning, narrow})

	box1 := model.NewBBox(0, 712, 300, 12)
	c.EnterContainer(box1)
	c.Glyph("a", glyphBox(10, 712))
	c.Whitespace("\n")
	c.ExitContainer(box1, true)

	c.Whitespace(" ")

	box2 := model.NewBBox(0, 700, 300, 12)
	c.EnterContainer(box2)
	c.Glyph("b", glyphBox(10, 700))
	c.Whitespace("\n")
	c.ExitContainer(box2, true)

	if got := spanning.Text(); got != "a  b" {
		t.Errorf("spanning.Text() = %q, want %q", got, "a  b")
	}
	if got := narrow.Text(); got != "a b" {
		t.Errorf("narrow.Text() = %q, want %q", got, "a b")
	}
}

func TestCollectorIgnoresNonTextContainers(t *testing.T) {
	p := page()
	a := highlight(p, model.NewBBox(0, 0, 612, 792))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	c.Glyph("a", glyphBox(10, 700))
	c.ExitContainer(model.NewBBox(0, 0, 612, 792), false)

	// No line break was broadcast, so the buffer holds the bare glyph
	// with no trailing space.
	c.Whitespace(" ")
	c.Glyph("b", glyphBox(20, 700))

	if got := a.Text(); got != "a b" {
		t.Errorf("Text() = %q, want %q", got, "a b")
	}
}

func TestCollectorFiltersBoxlessAnnotations(t *testing.T) {
	p := page()
	note := model.NewAnnotation(p, model.KindText)
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{note})

	c.Glyph("a", glyphBox(10, 700))
	c.Whitespace("\n")

	if got := note.Text(); got != model.NoText {
		t.Errorf("Text() = %q, want %q", got, model.NoText)
	}
}

func TestCollectorResetStopsCapture(t *testing.T) {
	p := page()
	a := highlight(p, model.NewBBox(0, 700, 100, 12))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a})

	c.Glyph("a", glyphBox(10, 700))
	c.Reset()

	// State from before the reset must not leak into new whitespace or
	// line breaks.
	c.Whitespace(" ")
	c.Whitespace("\n")

	if got := a.Text(); got != "a" {
		t.Errorf("Text() = %q, want %q", got, "a")
	}
}

func TestCollectorOverlappingAnnotationsShareGlyphs(t *testing.T) {
	p := page()
	a := highlight(p, model.NewBBox(0, 700, 100, 12))
	b := highlight(p, model.NewBBox(0, 700, 50, 12))
	c := NewCollector()
	c.SetAnnotations([]*model.Annotation{a, b})

	c.Glyph("x", glyphBox(10, 700))

	if got := a.Text(); got != "x" {
		t.Errorf("a.Text() = %q, want %q", got, "x")
	}
	if got := b.Text(); got != "x" {
		t.Errorf("b.Text() = %q, want %q", got, "x")
	}
}
