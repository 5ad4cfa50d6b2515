package model

import "strings"

// Kind identifies the annotation subtypes that carry extractable notes.
// Anything outside this set is ignored during extraction.
type Kind int

const (
	KindText Kind = iota
	KindHighlight
	KindSquiggly
	KindStrikeOut
	KindUnderline
)

// String returns the PDF subtype name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindHighlight:
		return "Highlight"
	case KindSquiggly:
		return "Squiggly"
	case KindStrikeOut:
		return "StrikeOut"
	case KindUnderline:
		return "Underline"
	default:
		return "Unknown"
	}
}

// KindFromSubtype maps a PDF annotation subtype name onto a Kind. The
// second return value is false for subtypes that are not extracted.
func KindFromSubtype(subtype string) (Kind, bool) {
	switch subtype {
	case "Text":
		return KindText, true
	case "Highlight":
		return KindHighlight, true
	case "Squiggly":
		return KindSquiggly, true
	case "StrikeOut":
		return KindStrikeOut, true
	case "Underline":
		return KindUnderline, true
	default:
		return 0, false
	}
}

// Sentinel strings returned by [Annotation.Text] when no usable text could
// be captured.
const (
	// NoText marks annotations that never had highlight boxes, such as a
	// bare popup note.
	NoText = "no text"

	// MissingText marks annotations whose boxes matched no glyphs at all,
	// which usually means the page text and the annotation disagree about
	// geometry.
	MissingText = "(XXX: missing text!)"
)

var cleaner = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"…", "...",
)

// CleanText maps typographic ligatures, curly quotes and ellipses onto
// their plain equivalents. Extracted text and annotation comments both go
// through this so that notes paste cleanly into other tools.
func CleanText(s string) string {
	return cleaner.Replace(s)
}

// Annotation represents one markup annotation: its page, kind, geometry and
// author-supplied comment, plus the page text captured under its boxes.
type Annotation struct {
	Page *Page
	Kind Kind

	// Boxes are the highlight quadrilaterals, one per marked text run.
	// Annotations without boxes (plain popup notes) have none.
	Boxes []BBox

	// Rect is the annotation's own rectangle, used as a fallback location
	// for annotations without boxes. Nil when absent or degenerate.
	Rect *BBox

	// Contents is the decoded comment typed by the annotator, empty when
	// the annotation has none.
	Contents string

	// Author is the value of the annotation's title entry, typically the
	// name of the person who made it.
	Author string

	text string
}

// NewAnnotation creates an annotation of the given kind on a page.
func NewAnnotation(page *Page, kind Kind) *Annotation {
	return &Annotation{Page: page, Kind: kind}
}

// HasBoxes reports whether the annotation marks any text runs.
func (a *Annotation) HasBoxes() bool {
	return len(a.Boxes) > 0
}

// Capture appends page text attributed to this annotation. Literal text is
// stored as-is. A newline marks the end of a visual line and is folded into
// the buffer: a trailing hyphen is removed so words split across lines come
// back together, otherwise a single space is added unless one is already
// there. Renderers re-wrap the text anyway, so captured line breaks only
// matter for dehyphenation.
func (a *Annotation) Capture(text string) {
	if text != "\n" {
		a.text += text
		return
	}
	switch {
	case strings.HasSuffix(a.text, "-"):
		a.text = strings.TrimSuffix(a.text, "-")
	case !strings.HasSuffix(a.text, " "):
		a.text += " "
	}
}

// Text returns the captured text, cleaned and trimmed. Annotations with no
// boxes return [NoText]; annotations whose boxes captured nothing at all
// return [MissingText]. A capture of only whitespace trims to the empty
// string, which renderers treat as no text.
func (a *Annotation) Text() string {
	if !a.HasBoxes() {
		return NoText
	}
	if a.text == "" {
		return MissingText
	}
	return CleanText(strings.TrimSpace(a.text))
}

// StartPos returns the annotation's reading-order position: the top-left of
// its rectangle, or of its first box when there is no rectangle. The second
// return value is false when the annotation has neither.
func (a *Annotation) StartPos() (Pos, bool) {
	var box BBox
	switch {
	case a.Rect != nil:
		box = *a.Rect
	case len(a.Boxes) > 0:
		box = a.Boxes[0]
	default:
		return Pos{}, false
	}
	corner := box.TopLeft()
	return NewPos(a.Page, corner.X, corner.Y), true
}
