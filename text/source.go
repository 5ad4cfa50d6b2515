package text

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/ledongthuc/pdf"

	"github.com/marginote/marginote/capture"
	"github.com/marginote/marginote/model"
)

// Config controls how glyphs are grouped into lines and text boxes. All
// thresholds scale with glyph point size, so pages mixing type sizes group
// sensibly. The zero value disables grouping; start from [DefaultConfig].
type Config struct {
	// LineTolerance is the largest vertical distance between baselines,
	// as a fraction of the larger point size, for two glyphs to share a
	// line.
	LineTolerance float64

	// CharGap is the largest horizontal gap, as a multiple of the wider
	// glyph, before a line is split into separate runs. Keeps side by
	// side columns from fusing into one line.
	CharGap float64

	// WordGap is the smallest horizontal gap, as a fraction of the
	// incoming glyph, that synthesizes an inter-word space. Zero turns
	// space synthesis off.
	WordGap float64

	// BoxGap is the largest vertical gap between a text box and the next
	// line, as a fraction of the taller of the two, for the line to join
	// the box.
	BoxGap float64

	// Password unlocks encrypted documents. It is tried once; the empty
	// string opens unprotected documents only.
	Password string
}

// DefaultConfig returns grouping thresholds that work well for common
// body text.
func DefaultConfig() Config {
	return Config{
		LineTolerance: 0.5,
		CharGap:       2.0,
		WordGap:       0.1,
		BoxGap:        0.5,
	}
}

// Source walks the positioned text of a PDF and replays it to a
// [capture.Listener] one page at a time.
//
// Glyphs are grouped into lines by baseline and lines into text boxes by
// vertical proximity, both visited top to bottom so listeners see the page
// in reading order. Word breaks the PDF encodes purely by positioning are
// synthesized as whitespace events.
type Source struct {
	cfg    Config
	reader *pdf.Reader

	// file is owned when the source was built by Open.
	file *os.File
}

// Open opens the PDF at path with [DefaultConfig] thresholds.
func Open(path string) (*Source, error) {
	return OpenWithConfig(path, DefaultConfig())
}

// OpenWithConfig opens the PDF at path. The returned source keeps the file
// open until Close.
func OpenWithConfig(path string, cfg Config) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	s, err := NewSourceWithConfig(f, fi.Size(), cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.file = f
	return s, nil
}

// NewSource reads a PDF from ra with [DefaultConfig] thresholds.
func NewSource(ra io.ReaderAt, size int64) (*Source, error) {
	return NewSourceWithConfig(ra, size, DefaultConfig())
}

// NewSourceWithConfig reads a PDF from ra. The caller keeps ownership of
// ra; Close is only needed for sources built by Open.
func NewSourceWithConfig(ra io.ReaderAt, size int64, cfg Config) (*Source, error) {
	var (
		r   *pdf.Reader
		err error
	)
	if cfg.Password != "" {
		tried := false
		r, err = pdf.NewReaderEncrypted(ra, size, func() string {
			if tried {
				return ""
			}
			tried = true
			return cfg.Password
		})
	} else {
		r, err = pdf.NewReader(ra, size)
	}
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return &Source{cfg: cfg, reader: r}, nil
}

// Close releases the underlying file for sources built by [Open].
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// PageCount reports the number of pages in the document.
func (s *Source) PageCount() int {
	return s.reader.NumPage()
}

// EmitPage replays the text of one page as listener events: a container
// per text box, a container per line inside it, each glyph with its box,
// synthesized spaces at word gaps and a line break closing every line.
// Ordinals count from zero.
func (s *Source) EmitPage(ordinal int, l capture.Listener) error {
	texts, err := s.pageTexts(ordinal)
	if err != nil {
		return err
	}
	emitTexts(texts, s.cfg, l)
	return nil
}

// LineBoxes returns the box of every text line on one page, top to bottom.
// Used to estimate a page's column layout without running capture.
func (s *Source) LineBoxes(ordinal int) ([]model.BBox, error) {
	texts, err := s.pageTexts(ordinal)
	if err != nil {
		return nil, err
	}
	lines := buildLines(texts, s.cfg)
	boxes := make([]model.BBox, len(lines))
	for i, ln := range lines {
		boxes[i] = ln.box
	}
	return boxes, nil
}

// pageTexts loads the positioned glyphs of one page. The underlying
// interpreter panics on malformed content streams, so recover into an
// error instead of taking the whole run down.
func (s *Source) pageTexts(ordinal int) (texts []pdf.Text, err error) {
	if ordinal < 0 || ordinal >= s.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d)", ordinal+1, s.reader.NumPage())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d content: %v", ordinal+1, r)
		}
	}()
	page := s.reader.Page(ordinal + 1)
	if page.V.IsNull() {
		return nil, nil
	}
	return page.Content().Text, nil
}

// =============================================================================
// Layout Grouping
// =============================================================================

// line is a run of glyphs sharing a baseline, split where the horizontal
// gap is too wide to belong to the same run.
type line struct {
	glyphs []pdf.Text
	box    model.BBox
}

// textBox is a stack of vertically adjacent lines. Whole-box matching
// happens at this granularity when the box closes.
type textBox struct {
	lines []line
	box   model.BBox

	// lastBottom and lastHeight describe the most recently added line,
	// which the next candidate line is measured against.
	lastBottom float64
	lastHeight float64
}

// glyphBox is the area a glyph is matched against: its advance width,
// rising one point size from the baseline.
func glyphBox(g pdf.Text) model.BBox {
	return model.NewBBox(g.X, g.Y, g.W, g.FontSize)
}

// buildLines groups glyphs into lines: sorted top to bottom, banded by
// baseline, ordered left to right within a band, and split where the
// horizontal gap exceeds CharGap.
func buildLines(texts []pdf.Text, cfg Config) []line {
	if len(texts) == 0 {
		return nil
	}
	glyphs := make([]pdf.Text, len(texts))
	copy(glyphs, texts)
	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var bands [][]pdf.Text
	band := []pdf.Text{glyphs[0]}
	anchor := glyphs[0]
	for _, g := range glyphs[1:] {
		tol := cfg.LineTolerance * math.Max(g.FontSize, anchor.FontSize)
		if math.Abs(g.Y-anchor.Y) <= tol {
			band = append(band, g)
			continue
		}
		bands = append(bands, band)
		band = []pdf.Text{g}
		anchor = g
	}
	bands = append(bands, band)

	var lines []line
	for _, band := range bands {
		sort.SliceStable(band, func(i, j int) bool {
			return band[i].X < band[j].X
		})
		start := 0
		for i := 1; i < len(band); i++ {
			prev, cur := band[i-1], band[i]
			gap := cur.X - (prev.X + prev.W)
			if gap > cfg.CharGap*math.Max(prev.W, cur.W) {
				lines = append(lines, newLine(band[start:i]))
				start = i
			}
		}
		lines = append(lines, newLine(band[start:]))
	}
	return lines
}

func newLine(glyphs []pdf.Text) line {
	box := glyphBox(glyphs[0])
	for _, g := range glyphs[1:] {
		box = box.Union(glyphBox(g))
	}
	return line{glyphs: glyphs, box: box}
}

// groupBoxes stacks lines into text boxes. A line joins the box it
// horizontally overlaps whose last line is vertically closest, provided
// the gap stays within BoxGap; otherwise it starts a new box.
func groupBoxes(lines []line, cfg Config) []textBox {
	var boxes []textBox
	for _, ln := range lines {
		best := -1
		bestGap := math.Inf(1)
		for i := range boxes {
			b := &boxes[i]
			if ln.box.Left() >= b.box.Right() || ln.box.Right() <= b.box.Left() {
				continue
			}
			gap := b.lastBottom - ln.box.Top()
			if gap < 0 {
				gap = 0
			}
			if gap <= cfg.BoxGap*math.Max(b.lastHeight, ln.box.Height) && gap < bestGap {
				best = i
				bestGap = gap
			}
		}
		if best < 0 {
			boxes = append(boxes, textBox{
				lines:      []line{ln},
				box:        ln.box,
				lastBottom: ln.box.Bottom(),
				lastHeight: ln.box.Height,
			})
			continue
		}
		b := &boxes[best]
		b.lines = append(b.lines, ln)
		b.box = b.box.Union(ln.box)
		b.lastBottom = ln.box.Bottom()
		b.lastHeight = ln.box.Height
	}
	return boxes
}

// =============================================================================
// Event Emission
// =============================================================================

// emitTexts replays glyphs to the listener in reading order.
func emitTexts(texts []pdf.Text, cfg Config, l capture.Listener) {
	for _, b := range groupBoxes(buildLines(texts, cfg), cfg) {
		l.EnterContainer(b.box)
		for _, ln := range b.lines {
			emitLine(ln, cfg, l)
		}
		l.ExitContainer(b.box, true)
	}
}

// emitLine walks one line left to right, synthesizing a space wherever the
// gap is wide enough to be a word break, and closes with a line break.
func emitLine(ln line, cfg Config, l capture.Listener) {
	l.EnterContainer(ln.box)
	var right float64
	for i, g := range ln.glyphs {
		if i > 0 && cfg.WordGap > 0 && g.X-right > cfg.WordGap*math.Max(g.W, g.FontSize) {
			l.Whitespace(" ")
		}
		l.Glyph(g.S, glyphBox(g))
		right = g.X + g.W
	}
	l.Whitespace("\n")
	l.ExitContainer(ln.box, false)
}
