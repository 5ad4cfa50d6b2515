package marginote

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marginote/marginote/capture"
	"github.com/marginote/marginote/layout"
	"github.com/marginote/marginote/model"
	"github.com/marginote/marginote/outline"
	"github.com/marginote/marginote/reader"
	"github.com/marginote/marginote/render"
	"github.com/marginote/marginote/text"
)

// Notes is the result of an extraction run: annotations and outline headings
// merged into a single reading-order sequence.
type Notes struct {
	// Records holds the merged records. Outline headings come before
	// annotations that share their position.
	Records []model.Note

	// Document is the page tree the records were extracted from, with
	// each page's annotations attached in reading order.
	Document *model.Document

	// Columns is the per-page column count the reading order was
	// computed with.
	Columns int
}

// Extractor provides a fluent interface for extracting annotated notes from
// PDF files. Each configuration method returns a new Extractor instance,
// making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source (one of the two is set)
	filename string
	ra       io.ReaderAt
	raSize   int64

	// Readers: annotations and outlines come from doc, page text from src.
	doc *reader.Reader
	src *text.Source

	// Lifecycle
	readersOpened bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Extractor with a copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:      e.filename,
		ra:            e.ra,
		raSize:        e.raSize,
		doc:           e.doc,
		src:           e.src,
		readersOpened: e.readersOpened,
		options:       e.options.clone(),
		err:           e.err,
		warnings:      append([]Warning(nil), e.warnings...),
	}
}

// ensureReaders opens the annotation reader and the text source if not
// already open. Both views read the same bytes: doc decodes annotations,
// outlines, and page geometry, src replays each page's text layer.
func (e *Extractor) ensureReaders() error {
	if e.readersOpened {
		return nil
	}

	rcfg := reader.DefaultConfig()
	rcfg.Password = e.options.password
	tcfg := text.DefaultConfig()
	tcfg.Password = e.options.password

	switch {
	case e.filename != "":
		doc, err := reader.OpenWithConfig(e.filename, rcfg)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		src, err := text.OpenWithConfig(e.filename, tcfg)
		if err != nil {
			doc.Close()
			return fmt.Errorf("failed to open PDF text layer: %w", err)
		}
		e.doc = doc
		e.src = src

	case e.ra != nil:
		doc, err := reader.NewReaderWithConfig(io.NewSectionReader(e.ra, 0, e.raSize), rcfg)
		if err != nil {
			return fmt.Errorf("failed to read PDF: %w", err)
		}
		src, err := text.NewSourceWithConfig(e.ra, e.raSize, tcfg)
		if err != nil {
			doc.Close()
			return fmt.Errorf("failed to read PDF text layer: %w", err)
		}
		e.doc = doc
		e.src = src

	default:
		return fmt.Errorf("no input specified")
	}

	e.readersOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	var first error
	if e.doc != nil {
		if err := e.doc.Close(); err != nil {
			first = err
		}
		e.doc = nil
	}
	if e.src != nil {
		if err := e.src.Close(); err != nil && first == nil {
			first = err
		}
		e.src = nil
	}
	e.readersOpened = false
	return first
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// WithColumns sets the number of text columns per page used to order
// annotations and headings. The default is a single column. Calling
// WithColumns turns automatic estimation back off.
//
// Example:
//
//	notes, _, err := marginote.Open("paper.pdf").WithColumns(2).Notes()
func (e *Extractor) WithColumns(n int) *Extractor {
	newExt := e.clone()
	if n < 1 {
		newExt.err = fmt.Errorf("columns must be at least 1, got %d", n)
		return newExt
	}
	newExt.options.columns = n
	newExt.options.autoColumns = false
	return newExt
}

// WithAutoColumns estimates the column count from the text layout of the
// annotated pages instead of using a fixed count.
//
// Example:
//
//	notes, _, err := marginote.Open("paper.pdf").WithAutoColumns().Notes()
func (e *Extractor) WithAutoColumns() *Extractor {
	newExt := e.clone()
	newExt.options.autoColumns = true
	return newExt
}

// WithPassword supplies the password for encrypted documents.
//
// Example:
//
//	notes, _, err := marginote.Open("locked.pdf").WithPassword("hunter2").Notes()
func (e *Extractor) WithPassword(password string) *Extractor {
	newExt := e.clone()
	newExt.options.password = password
	return newExt
}

// WithStem overrides the document name used in rendered output. By default
// the stem is the input filename without its directory and extension.
//
// Example:
//
//	warnings, err := marginote.Open("2019-draft-final-v3.pdf").
//	    WithStem("Boundary Layers").
//	    Markdown(os.Stdout)
func (e *Extractor) WithStem(stem string) *Extractor {
	newExt := e.clone()
	newExt.options.stem = stem
	return newExt
}

// ============================================================================
// Non-Terminal Operations (leave the file open)
// ============================================================================

// PageCount returns the number of pages in the document. It leaves the file
// open so the Extractor can still be used; close it explicitly or finish
// with a terminal operation.
//
// Example:
//
//	ext := marginote.Open("paper.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReaders(); err != nil {
		return 0, err
	}
	return e.doc.PageCount(), nil
}

// ============================================================================
// Terminal Operations (extract, then close the file)
// ============================================================================

// Notes decodes the document's annotations, captures the page text their
// boxes cover, resolves the outline, and merges everything into reading
// order. It is a terminal operation: the underlying file is closed before
// it returns.
//
// Example:
//
//	notes, warnings, err := marginote.Open("paper.pdf").Notes()
func (e *Extractor) Notes() (*Notes, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	if err := e.ensureReaders(); err != nil {
		return nil, nil, err
	}
	defer e.Close()

	warnings := append([]Warning(nil), e.warnings...)
	warnings = append(warnings, e.doc.Warnings()...)

	doc := e.doc.Document()

	// Decode every page's annotations up front so the column estimate can
	// see which pages carry notes.
	for _, page := range doc.Pages {
		annots, ws := e.doc.Annotations(page)
		warnings = append(warnings, ws...)
		page.Annotations = annots
	}

	columns := e.options.columns
	if e.options.autoColumns {
		columns = e.estimateColumns(doc)
	}

	// Replay each page's text layer into the annotation boxes.
	collector := capture.NewCollector()
	for _, page := range doc.Pages {
		sortAnnotations(page.Annotations, columns)
		if !anyBoxed(page.Annotations) {
			continue
		}
		collector.SetAnnotations(page.Annotations)
		if err := e.src.EmitPage(page.Ordinal, collector); err != nil {
			return nil, warnings, fmt.Errorf("page %d: %w", page.Number(), err)
		}
	}

	for _, a := range doc.Annotations() {
		if a.HasBoxes() && a.Text() == model.MissingText {
			warnings = append(warnings, model.Warningf(model.WarnMissingText, a.Page.Number(),
				"%s annotation's boxes captured no text", a.Kind))
		}
	}

	outlines, ws := e.resolveOutlines()
	warnings = append(warnings, ws...)

	return &Notes{
		Records:  assembleNotes(outlines, doc, columns),
		Document: doc,
		Columns:  columns,
	}, warnings, nil
}

// Markdown extracts the notes and writes them to w as a markdown report.
// It is a terminal operation.
//
// Example:
//
//	warnings, err := marginote.Open("paper.pdf").Markdown(os.Stdout)
func (e *Extractor) Markdown(w io.Writer) ([]Warning, error) {
	return e.renderTo(render.FormatMarkdown, w)
}

// JSON extracts the notes and writes them to w as a JSON array of records.
// It is a terminal operation.
func (e *Extractor) JSON(w io.Writer) ([]Warning, error) {
	return e.renderTo(render.FormatJSON, w)
}

// HTML extracts the notes and writes them to w as a standalone HTML page.
// It is a terminal operation.
func (e *Extractor) HTML(w io.Writer) ([]Warning, error) {
	return e.renderTo(render.FormatHTML, w)
}

// MustMarkdown renders the markdown report as a string and panics on error.
// It is intended for scripts and tests.
func (e *Extractor) MustMarkdown() string {
	var buf bytes.Buffer
	if _, err := e.Markdown(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// MustJSON renders the JSON records as a string and panics on error.
func (e *Extractor) MustJSON() string {
	var buf bytes.Buffer
	if _, err := e.JSON(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// MustHTML renders the HTML page as a string and panics on error.
func (e *Extractor) MustHTML() string {
	var buf bytes.Buffer
	if _, err := e.HTML(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// renderTo runs the extraction and renders the records in the given format.
func (e *Extractor) renderTo(format render.Format, w io.Writer) ([]Warning, error) {
	notes, warnings, err := e.Notes()
	if err != nil {
		return warnings, err
	}
	r := render.NewRendererWithConfig(render.Config{Format: format, Stem: e.stem()})
	ws, err := r.Render(notes.Records, w)
	return append(warnings, ws...), err
}

// stem returns the document name used in rendered output.
func (e *Extractor) stem() string {
	if e.options.stem != "" {
		return e.options.stem
	}
	if e.filename == "" {
		return "document"
	}
	base := filepath.Base(e.filename)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

// resolveOutlines reads the bookmark tree and resolves each entry to a page
// position. A document without a bookmark tree is not an error; extraction
// carries on with annotations only.
func (e *Extractor) resolveOutlines() ([]*model.Outline, []Warning) {
	bookmarks, err := e.doc.Bookmarks()
	if err != nil {
		if errors.Is(err, reader.ErrNoOutline) {
			return nil, []Warning{model.Warningf(model.WarnNoOutline, 0,
				"document does not include an outline")}
		}
		return nil, []Warning{model.Warningf(model.WarnOutlineFailed, 0,
			"failed to retrieve outline: %v", err)}
	}
	outlines, ws, err := outline.NewResolver(e.doc, e.doc).Resolve(bookmarks)
	if err != nil {
		return nil, append(ws, model.Warningf(model.WarnOutlineFailed, 0,
			"failed to resolve outline: %v", err))
	}
	return outlines, ws
}

// estimateColumns measures the text layout of the annotated pages and lets
// the layout package vote on a column count. Pages whose text cannot be
// read do not vote.
func (e *Extractor) estimateColumns(doc *model.Document) int {
	var pages []layout.PageLines
	for _, page := range doc.Pages {
		if len(page.Annotations) == 0 {
			continue
		}
		lines, err := e.src.LineBoxes(page.Ordinal)
		if err != nil {
			continue
		}
		pages = append(pages, layout.PageLines{
			Lines:  lines,
			Width:  page.MediaBox.Width,
			Height: page.MediaBox.Height,
		})
	}
	return layout.NewColumnEstimator().Estimate(pages)
}

// sortAnnotations orders a page's annotations by start position, in place.
// Annotations without any position sort after positioned ones and keep
// their decode order.
func sortAnnotations(annots []*model.Annotation, columns int) {
	sort.SliceStable(annots, func(i, j int) bool {
		pi, iok := annots[i].StartPos()
		pj, jok := annots[j].StartPos()
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return pi.Less(pj, columns)
	})
}

// assembleNotes merges outline headings and annotations into one sequence
// ordered by position. Headings are listed ahead of annotations so a tie
// sorts the heading first. Annotations without a position are left out;
// there is nowhere to place them.
func assembleNotes(outlines []*model.Outline, doc *model.Document, columns int) []model.Note {
	annots := doc.Annotations()
	records := make([]model.Note, 0, len(outlines)+len(annots))
	for _, o := range outlines {
		records = append(records, model.Note{Outline: o})
	}
	for _, a := range annots {
		if _, ok := a.StartPos(); !ok {
			continue
		}
		records = append(records, model.Note{Annotation: a})
	}
	sort.SliceStable(records, func(i, j int) bool {
		pi, _ := records[i].Pos()
		pj, _ := records[j].Pos()
		return pi.Less(pj, columns)
	})
	return records
}

// anyBoxed reports whether at least one annotation carries quad boxes and
// can therefore capture page text.
func anyBoxed(annots []*model.Annotation) bool {
	for _, a := range annots {
		if a.HasBoxes() {
			return true
		}
	}
	return false
}
