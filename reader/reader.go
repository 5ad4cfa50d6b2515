package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/marginote/marginote/internal/textenc"
	"github.com/marginote/marginote/model"
	"github.com/marginote/marginote/outline"
)

// ErrNoOutline reports that the document carries no bookmark tree at all,
// as opposed to one that could not be resolved.
var ErrNoOutline = errors.New("document has no outline")

// letterBox is substituted for pages without a usable media box.
var letterBox = model.NewBBox(0, 0, 612, 792)

// Config controls how a document is opened.
type Config struct {
	// Password decrypts protected documents. It is tried as both the user
	// and the owner password. Leave empty for unprotected files.
	Password string
}

// DefaultConfig returns the default reader configuration.
func DefaultConfig() Config {
	return Config{}
}

// Reader reads a PDF's structure: pages, annotations, bookmarks and named
// destinations. It does not touch page content; positioned text comes from
// the layout engine.
type Reader struct {
	ctx  *pdfcpu.Context
	file *os.File // owned when opened from a path, nil otherwise

	doc       *model.Document
	pageDicts []types.Dict
	pagesByID map[int]*model.Page
	warnings  []model.Warning
}

// The reader doubles as the outline resolver's view of the document.
var (
	_ outline.PageRegistry = (*Reader)(nil)
	_ outline.NameTable    = (*Reader)(nil)
)

// Open opens the PDF at path.
func Open(path string) (*Reader, error) {
	return OpenWithConfig(path, DefaultConfig())
}

// OpenWithConfig opens the PDF at path with the given configuration.
func OpenWithConfig(path string, cfg Config) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, err := NewReaderWithConfig(f, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads a document from rs, which the caller keeps ownership of.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	return NewReaderWithConfig(rs, DefaultConfig())
}

// NewReaderWithConfig reads a document from rs with the given configuration.
func NewReaderWithConfig(rs io.ReadSeeker, cfg Config) (*Reader, error) {
	conf := pdfcpu.NewDefaultConfiguration()
	if cfg.Password != "" {
		conf.UserPW = cfg.Password
		conf.OwnerPW = cfg.Password
	}

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	// A bare read leaves the page count and the catalog unresolved;
	// validation fills in both.
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate document: %w", err)
	}

	r := &Reader{
		ctx:       ctx,
		pagesByID: make(map[int]*model.Page),
	}
	if err := r.buildPages(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the underlying file when the reader owns one.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// buildPages walks the page tree once, recording each page's media box and
// object number. Everything later (annotations, destinations) keys off this
// table.
func (r *Reader) buildPages() error {
	doc := model.NewDocument()
	for n := 1; n <= r.ctx.PageCount; n++ {
		pageDict, pageRef, attrs, err := r.ctx.PageDict(n, false)
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", n, err)
		}

		box := letterBox
		if attrs != nil && attrs.MediaBox != nil {
			mb := attrs.MediaBox
			box = model.NewBBoxFromCorners(mb.LL.X, mb.LL.Y, mb.UR.X, mb.UR.Y)
		} else {
			r.warnings = append(r.warnings, model.Warningf(model.WarnMissingMediaBox, n,
				"no media box, assuming %g x %g", letterBox.Width, letterBox.Height))
		}

		page := model.NewPage(n-1, box)
		doc.AddPage(page)
		r.pageDicts = append(r.pageDicts, pageDict)
		if pageRef != nil {
			r.pagesByID[pageRef.ObjectNumber.Value()] = page
		}
	}
	r.doc = doc
	return nil
}

// PageCount returns the number of pages.
func (r *Reader) PageCount() int {
	return r.doc.PageCount()
}

// Document returns the page scaffold built at open time. Pages carry no
// annotations until [Reader.Annotations] fills them in.
func (r *Reader) Document() *model.Document {
	return r.doc
}

// Warnings returns the problems found while opening the document.
func (r *Reader) Warnings() []model.Warning {
	return r.warnings
}

// PageByIndex implements [outline.PageRegistry].
func (r *Reader) PageByIndex(index int) (*model.Page, bool) {
	p := r.doc.PageAt(index)
	return p, p != nil
}

// PageByObjectID implements [outline.PageRegistry].
func (r *Reader) PageByObjectID(id int) (*model.Page, bool) {
	p, ok := r.pagesByID[id]
	return p, ok
}

// ============================================================================
// Annotations
// ============================================================================

// Annotations decodes the markup annotations on page. Unsupported subtypes
// are skipped. Malformed geometry degrades per annotation: the annotation is
// kept without the broken part and a warning describes what was dropped.
func (r *Reader) Annotations(page *model.Page) ([]*model.Annotation, []model.Warning) {
	pageDict := r.pageDicts[page.Ordinal]
	if pageDict == nil {
		return nil, nil
	}
	obj, found := pageDict.Find("Annots")
	if !found {
		return nil, nil
	}
	arr, err := r.ctx.DereferenceArray(obj)
	if err != nil {
		return nil, []model.Warning{model.Warningf(model.WarnMalformedAnnotation, page.Number(),
			"unreadable annotation array: %v", err)}
	}

	var annots []*model.Annotation
	var warnings []model.Warning
	for _, item := range arr {
		dict, err := r.ctx.DereferenceDict(item)
		if err != nil || dict == nil {
			continue
		}
		if a, ws, ok := annotationFromDict(dict, page, r.deref); ok {
			annots = append(annots, a)
			warnings = append(warnings, ws...)
		}
	}
	return annots, warnings
}

// annotationFromDict decodes a single annotation dictionary. The second
// return value carries warnings about parts that had to be dropped; the
// third is false when the annotation is not a supported markup subtype.
func annotationFromDict(dict types.Dict, page *model.Page, deref derefFunc) (*model.Annotation, []model.Warning, bool) {
	subtype, ok := nameValue(dict, "Subtype", deref)
	if !ok {
		return nil, nil, false
	}
	kind, ok := model.KindFromSubtype(subtype)
	if !ok {
		return nil, nil, false
	}

	a := model.NewAnnotation(page, kind)
	var warnings []model.Warning

	if s, ok := decodeTextString(dict["Contents"], deref); ok {
		a.Contents = normalizeContents(s)
	}
	if s, ok := decodeTextString(dict["T"], deref); ok {
		a.Author = s
	}

	if obj, found := dict.Find("Rect"); found {
		if coords, err := floatsFromArray(obj, deref); err == nil && len(coords) == 4 {
			rect := model.NewBBoxFromCorners(coords[0], coords[1], coords[2], coords[3])
			a.Rect = &rect
		} else {
			warnings = append(warnings, model.Warningf(model.WarnMalformedAnnotation, page.Number(),
				"%s annotation has an unusable rect", kind))
		}
	}

	if obj, found := dict.Find("QuadPoints"); found {
		coords, err := floatsFromArray(obj, deref)
		if err == nil {
			if boxes, qerr := model.BoxesFromQuadPoints(coords); qerr == nil {
				a.Boxes = boxes
			} else {
				err = qerr
			}
		}
		if err != nil {
			warnings = append(warnings, model.Warningf(model.WarnMalformedAnnotation, page.Number(),
				"%s annotation kept without boxes: %v", kind, err))
		}
	}

	return a, warnings, true
}

// normalizeContents canonicalizes the line endings of an annotation comment
// and maps typographic characters the way captured text is mapped.
func normalizeContents(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return model.CleanText(s)
}

// ============================================================================
// Outline
// ============================================================================

// Bookmarks returns the document's raw outline entries flattened in tree
// order, each with its nesting level. Documents without an outline return
// [ErrNoOutline]; a tree that exists but cannot be walked returns a
// different error, which callers report as a resolution failure.
func (r *Reader) Bookmarks() ([]outline.Bookmark, error) {
	if r.ctx.RootDict == nil {
		return nil, ErrNoOutline
	}
	obj, found := r.ctx.RootDict.Find("Outlines")
	if !found {
		return nil, ErrNoOutline
	}
	root, err := r.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to load outline root: %w", err)
	}
	if root == nil {
		return nil, ErrNoOutline
	}
	first, found := root.Find("First")
	if !found {
		return nil, nil
	}

	var bms []outline.Bookmark
	seen := make(map[int]bool)
	if err := r.walkBookmarks(first, 1, seen, &bms); err != nil {
		return nil, err
	}
	return bms, nil
}

// walkBookmarks visits an outline item chain depth-first, children before
// siblings, the order the entries appear in a viewer's outline panel. The
// seen set breaks reference cycles in malformed documents.
func (r *Reader) walkBookmarks(item types.Object, level int, seen map[int]bool, out *[]outline.Bookmark) error {
	for item != nil {
		if ref, ok := item.(types.IndirectRef); ok {
			id := ref.ObjectNumber.Value()
			if seen[id] {
				return nil
			}
			seen[id] = true
		}
		dict, err := r.ctx.DereferenceDict(item)
		if err != nil {
			return fmt.Errorf("failed to load outline item: %w", err)
		}
		if dict == nil {
			return nil
		}

		bm := outline.Bookmark{Level: level}
		if title, ok := decodeTextString(dict["Title"], r.deref); ok {
			bm.Title = title
		}
		if obj, found := dict.Find("Dest"); found {
			bm.Dest = r.rawDest(obj)
		}
		if obj, found := dict.Find("A"); found {
			bm.Action = r.action(obj)
		}
		*out = append(*out, bm)

		if first, found := dict.Find("First"); found {
			if err := r.walkBookmarks(first, level+1, seen, out); err != nil {
				return err
			}
		}

		next, found := dict.Find("Next")
		if !found {
			return nil
		}
		item = next
	}
	return nil
}

// action decodes an action dictionary. Non-dictionary actions and actions
// without a type come back as a typeless action the resolver ignores.
func (r *Reader) action(obj types.Object) *outline.Action {
	dict, err := r.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return nil
	}
	act := &outline.Action{}
	if s, ok := nameValue(dict, "S", r.deref); ok {
		act.Type = s
	}
	if obj, found := dict.Find("D"); found {
		act.Dest = r.rawDest(obj)
	}
	return act
}

// rawDest lowers a destination object into the resolver's raw form. A
// destination is a name or byte string (a named reference), an explicit
// array, or a dictionary wrapping one under D.
func (r *Reader) rawDest(obj types.Object) outline.RawDest {
	obj, err := r.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return outline.RawDest{}
	}
	switch v := obj.(type) {
	case types.Name:
		return outline.RawDest{Name: v.Value()}
	case types.StringLiteral:
		if bb, err := types.Unescape(v.Value()); err == nil {
			return outline.RawDest{Name: textenc.Decode(bb)}
		}
	case types.HexLiteral:
		if bb, err := v.Bytes(); err == nil {
			return outline.RawDest{Name: textenc.Decode(bb)}
		}
	case types.Dict:
		if inner, found := v.Find("D"); found {
			return r.rawDest(inner)
		}
	case types.Array:
		if arr := parseDestArray(v, r.deref); arr != nil {
			return outline.RawDest{Array: arr}
		}
	}
	return outline.RawDest{}
}

// parseDestArray decodes an explicit destination array: a page reference,
// a kind name, and the kind's coordinates. Unresolvable page references are
// kept with an index no page can have, so resolution fails loudly instead
// of landing on page zero.
func parseDestArray(arr types.Array, deref derefFunc) *outline.DestArray {
	if len(arr) < 2 {
		return nil
	}

	var ref outline.PageRef
	switch v := arr[0].(type) {
	case types.IndirectRef:
		ref = outline.PageRef{ObjectID: v.ObjectNumber.Value(), Indirect: true}
	case types.Integer:
		ref = outline.PageRef{Index: v.Value()}
	default:
		ref = outline.PageRef{Index: -1}
	}

	kindObj, err := deref(arr[1])
	if err != nil {
		return nil
	}
	kind, ok := kindObj.(types.Name)
	if !ok {
		return nil
	}

	dest := &outline.DestArray{Page: ref, Kind: kind.Value()}
	if len(arr) > 2 {
		dest.X, _ = floatValue(arr[2], deref)
	}
	if len(arr) > 3 {
		dest.Y, _ = floatValue(arr[3], deref)
	}
	return dest
}

// ============================================================================
// Named destinations
// ============================================================================

// LookupDest implements [outline.NameTable]. It checks the legacy Dests
// dictionary first, then walks the Dests name tree.
func (r *Reader) LookupDest(name string) (*outline.DestArray, bool) {
	if r.ctx.RootDict == nil {
		return nil, false
	}

	if obj, found := r.ctx.RootDict.Find("Dests"); found {
		if dict, err := r.ctx.DereferenceDict(obj); err == nil && dict != nil {
			if target, found := dict.Find(name); found {
				return r.destValue(target)
			}
		}
	}

	namesObj, found := r.ctx.RootDict.Find("Names")
	if !found {
		return nil, false
	}
	namesDict, err := r.ctx.DereferenceDict(namesObj)
	if err != nil || namesDict == nil {
		return nil, false
	}
	treeObj, found := namesDict.Find("Dests")
	if !found {
		return nil, false
	}
	return r.lookupNameTree(treeObj, name, make(map[int]bool))
}

// lookupNameTree walks a name tree node looking for name. Nodes hold either
// a Names array of key/value pairs or Kids with child nodes. Limits are
// ignored; trees are small enough that a linear walk beats trusting a
// malformed producer's ordering.
func (r *Reader) lookupNameTree(node types.Object, name string, seen map[int]bool) (*outline.DestArray, bool) {
	if ref, ok := node.(types.IndirectRef); ok {
		id := ref.ObjectNumber.Value()
		if seen[id] {
			return nil, false
		}
		seen[id] = true
	}
	dict, err := r.ctx.DereferenceDict(node)
	if err != nil || dict == nil {
		return nil, false
	}

	if obj, found := dict.Find("Names"); found {
		arr, err := r.ctx.DereferenceArray(obj)
		if err != nil {
			return nil, false
		}
		for i := 0; i+1 < len(arr); i += 2 {
			key, ok := decodeTextString(arr[i], r.deref)
			if !ok || key != name {
				continue
			}
			return r.destValue(arr[i+1])
		}
	}

	if obj, found := dict.Find("Kids"); found {
		kids, err := r.ctx.DereferenceArray(obj)
		if err != nil {
			return nil, false
		}
		for _, kid := range kids {
			if dest, ok := r.lookupNameTree(kid, name, seen); ok {
				return dest, true
			}
		}
	}

	return nil, false
}

// destValue lowers a named destination's value, which is an explicit array
// or a dictionary wrapping one under D.
func (r *Reader) destValue(obj types.Object) (*outline.DestArray, bool) {
	raw := r.rawDest(obj)
	if raw.Array == nil {
		return nil, false
	}
	return raw.Array, true
}

// ============================================================================
// Low-level decoding helpers
// ============================================================================

// derefFunc resolves indirect references. Decoding helpers take it as a
// parameter so they can be exercised without a loaded document.
type derefFunc func(types.Object) (types.Object, error)

func (r *Reader) deref(obj types.Object) (types.Object, error) {
	return r.ctx.Dereference(obj)
}

// decodeTextString decodes a PDF text string entry. Missing entries and
// non-string objects report false.
func decodeTextString(obj types.Object, deref derefFunc) (string, bool) {
	if obj == nil {
		return "", false
	}
	obj, err := deref(obj)
	if err != nil || obj == nil {
		return "", false
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		bb, err := types.Unescape(v.Value())
		if err != nil {
			return "", false
		}
		return textenc.Decode(bb), true
	case types.HexLiteral:
		bb, err := v.Bytes()
		if err != nil {
			return "", false
		}
		return textenc.Decode(bb), true
	}
	return "", false
}

// nameValue resolves a dictionary entry to a name's value.
func nameValue(dict types.Dict, key string, deref derefFunc) (string, bool) {
	obj, found := dict.Find(key)
	if !found {
		return "", false
	}
	obj, err := deref(obj)
	if err != nil {
		return "", false
	}
	if name, ok := obj.(types.Name); ok {
		return name.Value(), true
	}
	return "", false
}

// floatValue reads a number as a float64.
func floatValue(obj types.Object, deref derefFunc) (float64, bool) {
	obj, err := deref(obj)
	if err != nil || obj == nil {
		return 0, false
	}
	switch v := obj.(type) {
	case types.Float:
		return v.Value(), true
	case types.Integer:
		return float64(v.Value()), true
	}
	return 0, false
}

// floatsFromArray resolves obj to an array and reads every element as a
// number.
func floatsFromArray(obj types.Object, deref derefFunc) ([]float64, error) {
	obj, err := deref(obj)
	if err != nil {
		return nil, err
	}
	arr, ok := obj.(types.Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", obj)
	}
	coords := make([]float64, 0, len(arr))
	for i, item := range arr {
		f, ok := floatValue(item, deref)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		coords = append(coords, f)
	}
	return coords, nil
}
