package outline

import (
	"fmt"
	"math"
	"strings"

	"github.com/marginote/marginote/model"
)

// Target is a fully classified destination: the supported kind, the page it
// refers to, and the coordinates reading order will use.
type Target struct {
	Kind TargetKind
	Page PageRef
	X, Y float64
}

// ClassifyDest maps an explicit destination array onto the closed set of
// supported targets. XYZ destinations keep their coordinates; fit-page
// destinations resolve to the top of the page (infinite y, clamped into the
// media box during ordering); everything else is unsupported.
func ClassifyDest(arr *DestArray) Target {
	switch arr.Kind {
	case "XYZ":
		return Target{Kind: TargetXYZ, Page: arr.Page, X: arr.X, Y: arr.Y}
	case "Fit":
		return Target{Kind: TargetFitPage, Page: arr.Page, X: 0, Y: math.Inf(1)}
	default:
		return Target{Kind: TargetUnsupported, Page: arr.Page}
	}
}

// PageRegistry maps destination page references onto document pages. The
// document reader implements this over its page table.
type PageRegistry interface {
	// PageByIndex returns the page with the given zero-based index.
	PageByIndex(index int) (*model.Page, bool)

	// PageByObjectID returns the page whose page object has the given
	// object number.
	PageByObjectID(id int) (*model.Page, bool)
}

// NameTable looks up named destinations. The document reader implements
// this over the document's destination name tree.
type NameTable interface {
	// LookupDest returns the explicit destination registered under name.
	LookupDest(name string) (*DestArray, bool)
}

// Resolver turns raw bookmarks into positioned outline entries.
type Resolver struct {
	pages PageRegistry
	names NameTable
}

// NewResolver creates a resolver over the given page registry and named
// destination table.
func NewResolver(pages PageRegistry, names NameTable) *Resolver {
	return &Resolver{pages: pages, names: names}
}

// Resolve processes bookmarks in order and returns the entries that resolve
// to a supported target on a known page. Individually broken entries are
// dropped with a warning: missing titles, unsupported destination kinds,
// page references that match nothing. A named destination that is absent
// from the document's tables is a structural failure and returns an error;
// callers treat that as the whole outline being unusable.
func (r *Resolver) Resolve(bookmarks []Bookmark) ([]*model.Outline, []model.Warning, error) {
	var outlines []*model.Outline
	var warnings []model.Warning

	for _, b := range bookmarks {
		raw := b.Dest
		if raw.IsZero() && b.Action != nil && b.Action.Type == "GoTo" {
			raw = b.Action.Dest
		}
		if raw.IsZero() {
			// Entries without a usable destination (no destination at
			// all, or a non-GoTo action) are silently skipped.
			continue
		}

		arr := raw.Array
		if arr == nil {
			resolved, ok := r.names.LookupDest(raw.Name)
			if !ok {
				return nil, warnings, fmt.Errorf("named destination %q not found", raw.Name)
			}
			arr = resolved
		}

		title := strings.TrimSpace(b.Title)
		if title == "" {
			warnings = append(warnings, model.Warningf(model.WarnUntitledBookmark, 0,
				"dropping untitled outline entry with destination %s", raw))
			continue
		}

		target := ClassifyDest(arr)
		if target.Kind == TargetUnsupported {
			warnings = append(warnings, model.Warningf(model.WarnUnsupportedDest, 0,
				"dropping outline entry %q: unsupported destination kind /%s", title, arr.Kind))
			continue
		}

		page, ok := r.lookupPage(target.Page)
		if !ok {
			warnings = append(warnings, model.Warningf(model.WarnUnresolvedPage, 0,
				"dropping outline entry %q: destination %s matches no page", title, raw))
			continue
		}

		pos := model.NewPos(page, target.X, target.Y)
		outlines = append(outlines, model.NewOutline(b.Level, title, raw.String(), pos))
	}

	return outlines, warnings, nil
}

func (r *Resolver) lookupPage(ref PageRef) (*model.Page, bool) {
	if ref.Indirect {
		return r.pages.PageByObjectID(ref.ObjectID)
	}
	return r.pages.PageByIndex(ref.Index)
}
