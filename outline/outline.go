// Package outline resolves a document's bookmark tree into positioned
// outline entries.
//
// Bookmarks arrive from the document reader in their raw form: a title, a
// nesting level, and a destination that may be an explicit target array, a
// named reference into the document's destination table, or an action that
// carries one of those. The [Resolver] normalizes all of that into
// [model.Outline] values with a concrete page and coordinates, which is
// what reading order needs.
package outline

import (
	"fmt"
)

// TargetKind enumerates the destination forms the resolver understands.
type TargetKind int

const (
	// TargetUnsupported covers every destination kind the resolver does
	// not handle; such entries are dropped with a warning.
	TargetUnsupported TargetKind = iota

	// TargetXYZ is an explicit position on a page.
	TargetXYZ

	// TargetFitPage shows the whole page; it resolves to the top of the
	// page so the entry orders before the page's content.
	TargetFitPage
)

// PageRef identifies the page a destination points at: directly by
// zero-based page index, or indirectly by the page object's number.
type PageRef struct {
	Index    int
	ObjectID int
	Indirect bool
}

func (r PageRef) String() string {
	if r.Indirect {
		return fmt.Sprintf("obj %d", r.ObjectID)
	}
	return fmt.Sprintf("page %d", r.Index)
}

// DestArray is an explicit destination: a page reference, the destination
// kind's name, and the kind's coordinates. Coordinates the document leaves
// out or sets to null read as zero.
type DestArray struct {
	Page PageRef
	Kind string
	X, Y float64
}

// RawDest is a destination before resolution: a named reference or an
// explicit array. The zero value means the bookmark had no destination.
type RawDest struct {
	// Name is the named-destination key to look up, empty for explicit
	// destinations.
	Name string

	// Array is the explicit destination, nil for named ones.
	Array *DestArray
}

// IsZero reports whether no destination is present.
func (d RawDest) IsZero() bool {
	return d.Name == "" && d.Array == nil
}

func (d RawDest) String() string {
	switch {
	case d.Name != "":
		return fmt.Sprintf("name %q", d.Name)
	case d.Array != nil:
		return fmt.Sprintf("[%s /%s %g %g]", d.Array.Page, d.Array.Kind, d.Array.X, d.Array.Y)
	default:
		return "none"
	}
}

// Action is a bookmark action. Only GoTo actions carry a destination the
// resolver can use.
type Action struct {
	Type string
	Dest RawDest
}

// Bookmark is one raw outline entry as the document reader found it.
type Bookmark struct {
	// Level is the nesting depth, 1 for top-level entries.
	Level int

	// Title is the decoded bookmark title.
	Title string

	// Dest is the entry's destination, zero when the entry only has an
	// action.
	Dest RawDest

	// Action is the entry's action, nil when absent.
	Action *Action
}
