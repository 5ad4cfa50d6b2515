package model

import "fmt"

// WarningCode classifies non-fatal extraction problems.
type WarningCode string

const (
	// WarnMalformedAnnotation marks annotations whose geometry entries
	// could not be decoded; the annotation is kept without boxes.
	WarnMalformedAnnotation WarningCode = "malformed-annotation"

	// WarnMissingMediaBox marks pages without a usable media box; a US
	// Letter box is substituted.
	WarnMissingMediaBox WarningCode = "missing-mediabox"

	// WarnUnsupportedDest marks outline destinations of a kind the
	// resolver does not understand; the entry is dropped.
	WarnUnsupportedDest WarningCode = "unsupported-destination"

	// WarnUnresolvedPage marks outline destinations whose page reference
	// matched no page; the entry is dropped.
	WarnUnresolvedPage WarningCode = "unresolved-page"

	// WarnUntitledBookmark marks outline entries with no title; the entry
	// is dropped.
	WarnUntitledBookmark WarningCode = "untitled-bookmark"

	// WarnNoOutline marks documents without a bookmark tree.
	WarnNoOutline WarningCode = "no-outline"

	// WarnOutlineFailed marks documents whose bookmark tree could not be
	// resolved; extraction continues without outlines.
	WarnOutlineFailed WarningCode = "outline-failed"

	// WarnMissingText marks annotations whose boxes captured no page text.
	WarnMissingText WarningCode = "missing-text"

	// WarnEmptyNote marks annotation records with neither captured text
	// nor a comment; renderers skip them.
	WarnEmptyNote WarningCode = "empty-note"
)

// Warning describes a non-fatal problem encountered during extraction.
// Warnings accumulate instead of aborting the run; callers decide whether
// to surface them.
type Warning struct {
	// Code classifies the problem.
	Code WarningCode

	// Page is the one-based page number the problem occurred on, or zero
	// when it is not tied to a page.
	Page int

	// Message is a human-readable description.
	Message string
}

// Warningf creates a warning with a formatted message. A page of zero means
// the warning is not page-specific.
func Warningf(code WarningCode, page int, format string, args ...any) Warning {
	return Warning{Code: code, Page: page, Message: fmt.Sprintf(format, args...)}
}

// String formats the warning for logs.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}
