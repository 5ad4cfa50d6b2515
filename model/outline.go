package model

// Outline represents one resolved entry of the document's bookmark tree: a
// title, its nesting depth, and the position its destination points at.
type Outline struct {
	// Level is the nesting depth, starting at 1 for top-level entries.
	Level int

	// Title is the bookmark's title with surrounding whitespace removed.
	Title string

	// Dest describes the raw destination, for diagnostics only.
	Dest string

	// Pos is the resolved target position used for reading order.
	Pos Pos
}

// NewOutline creates a resolved outline entry.
func NewOutline(level int, title, dest string, pos Pos) *Outline {
	return &Outline{Level: level, Title: title, Dest: dest, Pos: pos}
}
