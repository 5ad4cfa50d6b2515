package model

// Note is one record of the assembled reading order: either an outline
// heading or an annotation, never both. Renderers switch on which field is
// set.
type Note struct {
	Outline    *Outline
	Annotation *Annotation
}

// Pos returns the record's reading-order position. The second return value
// is false for annotation records that have no position at all.
func (n Note) Pos() (Pos, bool) {
	if n.Outline != nil {
		return n.Outline.Pos, true
	}
	if n.Annotation != nil {
		return n.Annotation.StartPos()
	}
	return Pos{}, false
}
