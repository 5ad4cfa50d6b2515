package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/marginote/marginote/model"
)

// jsonNote is the wire shape of one record. The struct fixes the field
// order so output is stable across runs.
type jsonNote struct {
	Type    string `json:"type"`
	Level   int    `json:"level,omitempty"`
	Title   string `json:"title,omitempty"`
	Page    int    `json:"page,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Text    string `json:"text,omitempty"`
	Comment string `json:"comment,omitempty"`
	Author  string `json:"author,omitempty"`
}

// renderJSON writes the records as an indented JSON array. Outline records
// carry their level and title; annotation records carry page, kind,
// captured text, comment and author. Annotations without usable text,
// whether boxless or with boxes that captured nothing, have no text field
// rather than a sentinel.
func (r *Renderer) renderJSON(notes []model.Note, w io.Writer) ([]model.Warning, error) {
	records := make([]jsonNote, 0, len(notes))
	var warnings []model.Warning
	for _, n := range notes {
		switch {
		case n.Outline != nil:
			records = append(records, jsonNote{
				Type:  "outline",
				Level: n.Outline.Level,
				Title: n.Outline.Title,
			})
		case n.Annotation != nil:
			a := n.Annotation
			if emptyNote(a) {
				warnings = append(warnings, emptyNoteWarning(a))
				continue
			}
			text := a.Text()
			if text == model.NoText || text == model.MissingText {
				text = ""
			}
			records = append(records, jsonNote{
				Type:    "annotation",
				Page:    a.Page.Number(),
				Kind:    a.Kind.String(),
				Text:    text,
				Comment: a.Contents,
				Author:  a.Author,
			})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return warnings, fmt.Errorf("encoding notes: %w", err)
	}
	return warnings, nil
}
