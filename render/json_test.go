package render

import (
	"encoding/json"
	"testing"

	"github.com/marginote/marginote/model"
)

func decodeRecords(t *testing.T, got string) []map[string]any {
	t.Helper()
	var records []map[string]any
	if err := json.Unmarshal([]byte(got), &records); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, got)
	}
	return records
}

func TestRenderJSONRecords(t *testing.T) {
	p := testPage(4)
	a := highlight(p, model.KindHighlight, "velocity of money", "compare with ch. 2")
	a.Author = "reviewer"
	notes := []model.Note{
		heading(2, "Background", p),
		note(a),
	}

	r := NewRendererWithConfig(Config{Format: FormatJSON, Stem: "paper"})
	got, warnings, err := r.RenderToString(notes)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	records := decodeRecords(t, got)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	outline := records[0]
	if outline["type"] != "outline" {
		t.Errorf("records[0].type = %v, want outline", outline["type"])
	}
	if outline["level"] != float64(2) {
		t.Errorf("records[0].level = %v, want 2", outline["level"])
	}
	if outline["title"] != "Background" {
		t.Errorf("records[0].title = %v, want Background", outline["title"])
	}
	if _, ok := outline["page"]; ok {
		t.Error("outline record should not carry a page")
	}

	annot := records[1]
	want := map[string]any{
		"type":    "annotation",
		"page":    float64(5),
		"kind":    "Highlight",
		"text":    "velocity of money",
		"comment": "compare with ch. 2",
		"author":  "reviewer",
	}
	for key, w := range want {
		if annot[key] != w {
			t.Errorf("records[1].%s = %v, want %v", key, annot[key], w)
		}
	}
}

func TestRenderJSONOmitsEmptyFields(t *testing.T) {
	p := testPage(1)
	notes := []model.Note{note(popupNote(p, "margin note"))}

	r := NewRendererWithConfig(Config{Format: FormatJSON, Stem: "paper"})
	got, _, err := r.RenderToString(notes)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}

	records := decodeRecords(t, got)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	annot := records[0]
	if _, ok := annot["text"]; ok {
		t.Error("boxless annotation should not carry a text field")
	}
	if _, ok := annot["author"]; ok {
		t.Error("annotation without an author should not carry an author field")
	}
	if annot["page"] != float64(2) {
		t.Errorf("page = %v, want 2", annot["page"])
	}
	if annot["kind"] != "Text" {
		t.Errorf("kind = %v, want Text", annot["kind"])
	}
	if annot["comment"] != "margin note" {
		t.Errorf("comment = %v, want %q", annot["comment"], "margin note")
	}
}

func TestRenderJSONOmitsMissingTextMarker(t *testing.T) {
	p := testPage(0)
	notes := []model.Note{note(highlight(p, model.KindHighlight, "", "check this"))}

	r := NewRendererWithConfig(Config{Format: FormatJSON, Stem: "paper"})
	got, warnings, err := r.RenderToString(notes)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	records := decodeRecords(t, got)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	annot := records[0]
	if text, ok := annot["text"]; ok {
		t.Errorf("boxes that captured nothing should omit the text field, got %v", text)
	}
	if annot["comment"] != "check this" {
		t.Errorf("comment = %v, want %q", annot["comment"], "check this")
	}
}

func TestRenderJSONSkipsEmptyNotes(t *testing.T) {
	p := testPage(0)
	notes := []model.Note{note(popupNote(p, ""))}

	r := NewRendererWithConfig(Config{Format: FormatJSON, Stem: "paper"})
	got, warnings, err := r.RenderToString(notes)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	if got != "[]\n" {
		t.Errorf("report = %q, want empty array", got)
	}
	if len(warnings) != 1 || warnings[0].Code != model.WarnEmptyNote {
		t.Errorf("warnings = %v, want one %s", warnings, model.WarnEmptyNote)
	}
}
