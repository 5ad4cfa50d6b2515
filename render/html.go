package render

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"

	"github.com/marginote/marginote/model"
)

// renderHTML converts the report body from markdown to HTML and wraps it in
// a standalone document. The YAML preamble does not survive a markdown
// conversion, so the report title moves into the document head and a
// heading above the converted body.
func (r *Renderer) renderHTML(notes []model.Note, w io.Writer) ([]model.Warning, error) {
	var body bytes.Buffer
	bw := bufio.NewWriter(&body)
	warnings := writeBody(bw, notes)
	if err := bw.Flush(); err != nil {
		return warnings, err
	}

	md := goldmark.New()
	var converted bytes.Buffer
	if err := md.Convert(body.Bytes(), &converted); err != nil {
		return warnings, fmt.Errorf("converting markdown: %w", err)
	}

	title := html.EscapeString("Reading Notes for " + r.config.Stem)
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n", title, title)
	out.Write(converted.Bytes())
	out.WriteString("</body>\n</html>\n")
	return warnings, out.Flush()
}
