// Package reader provides document-structure access for annotation
// extraction: pages, annotations, bookmarks and named destinations.
//
// # Opening Documents
//
// Use [Open] to open a PDF file:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or [NewReader] with any io.ReadSeeker the caller owns. Protected files
// take a password through [Config]:
//
//	r, err := reader.OpenWithConfig("locked.pdf", reader.Config{Password: "secret"})
//
// # Page Table
//
// Opening a document walks its page tree once and records every page's
// media box and object number. [Reader.Document] returns the resulting page
// scaffold; [Reader.PageByIndex] and [Reader.PageByObjectID] look pages up
// the two ways a destination can reference them, which makes the reader the
// outline resolver's page registry.
//
// # Annotations
//
// [Reader.Annotations] decodes one page's markup annotations: subtype,
// comment, author, rectangle and highlight quads. Comments and titles are
// decoded from UTF-16BE or PDFDocEncoding as the document demands.
// Malformed geometry never aborts the page; the broken part is dropped
// with a warning.
//
// # Outline
//
// [Reader.Bookmarks] flattens the bookmark tree in viewer order without
// interpreting destinations; resolution is the outline package's job. The
// reader contributes [Reader.LookupDest], the named-destination table the
// resolver consults.
package reader
