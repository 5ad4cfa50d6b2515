package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/marginote/marginote/model"
)

// ErrUnknownFormat reports a format name that does not map to any supported
// output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ============================================================================
// Output Formats
// ============================================================================

// Format identifies an output format for rendered notes.
type Format int

const (
	// FormatMarkdown is the plain-text report with a YAML preamble.
	FormatMarkdown Format = iota
	// FormatJSON is a flat JSON array of note records.
	FormatJSON
	// FormatHTML is the markdown report converted into a standalone HTML
	// document.
	FormatHTML
)

// String returns a human-readable representation of the format.
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// ParseFormat maps a format name onto a Format. It accepts the names used
// on the command line: "md" or "markdown", "json", and "html" or "htm".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return FormatMarkdown, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
}

// DetectPath guesses the format from a file name's extension. The second
// return value is false when the extension is not a recognized output
// format; the caller decides the fallback.
func DetectPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".json":
		return FormatJSON, true
	case ".html", ".htm":
		return FormatHTML, true
	default:
		return FormatMarkdown, false
	}
}

// ============================================================================
// Renderer
// ============================================================================

// Config holds renderer options.
type Config struct {
	// Format selects the output format.
	Format Format

	// Stem is the source file name without directory or extension. It
	// names the report in the YAML preamble and in the HTML title.
	Stem string
}

// DefaultConfig returns the default renderer configuration.
func DefaultConfig() Config {
	return Config{Format: FormatMarkdown}
}

// Renderer writes note records in a configured format.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with default configuration.
func NewRenderer() *Renderer {
	return &Renderer{config: DefaultConfig()}
}

// NewRendererWithConfig creates a renderer with custom configuration.
func NewRendererWithConfig(config Config) *Renderer {
	return &Renderer{config: config}
}

// Render writes the records to w in reading order. Annotation records with
// neither captured text nor a comment carry no usable content; they are
// skipped and reported as warnings rather than printed as bare labels.
func (r *Renderer) Render(notes []model.Note, w io.Writer) ([]model.Warning, error) {
	switch r.config.Format {
	case FormatMarkdown:
		return r.renderMarkdown(notes, w)
	case FormatJSON:
		return r.renderJSON(notes, w)
	case FormatHTML:
		return r.renderHTML(notes, w)
	default:
		return nil, fmt.Errorf("unsupported output format: %v", r.config.Format)
	}
}

// RenderToString renders the records to a string.
func (r *Renderer) RenderToString(notes []model.Note) (string, []model.Warning, error) {
	var buf bytes.Buffer
	warnings, err := r.Render(notes, &buf)
	if err != nil {
		return "", warnings, err
	}
	return buf.String(), warnings, nil
}

// emptyNote reports whether an annotation has neither printable text nor a
// comment. The renderers share this so every format skips the same records.
func emptyNote(a *model.Annotation) bool {
	if len(nonEmptyLines(a.Contents)) > 0 {
		return false
	}
	if t := a.Text(); t != model.NoText && len(nonEmptyLines(t)) > 0 {
		return false
	}
	return true
}

func emptyNoteWarning(a *model.Annotation) model.Warning {
	return model.Warningf(model.WarnEmptyNote, a.Page.Number(),
		"%s annotation has neither text nor comment", a.Kind)
}

// nonEmptyLines splits s into lines and drops the empty ones.
func nonEmptyLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
