package marginote

import (
	"strings"

	"github.com/marginote/marginote/model"
)

// Warning describes a non-fatal problem encountered during extraction. It
// is an alias for the model package's warning type so most callers never
// import model directly.
type Warning = model.Warning

// FormatWarnings joins warnings into a human-readable block, one per line.
// It returns the empty string when there are no warnings.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
