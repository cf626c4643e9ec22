package pdfstream

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdfstream/contentstream"
)

// Warning is a non-fatal problem met while reading. Pos is the offset in
// the decoded section, or -1 when there is none.
type Warning struct {
	Message string
	Pos     int64
}

func (w Warning) String() string {
	if w.Pos < 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (at %d)", w.Message, w.Pos)
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

func fromParser(ws []contentstream.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Message: w.Message, Pos: w.Pos}
	}
	return out
}
