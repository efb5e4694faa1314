// Package diag collects the diagnostic lines emitted while a configuration
// tree is loaded. The recorder is append-only; nothing is ever rewritten or
// dropped, so the report reads as a chronological trace of the load.
package diag

import (
	"fmt"
	"strings"
)

// Delimiter frames a report when it is rendered for display.
var Delimiter = strings.Repeat("=", 80)

// Recorder accumulates diagnostic lines in the order they were appended.
// The zero value is ready to use.
type Recorder struct {
	lines []string
}

// Appendf formats a line and appends it to the recorder.
func (r *Recorder) Appendf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the recorded lines in append order.
func (r *Recorder) Lines() []string {
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Report renders the recorded lines framed by the delimiter. An empty
// recorder still renders both delimiter lines.
func (r *Recorder) Report() string {
	var b strings.Builder
	b.WriteString(Delimiter)
	b.WriteString("\n")
	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(Delimiter)
	b.WriteString("\n")
	return b.String()
}
