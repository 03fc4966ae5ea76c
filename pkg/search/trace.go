package search

import (
	"io"
	"strings"
)

// TraceEntry records one node entered by the explorer.
type TraceEntry struct {
	Bound int    `json:"bound"` // depth bound of the attempt
	Depth int    `json:"depth"` // edges from the start within that attempt
	Node  string `json:"node"`
}

// Trace is the cumulative record of every node visited by every depth-limited
// attempt of one search, in visiting order. It is never reset between
// attempts.
type Trace struct {
	entries []TraceEntry
}

// NewTrace rebuilds a trace from recorded entries, for example after
// decoding a cached search outcome.
func NewTrace(entries []TraceEntry) *Trace {
	return &Trace{entries: append([]TraceEntry(nil), entries...)}
}

func (t *Trace) record(bound, depth int, node string) {
	t.entries = append(t.entries, TraceEntry{Bound: bound, Depth: depth, Node: node})
}

// Entries returns a copy of the recorded entries.
func (t *Trace) Entries() []TraceEntry {
	return append([]TraceEntry(nil), t.entries...)
}

// Len returns the number of visits recorded.
func (t *Trace) Len() int { return len(t.entries) }

// Attempts returns the number of depth-limited attempts that visited at
// least one node.
func (t *Trace) Attempts() int {
	n, last := 0, -1
	for _, e := range t.entries {
		if e.Bound != last {
			n++
			last = e.Bound
		}
	}
	return n
}

// Lines renders one line per visit: the node name indented by one tab per
// depth level.
func (t *Trace) Lines() []string {
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = strings.Repeat("\t", e.Depth) + e.Node
	}
	return lines
}

// String joins Lines with newlines.
func (t *Trace) String() string {
	return strings.Join(t.Lines(), "\n")
}

// WriteTo writes the rendered trace to w, each line newline-terminated.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range t.Lines() {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
