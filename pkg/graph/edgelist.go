package graph

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/matzehuels/waypoint/pkg/errors"
)

// maxLineSize bounds a single edge-list record.
const maxLineSize = 1 << 20

// ReadEdgeList decodes an undirected graph from r. Each record holds two
// whitespace-separated node names and denotes one edge:
//
//	Arad Zerind
//	Arad Sibiu
//
// Blank lines and lines whose first token starts with '#' are skipped. Tokens
// after the second are ignored. A record with a single token is reported as
// MALFORMED_INPUT together with its line number; an empty input yields an
// empty graph, which is valid.
//
// Nodes and neighbor lists keep the order in which they appear in the input.
// ReadEdgeList does not close r.
func ReadEdgeList(r io.Reader) (*Graph, error) {
	g := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < 2 {
			return nil, errors.New(errors.ErrCodeMalformedInput,
				"line %d: edge needs two node names, got %q", line, fields[0])
		}
		for _, name := range fields[:2] {
			if err := errors.ValidateNodeName(name); err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "line %d", line)
			}
		}
		if err := g.AddEdge(fields[0], fields[1]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "line %d", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "scan edge list")
	}
	return g, nil
}

// LoadEdgeListFile reads the edge-list file at path with [ReadEdgeList].
// A missing file is reported as FILE_NOT_FOUND.
func LoadEdgeListFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteEdgeList writes g in the edge-list format accepted by ReadEdgeList,
// one edge per line, followed by one line per isolated node prefixed with
// '#' so the node list survives as a comment.
func WriteEdgeList(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%s %s\n", e.From, e.To); err != nil {
			return err
		}
	}
	for _, id := range g.order {
		if len(g.adj[id]) == 0 {
			if _, err := fmt.Fprintf(bw, "# isolated: %s\n", id); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
