package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/waypoint/pkg/errors"
)

func TestReadEdgeList(t *testing.T) {
	input := `
# sample map
A B
B C

B   D
D	E extra tokens ignored
`
	g, err := ReadEdgeList(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, g.Nodes())
	assert.Equal(t, []string{"A", "C", "D"}, g.Neighbors("B"))
	assert.Equal(t, []string{"D"}, g.Neighbors("E"))
	assert.Equal(t, 4, g.EdgeCount())
}

func TestReadEdgeList_Empty(t *testing.T) {
	g, err := ReadEdgeList(strings.NewReader("\n\n   \n"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
}

func TestReadEdgeList_MissingSecondToken(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("A B\nC\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedInput))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEdgeList_ControlCharacter(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("A B\nC D\x07\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedInput))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadJSON_NamesWithSpaces(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(`{
		"nodes": [{"id": "New York"}, {"id": "Los Angeles"}],
		"edges": [{"from": "New York", "to": "Los Angeles"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Los Angeles"}, g.Neighbors("New York"))
}

func TestLoadEdgeListFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roads.txt")
	require.NoError(t, os.WriteFile(path, []byte("Arad Zerind\nArad Sibiu\n"), 0o644))

	g, err := LoadEdgeListFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zerind", "Sibiu"}, g.Neighbors("Arad"))
}

func TestLoadEdgeListFile_NotFound(t *testing.T) {
	_, err := LoadEdgeListFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadEdgeListFile_MalformedHasPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("lonely\n"), 0o644))

	_, err := LoadEdgeListFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedInput))
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestWriteEdgeList_RoundTrip(t *testing.T) {
	g := buildSample(t)
	require.NoError(t, g.AddNode("Z"))

	var buf bytes.Buffer
	require.NoError(t, WriteEdgeList(g, &buf))
	assert.Contains(t, buf.String(), "# isolated: Z")

	back, err := ReadEdgeList(&buf)
	require.NoError(t, err)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		assert.Equal(t, g.Neighbors(id), back.Neighbors(id), "neighbors of %s", id)
	}
	assert.False(t, back.Has("Z"), "isolated nodes survive only as comments")
}

func TestJSON_RoundTrip(t *testing.T) {
	g := buildSample(t)
	require.NoError(t, g.AddNode("Z"))

	data, err := Marshal(g)
	require.NoError(t, err)

	back, err := ReadJSON(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), back.Nodes())
	for _, id := range g.Nodes() {
		assert.Equal(t, g.Neighbors(id), back.Neighbors(id), "neighbors of %s", id)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "nodes: A"},
		{"duplicate node", `{"nodes":[{"id":"A"},{"id":"A"}],"edges":[]}`},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`},
		{"control char in id", `{"nodes":[{"id":"A\u0007"}],"edges":[]}`},
		{"unknown from", `{"nodes":[{"id":"A"}],"edges":[{"from":"X","to":"A"}]}`},
		{"unknown to", `{"nodes":[{"id":"A"}],"edges":[{"from":"A","to":"X"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeMalformedInput), "got %v", err)
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	g := buildSample(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	require.NoError(t, ExportJSON(g, path))
	back, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(), back.Edges())
}

func TestMarshal_OrderSensitive(t *testing.T) {
	a := New()
	require.NoError(t, a.AddEdge("A", "B"))
	require.NoError(t, a.AddEdge("A", "C"))

	b := New()
	require.NoError(t, b.AddEdge("A", "C"))
	require.NoError(t, b.AddEdge("A", "B"))

	da, err := Marshal(a)
	require.NoError(t, err)
	db, err := Marshal(b)
	require.NoError(t, err)
	assert.NotEqual(t, string(da), string(db))
}

func TestWriteTable(t *testing.T) {
	g := buildSample(t)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(g, &buf))
	assert.Equal(t, "  A:\n     [B]\n"+
		"  B:\n     [A, C, D]\n"+
		"  C:\n     [B]\n"+
		"  D:\n     [B, E]\n"+
		"  E:\n     [D]\n", buf.String())
}
