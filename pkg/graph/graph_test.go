package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		prep    func(g *Graph)
		wantErr error
	}{
		{
			name: "Valid",
			node: Node{ID: "a", Label: "Alpha"},
		},
		{
			name:    "EmptyID",
			node:    Node{},
			wantErr: ErrInvalidNodeID,
		},
		{
			name:    "Duplicate",
			node:    Node{ID: "a"},
			prep:    func(g *Graph) { g.AddNode(Node{ID: "a"}) },
			wantErr: ErrDuplicateNodeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if tt.prep != nil {
				tt.prep(g)
			}
			err := g.AddNode(tt.node)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("AddNode error: %v", err)
			}
			if tt.wantErr != nil && err != tt.wantErr {
				t.Fatalf("AddNode error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{ID: "e1", Source: "a", Target: "b"}); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}

	// Dangling endpoints are rejected with ErrDanglingEdge.
	err := g.AddEdge(Edge{ID: "e2", Source: "a", Target: "missing"})
	if err == nil || !strings.Contains(err.Error(), "unknown node") {
		t.Errorf("dangling edge error = %v, want ErrDanglingEdge", err)
	}

	// Duplicate edge IDs are rejected.
	if err := g.AddEdge(Edge{ID: "e1", Source: "b", Target: "a"}); err != ErrDuplicateEdgeID {
		t.Errorf("duplicate edge error = %v, want ErrDuplicateEdgeID", err)
	}

	// An empty edge ID gets a generated one.
	if err := g.AddEdge(Edge{Source: "b", Target: "a"}); err != nil {
		t.Fatalf("AddEdge error: %v", err)
	}
	if g.Edges()[1].ID == "" {
		t.Error("expected generated edge ID")
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "m", "a", "q"}
	for _, id := range ids {
		g.AddNode(Node{ID: id})
	}
	for i, n := range g.Nodes() {
		if n.ID != ids[i] {
			t.Errorf("Nodes()[%d] = %s, want %s", i, n.ID, ids[i])
		}
	}
}

func TestDegree(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddNode(Node{ID: "c"})
	g.AddEdge(Edge{ID: "e1", Source: "a", Target: "b"})
	g.AddEdge(Edge{ID: "e2", Source: "b", Target: "c"})

	if got := g.Degree("b"); got != 2 {
		t.Errorf("Degree(b) = %d, want 2", got)
	}
	if got := g.Degree("a"); got != 1 {
		t.Errorf("Degree(a) = %d, want 1", got)
	}
	if got := g.Degree("missing"); got != 0 {
		t.Errorf("Degree(missing) = %d, want 0", got)
	}
}

func TestFromSnapshotSkipsDangling(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}, {ID: ""}}
	edges := []Edge{
		{ID: "ok", Source: "a", Target: "b"},
		{ID: "dangling", Source: "a", Target: "ghost"},
	}

	g, skipped := FromSnapshot(nodes, edges)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v, want 2 entries", skipped)
	}
}

func TestRoundTrip(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a", Label: "Alpha", X: 1, Y: 2, Size: 5, Color: "#ff0000", Cluster: "core"})
	g.AddNode(Node{ID: "b", Label: "Beta"})
	g.AddEdge(Edge{ID: "e1", Source: "a", Target: "b", Size: 1})

	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, skipped, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v, want none", skipped)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("got %d nodes %d edges, want 2/1", got.NodeCount(), got.EdgeCount())
	}
	a := got.Node("a")
	if a == nil || a.Cluster != "core" || a.X != 1 || a.Y != 2 {
		t.Errorf("node a = %+v, want cluster core at (1,2)", a)
	}
}

func TestReadPlacementFromFieldPresence(t *testing.T) {
	// An explicit x/y of zero is a real position; absent fields are not.
	input := `{
		"nodes": [
			{"id": "origin", "x": 0, "y": 0},
			{"id": "floating"}
		],
		"edges": []
	}`

	g, _, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if n := g.Node("origin"); !n.Placed {
		t.Error("origin node with explicit coordinates not marked placed")
	}
	if n := g.Node("floating"); n.Placed {
		t.Error("node without coordinates marked placed")
	}
}

func TestFromSnapshotKeepsCallerPlacement(t *testing.T) {
	g, _ := FromSnapshot([]Node{{ID: "a", Placed: true}}, nil)
	if !g.Node("a").Placed {
		t.Error("pre-set placement lost")
	}
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteFile(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), `"nodes"`) {
		t.Error("output missing nodes key")
	}
}
