// Package graph defines the canonical node/edge structure owned by the
// scene and its JSON serialization.
//
// The Graph type preserves insertion order for both nodes and edges. Order
// matters: search auto-focus, top-influencer tie-breaks, and dominant
// cluster tie-breaks are all defined in terms of insertion order, so the
// structure is a slice with a map index rather than a bare map.
//
// The serialization format is the interchange contract with external data
// sources and the export artifact:
//
//	{"nodes": [{"id": ..., "label": ...}], "edges": [{"id": ..., "source": ...}]}
//
// Edges referencing missing nodes are tolerated on load by skipping, never
// by rejecting the whole snapshot.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Graph is the canonical graph structure. It is exclusively owned by the
// scene and mutated only through its defined operations.
//
// The zero value is not usable - use New to create a valid instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     []*Node
	nodeIndex map[string]int
	edges     []*Edge
	edgeIndex map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[string]int),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the ID is empty, or ErrDuplicateNodeID if a
// node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodeIndex[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodeIndex[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// An empty edge ID is assigned a fresh UUID. Returns ErrDanglingEdge when
// either endpoint is missing and ErrDuplicateEdgeID on an ID collision.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodeIndex[e.Source]; !ok {
		return fmt.Errorf("%w: source %s", ErrDanglingEdge, e.Source)
	}
	if _, ok := g.nodeIndex[e.Target]; !ok {
		return fmt.Errorf("%w: target %s", ErrDanglingEdge, e.Target)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := g.edgeIndex[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	edge := &e
	g.edgeIndex[edge.ID] = len(g.edges)
	g.edges = append(g.edges, edge)
	return nil
}

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *Node {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nil
	}
	return g.nodes[i]
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// Nodes returns all nodes in insertion order.
// The returned slice shares backing pointers with the graph; callers must
// treat it as read-only unless they own the graph.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the total degree (in + out) of the node with the given
// ID, or 0 if the node is absent.
func (g *Graph) Degree(id string) int {
	deg := 0
	for _, e := range g.edges {
		if e.Source == id {
			deg++
		}
		if e.Target == id {
			deg++
		}
	}
	return deg
}

// Clusters returns the set of distinct cluster names present, keyed by
// name. Nodes without a cluster are not included.
func (g *Graph) Clusters() map[string]int {
	out := make(map[string]int)
	for _, n := range g.nodes {
		if n.Cluster != "" {
			out[n.Cluster]++
		}
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// snapshot is the wire form of a graph.
type snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// FromSnapshot builds a graph from decoded node and edge records.
//
// Malformed nodes (empty or duplicate IDs) and dangling or duplicate edges
// are skipped, not fatal: the engine renders the valid subset. The skipped
// edge IDs are returned so callers can log them.
func FromSnapshot(nodes []Node, edges []Edge) (*Graph, []string) {
	g := New()
	var skipped []string
	for _, n := range nodes {
		n.Placed = n.Placed || n.X != 0 || n.Y != 0
		if err := g.AddNode(n); err != nil {
			skipped = append(skipped, n.ID)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			skipped = append(skipped, e.ID)
		}
	}
	return g, skipped
}

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	out := snapshot{
		Nodes: make([]Node, len(g.nodes)),
		Edges: make([]Edge, len(g.edges)),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = *n
	}
	for i, e := range g.edges {
		out.Edges[i] = *e
	}
	return json.MarshalIndent(out, "", "  ")
}

// Write encodes a graph as JSON to w.
func Write(g *Graph, w io.Writer) error {
	data, err := Marshal(g)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteFile writes a graph to a JSON file with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// nodeRecord shadows the coordinate fields with pointers so decoding can
// tell an explicit x/y of zero apart from absent fields. A node written
// with coordinates stays placed even when it sits at the origin.
type nodeRecord struct {
	Node
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (r nodeRecord) node() Node {
	n := r.Node
	if r.X != nil {
		n.X = *r.X
	}
	if r.Y != nil {
		n.Y = *r.Y
	}
	n.Placed = r.X != nil || r.Y != nil
	return n
}

// Read decodes a JSON graph from r.
// Dangling edges are skipped; their IDs are returned alongside the graph.
func Read(r io.Reader) (*Graph, []string, error) {
	var snap struct {
		Nodes []nodeRecord `json:"nodes"`
		Edges []Edge       `json:"edges"`
	}
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	nodes := make([]Node, len(snap.Nodes))
	for i, rec := range snap.Nodes {
		nodes[i] = rec.node()
	}
	g, skipped := FromSnapshot(nodes, snap.Edges)
	return g, skipped, nil
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*Graph, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
