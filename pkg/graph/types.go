package graph

import (
	"errors"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique per snapshot.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with
	// the same ID already exists. Edge IDs must be unique per snapshot.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrDanglingEdge is returned by [Graph.AddEdge] when either endpoint
	// references a node that is not present. Callers building a graph from
	// untrusted snapshots should skip (not fail on) this error.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// ClusterUncategorized is the display name for nodes without a cluster.
// Cluster absence is legal and never validated against a registry.
const ClusterUncategorized = "uncategorized"

// Node is a vertex in the canonical graph with display attributes and a
// 2D position assigned by a layout pass.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID      string  `json:"id"`
	Label   string  `json:"label,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size,omitempty"`
	Color   string  `json:"color,omitempty"`
	Cluster string  `json:"cluster,omitempty"`

	// Placed reports whether X/Y carry a real position. Nodes loaded
	// without one receive a random scatter on the first bind.
	Placed bool `json:"-"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// ClusterName returns the cluster if set, otherwise [ClusterUncategorized].
func (n *Node) ClusterName() string {
	if n.Cluster != "" {
		return n.Cluster
	}
	return ClusterUncategorized
}

// Edge is a directed connection between two nodes in the canonical graph.
type Edge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Color  string  `json:"color,omitempty"`
	Size   float64 `json:"size,omitempty"`
}
