// Package overlay derives transient visual overrides from interaction
// state without mutating the canonical graph.
//
// The overlay is a pure presentation function: (canonical attributes,
// interaction state) → render attributes. It is recomputed on every draw
// rather than stored, so it can never diverge from canonical state.
//
// Search and cluster filter are independent reducers. Neither clears the
// other; only a view reset does. When both are active, the cluster filter
// governs visibility and the search governs emphasis: a node hidden by the
// filter stays hidden even when its label matches the query.
package overlay

import (
	"strings"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// Colors used by the reducers. Canonical node colors are used when no
// override applies.
const (
	HighlightColor = "#fa4f40"
	DimColor       = "#2a2a2a33" // low-opacity grey, label suppressed
)

// State holds the interaction state the reducers derive overrides from.
type State struct {
	Query         string // free-text search, case-insensitive substring on label
	Cluster       string // active cluster filter value
	ClusterActive bool   // distinguishes "no filter" from filtering the empty cluster
}

// Empty reports whether no reducer is active.
func (s State) Empty() bool {
	return s.Query == "" && !s.ClusterActive
}

// NodeStyle is the per-node render override produced by the reducers.
type NodeStyle struct {
	Color       string
	Hidden      bool
	Highlighted bool
	LabelHidden bool
	Raised      bool // raised in stacking order above unmatched nodes
}

// Overlay is the full set of render-time overrides for one draw pass.
type Overlay struct {
	// Nodes maps node IDs to style overrides. IDs absent from the map
	// render with unmodified canonical attributes.
	Nodes map[string]NodeStyle

	// EdgesHidden hides every edge; set by the cluster filter.
	EdgesHidden bool
}

// Compute derives the overlay for g under state. Pure: the graph is read,
// never written. An empty state produces an empty overlay.
func Compute(g *graph.Graph, state State) Overlay {
	out := Overlay{Nodes: make(map[string]NodeStyle)}
	if state.Empty() {
		return out
	}

	query := strings.ToLower(state.Query)

	for _, n := range g.Nodes() {
		var style NodeStyle
		touched := false

		if state.ClusterActive {
			touched = true
			if n.Cluster == state.Cluster {
				style.Color = HighlightColor
				style.Highlighted = true
			} else {
				style.Hidden = true
			}
		}

		if query != "" && !style.Hidden {
			touched = true
			if strings.Contains(strings.ToLower(n.Label), query) {
				style.Color = HighlightColor
				style.Highlighted = true
				style.Raised = true
			} else {
				style.Color = DimColor
				style.LabelHidden = true
			}
		}

		if touched {
			out.Nodes[n.ID] = style
		}
	}

	// Search alone leaves edges untouched; the cluster filter hides them.
	out.EdgesHidden = state.ClusterActive
	return out
}

// FirstMatch returns the first node in insertion order whose label
// contains the query (case-insensitive), or nil when nothing matches or
// the query is empty.
func FirstMatch(g *graph.Graph, query string) *graph.Node {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	for _, n := range g.Nodes() {
		if strings.Contains(strings.ToLower(n.Label), q) {
			return n
		}
	}
	return nil
}
