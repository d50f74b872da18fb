// Package summary produces bounded natural-language descriptions of graph
// and viewport state.
//
// The output is injected as prompt context for an external language model,
// so every summary is deliberately size-bounded: unbounded enumeration
// risks context overflow and unbounded latency and cost. Above
// [ViewportDetailThreshold] visible nodes, the viewport summary collapses
// to a single count sentence.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// ViewportDetailThreshold is the largest visible-node count for which the
// viewport summary enumerates individual nodes.
const ViewportDetailThreshold = 500

// EmptyGraphSentinel is returned by [Graph] for a graph with zero nodes.
const EmptyGraphSentinel = "Graph is empty."

// EmptyViewportSentinel is returned by [Viewport] for an empty visible set.
const EmptyViewportSentinel = "User is staring into the void. No nodes visible."

// Graph describes the full canonical graph: totals, the sorted list of
// cluster identifiers present, and the single highest-degree node (ties
// broken by earliest insertion) labeled as top influencer.
func Graph(g *graph.Graph) string {
	if g == nil || g.NodeCount() == 0 {
		return EmptyGraphSentinel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The graph contains %d nodes and %d edges.\n", g.NodeCount(), g.EdgeCount())

	clusters := make([]string, 0, len(g.Clusters()))
	for c := range g.Clusters() {
		clusters = append(clusters, c)
	}
	sort.Strings(clusters)
	if len(clusters) > 0 {
		fmt.Fprintf(&b, "Clusters present: %s.\n", strings.Join(clusters, ", "))
	} else {
		b.WriteString("Clusters present: none.\n")
	}

	top, degree := topInfluencer(g)
	fmt.Fprintf(&b, "Top influencer: %s (id: %s) with degree %d.", top.DisplayLabel(), top.ID, degree)
	return b.String()
}

// Viewport describes the subset of g identified by visibleIDs.
//
// At or below [ViewportDetailThreshold] visible nodes the summary reports
// the count, the dominant cluster among visible nodes (by frequency, ties
// broken by first encounter), and a per-node bullet of label and cluster.
// Above the threshold it states only the count. IDs not present in g are
// ignored.
func Viewport(g *graph.Graph, visibleIDs []string) string {
	if len(visibleIDs) == 0 {
		return EmptyViewportSentinel
	}

	if len(visibleIDs) > ViewportDetailThreshold {
		return fmt.Sprintf("The user is looking at a dense region with %d nodes; too many to list individually.", len(visibleIDs))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The user is looking at %d nodes.\n", len(visibleIDs))

	counts := make(map[string]int)
	var order []string
	var bullets []string
	for _, id := range visibleIDs {
		n := g.Node(id)
		if n == nil {
			continue
		}
		c := n.ClusterName()
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
		bullets = append(bullets, fmt.Sprintf("- %s (%s)", n.DisplayLabel(), c))
	}

	if len(order) > 0 {
		dominant := order[0]
		for _, c := range order {
			if counts[c] > counts[dominant] {
				dominant = c
			}
		}
		fmt.Fprintf(&b, "Dominant cluster in view: %s (%d nodes).\n", dominant, counts[dominant])
	}

	b.WriteString("Visible nodes:\n")
	b.WriteString(strings.Join(bullets, "\n"))
	return b.String()
}

// topInfluencer returns the highest-degree node, breaking ties by
// insertion order. The graph must be non-empty.
func topInfluencer(g *graph.Graph) (*graph.Node, int) {
	degrees := make(map[string]int, g.NodeCount())
	for _, e := range g.Edges() {
		degrees[e.Source]++
		degrees[e.Target]++
	}

	nodes := g.Nodes()
	best := nodes[0]
	bestDeg := degrees[best.ID]
	for _, n := range nodes[1:] {
		if degrees[n.ID] > bestDeg {
			best = n
			bestDeg = degrees[n.ID]
		}
	}
	return best, bestDeg
}
