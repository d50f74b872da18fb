package graph

// Stats holds aggregate statistics over a graph.
type Stats struct {
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
	Density   float64 `json:"density"`
}

// ComputeStats returns aggregate statistics for g.
//
// Density treats the graph as directed capacity: E / (N * (N-1)).
// It is defined to be exactly 0 when N <= 1, where the ratio would be
// undefined. Pure and deterministic.
func ComputeStats(g *Graph) Stats {
	n := g.NodeCount()
	e := g.EdgeCount()
	s := Stats{NodeCount: n, EdgeCount: e}
	if n > 1 {
		s.Density = float64(e) / float64(n*(n-1))
	}
	return s
}
