package summary

import (
	"fmt"
	"strings"
	"testing"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

func fixture() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "n1", Label: "Gateway", Cluster: "infra"})
	g.AddNode(graph.Node{ID: "n2", Label: "Core API", Cluster: "backend"})
	g.AddNode(graph.Node{ID: "n3", Label: "Billing", Cluster: "backend"})
	g.AddEdge(graph.Edge{ID: "e1", Source: "n1", Target: "n2"})
	g.AddEdge(graph.Edge{ID: "e2", Source: "n2", Target: "n3"})
	return g
}

func TestGraphEmpty(t *testing.T) {
	if got := Graph(graph.New()); got != EmptyGraphSentinel {
		t.Errorf("Graph(empty) = %q, want %q", got, EmptyGraphSentinel)
	}
	if got := Graph(nil); got != EmptyGraphSentinel {
		t.Errorf("Graph(nil) = %q, want %q", got, EmptyGraphSentinel)
	}
}

func TestGraphSummary(t *testing.T) {
	got := Graph(fixture())

	if !strings.Contains(got, "3 nodes") || !strings.Contains(got, "2 edges") {
		t.Errorf("summary missing counts: %q", got)
	}
	// Clusters sorted ascending: backend before infra.
	if !strings.Contains(got, "Clusters present: backend, infra.") {
		t.Errorf("summary missing sorted cluster list: %q", got)
	}
	// n2 has degree 2 and is the top influencer.
	if !strings.Contains(got, "Top influencer: Core API (id: n2) with degree 2.") {
		t.Errorf("summary missing top influencer: %q", got)
	}
}

func TestGraphTopInfluencerTieBreak(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "first", Label: "First"})
	g.AddNode(graph.Node{ID: "second", Label: "Second"})
	g.AddEdge(graph.Edge{ID: "e1", Source: "first", Target: "second"})

	// Both have degree 1; earliest insertion wins.
	if got := Graph(g); !strings.Contains(got, "id: first") {
		t.Errorf("tie not broken by insertion order: %q", got)
	}
}

func TestViewportEmpty(t *testing.T) {
	if got := Viewport(fixture(), nil); got != EmptyViewportSentinel {
		t.Errorf("Viewport(empty) = %q, want %q", got, EmptyViewportSentinel)
	}
}

func TestViewportSmall(t *testing.T) {
	got := Viewport(fixture(), []string{"n2", "n3", "n1"})

	if !strings.Contains(got, "3 nodes") {
		t.Errorf("viewport summary missing count: %q", got)
	}
	if !strings.Contains(got, "Dominant cluster in view: backend (2 nodes).") {
		t.Errorf("viewport summary missing dominant cluster: %q", got)
	}
	for _, bullet := range []string{"- Gateway (infra)", "- Core API (backend)", "- Billing (backend)"} {
		if !strings.Contains(got, bullet) {
			t.Errorf("viewport summary missing bullet %q: %q", bullet, got)
		}
	}
}

func TestViewportDominantTieBreak(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Label: "A", Cluster: "x"})
	g.AddNode(graph.Node{ID: "b", Label: "B", Cluster: "y"})

	// One node per cluster; the first-encountered cluster wins.
	got := Viewport(g, []string{"b", "a"})
	if !strings.Contains(got, "Dominant cluster in view: y (1 nodes).") {
		t.Errorf("tie not broken by first encounter: %q", got)
	}
}

func TestViewportUncategorized(t *testing.T) {
	g := graph.New()
	g.AddNode(graph.Node{ID: "a", Label: "Loner"})

	got := Viewport(g, []string{"a"})
	if !strings.Contains(got, "- Loner (uncategorized)") {
		t.Errorf("missing uncategorized fallback: %q", got)
	}
}

func TestViewportAboveThreshold(t *testing.T) {
	g := graph.New()
	ids := make([]string, 501)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
		g.AddNode(graph.Node{ID: ids[i], Label: ids[i]})
	}

	got := Viewport(g, ids)
	if !strings.Contains(got, "501 nodes") {
		t.Errorf("elided summary missing count: %q", got)
	}
	if strings.Contains(got, "- n0") {
		t.Errorf("elided summary still enumerates nodes: %q", got)
	}
}

func TestViewportIgnoresUnknownIDs(t *testing.T) {
	got := Viewport(fixture(), []string{"n1", "ghost"})
	if strings.Contains(got, "ghost") {
		t.Errorf("unknown id leaked into summary: %q", got)
	}
}
