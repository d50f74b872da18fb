package cli

import (
	"strings"
	"testing"

	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/overlay"
	"github.com/graphgazer/graphgazer/pkg/scene"
)

func testFrame(t *testing.T) scene.Frame {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{ID: "n1", Label: "Auth", Cluster: "backend", X: 0, Y: 0, Placed: true},
		{ID: "n2", Label: "API", Cluster: "backend", X: 200, Y: 0, Placed: true},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(graph.Edge{ID: "e1", Source: "n1", Target: "n2"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return scene.Frame{Graph: g, Camera: scene.DefaultCamera}
}

func TestTermRendererDraw(t *testing.T) {
	surface := &termSurface{}
	surface.resize(80, 24)
	r := newTermRenderer(surface, scene.DefaultSettings)

	r.Draw(testFrame(t))

	view := r.View()
	if !strings.Contains(view, "Auth") {
		t.Errorf("view missing node label:\n%s", view)
	}
	if lines := strings.Split(view, "\n"); len(lines) != 24 {
		t.Errorf("view has %d lines, want 24", len(lines))
	}
}

func TestTermRendererHitTest(t *testing.T) {
	surface := &termSurface{}
	surface.resize(80, 24)
	r := newTermRenderer(surface, scene.DefaultSettings)

	var clicked string
	r.OnClick(func(id string) { clicked = id })

	r.Draw(testFrame(t))

	// n1 sits at the graph origin, which projects to the canvas center.
	r.Click(40, 12)
	if clicked != "n1" {
		t.Errorf("clicked = %q, want %q", clicked, "n1")
	}

	clicked = "unset"
	r.Click(0, 0)
	if clicked != "" {
		t.Errorf("empty canvas click = %q, want empty id", clicked)
	}
}

func TestTermRendererHiddenNodesOmitted(t *testing.T) {
	surface := &termSurface{}
	surface.resize(80, 24)
	r := newTermRenderer(surface, scene.DefaultSettings)

	f := testFrame(t)
	f.Overlay = overlay.Overlay{
		Nodes:       map[string]overlay.NodeStyle{"n2": {Hidden: true}},
		EdgesHidden: true,
	}
	r.Draw(f)

	view := r.View()
	if strings.Contains(view, "API") {
		t.Errorf("hidden node still drawn:\n%s", view)
	}
	if strings.Contains(view, glyphEdge) {
		t.Errorf("edges drawn despite EdgesHidden:\n%s", view)
	}
}

func TestTermRendererDisposeIdempotent(t *testing.T) {
	surface := &termSurface{}
	surface.resize(80, 24)
	r := newTermRenderer(surface, scene.DefaultSettings)

	r.Draw(testFrame(t))
	r.Dispose()
	r.Dispose()

	// Draw after dispose is a no-op.
	r.Draw(testFrame(t))
	if r.rows != nil {
		t.Error("disposed renderer retained rows")
	}
}

func TestTermSurfaceZeroBeforeResize(t *testing.T) {
	surface := &termSurface{}
	w, h := surface.Size()
	if w != 0 || h != 0 {
		t.Errorf("Size() = (%d, %d), want (0, 0)", w, h)
	}
}
