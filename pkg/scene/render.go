package scene

import (
	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/overlay"
)

// Surface is an opaque drawable handle with a queryable pixel size.
// A surface reporting a zero dimension is not yet available; binding
// against it is deferred rather than failed.
type Surface interface {
	Size() (width, height int)
}

// Settings are the fixed renderer settings applied on every bind.
type Settings struct {
	EdgeLabels bool    // always off
	Padding    float64 // fixed padding around the drawn graph
}

// DefaultSettings are the settings every binding is constructed with.
var DefaultSettings = Settings{
	EdgeLabels: false,
	Padding:    32,
}

// Frame is one draw pass: the canonical graph, the recomputed overlay,
// and the camera snapshot. Renderers read the frame and never mutate the
// graph.
type Frame struct {
	Graph    *graph.Graph
	Overlay  overlay.Overlay
	Camera   Camera
	Selected string
}

// Renderer is a live renderer instance bound to a surface.
type Renderer interface {
	// Draw renders one frame.
	Draw(Frame)

	// Dispose releases the renderer. Dispose is idempotent; calling it
	// on an already-disposed renderer is a no-op.
	Dispose()
}

// ClickHandler receives typed click events from renderers that produce
// them. Renderers implementing this interface get the scene's handlers
// registered at bind time; there is no implicit global listener
// registration.
type ClickHandler interface {
	OnClick(handler func(nodeID string))
	OnRightClick(handler func(nodeID string, x, y int))
}

// RendererFactory constructs a renderer bound to a surface.
// The scene guarantees the previous renderer is disposed before the
// factory runs, and disposes on every exit path if construction fails
// partway.
type RendererFactory func(s Surface, settings Settings) (Renderer, error)
