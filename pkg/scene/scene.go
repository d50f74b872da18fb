// Package scene owns the canonical graph and its renderer binding.
//
// A Scene holds exactly one canonical [graph.Graph] at a time and binds it
// to at most one live renderer. The binding is an explicitly owned
// resource: rebinding strictly disposes the previous renderer before
// constructing the new one, on every exit path including construction
// failure. Loading a new graph replaces the canonical structure wholesale
// and tears down any binding.
//
// All interaction flows through the capability API (FocusNode,
// FilterCluster, ResetView, SetSearch, ViewportState, Export, ...).
// Capability methods are internally guarded: unknown node or cluster IDs
// are silent no-ops so stale references after a data reload never crash.
//
// Scene is single-threaded: rendering, layout, and overlay application
// execute synchronously on the event loop that owns the scene. It is
// not safe for concurrent use without external synchronization.
package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/layout"
	"github.com/graphgazer/graphgazer/pkg/observability"
	"github.com/graphgazer/graphgazer/pkg/overlay"
)

// ContextMenu describes an open right-click menu anchored at pointer
// coordinates.
type ContextMenu struct {
	NodeID string
	X, Y   int
}

// binding is the live association of graph, camera, surface, and
// renderer, including event handlers. One binding exists per
// snapshot+surface pair; it is created by Bind and destroyed by dispose.
type binding struct {
	surface  Surface
	renderer Renderer
	camera   Camera
	anim     *cameraAnim
	disposed bool
}

// Scene is the graph state store and renderer lifecycle owner.
type Scene struct {
	logger  *log.Logger
	factory RendererFactory

	g       *graph.Graph
	binding *binding
	pending Surface // surface waiting for availability

	state      overlay.State
	selected   string
	panelOpen  bool
	menu       *ContextMenu
	layoutMode layout.Mode
	// layoutPending defers a layout-mode change requested while unbound
	// to the next bind.
	layoutPending bool
	seed          uint64
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene's logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) { s.logger = l }
}

// WithSeed sets the seed used for initial scatter and layouts.
func WithSeed(seed uint64) Option {
	return func(s *Scene) { s.seed = seed }
}

// New creates a scene owning g, with factory used to construct renderers
// on bind. A nil g is treated as an empty graph.
func New(g *graph.Graph, factory RendererFactory, opts ...Option) *Scene {
	if g == nil {
		g = graph.New()
	}
	s := &Scene{
		logger:     log.Default(),
		factory:    factory,
		g:          g,
		layoutMode: layout.ModeForceAtlas,
		seed:       layout.DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the canonical graph wholesale. Any bound renderer is
// disposed first, and all interaction state (selection, search, filter)
// is cleared: it refers to the old snapshot.
func (s *Scene) Load(g *graph.Graph) {
	s.dispose(context.Background())
	if g == nil {
		g = graph.New()
	}
	s.g = g
	s.state = overlay.State{}
	s.selected = ""
	s.menu = nil
}

// =============================================================================
// Renderer lifecycle
// =============================================================================

// Bind associates the canonical graph with a drawable surface.
//
// Any existing renderer is disposed first; the dispose-then-construct
// order is strict. Unpositioned nodes receive a default random scatter
// and one initial layout pass runs before the renderer is constructed
// with fixed settings.
//
// A surface that is not yet available (zero size) defers the binding:
// Bind returns nil and the surface is retried on the next Bind or
// [Scene.RetryBind] call.
func (s *Scene) Bind(ctx context.Context, surface Surface) error {
	s.dispose(ctx)

	if surface == nil {
		return nil
	}
	if w, h := surface.Size(); w == 0 || h == 0 {
		s.logger.Debug("surface not yet available, deferring bind")
		s.pending = surface
		return nil
	}
	s.pending = nil

	fresh := false
	for _, n := range s.g.Nodes() {
		if !n.Placed {
			fresh = true
			break
		}
	}
	layout.Scatter(s.g, s.seed)
	// Initial layout pass: on a fresh snapshot, or when a layout-mode
	// change was deferred while unbound.
	if fresh || s.layoutPending {
		s.runLayout(ctx)
	}

	renderer, err := s.factory(surface, DefaultSettings)
	if err != nil {
		// No partial binding survives a construction failure.
		s.binding = nil
		return fmt.Errorf("construct renderer: %w", err)
	}

	s.binding = &binding{
		surface:  surface,
		renderer: renderer,
		camera:   DefaultCamera,
	}

	if ch, ok := renderer.(ClickHandler); ok {
		ch.OnClick(s.HandleClick)
		ch.OnRightClick(s.HandleRightClick)
	}

	observability.Scene().OnBind(ctx, s.g.NodeCount(), s.g.EdgeCount())
	s.logger.Debug("renderer bound", "nodes", s.g.NodeCount(), "edges", s.g.EdgeCount())
	return nil
}

// RetryBind retries a deferred bind, if one is pending. Call when the
// surface may have become available (e.g., after a terminal resize).
func (s *Scene) RetryBind(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	surface := s.pending
	s.pending = nil
	return s.Bind(ctx, surface)
}

// Dispose tears down the current binding. Idempotent: disposing an
// unbound scene is a no-op. Any in-flight camera animation is cancelled
// before the renderer is released.
func (s *Scene) Dispose() {
	s.dispose(context.Background())
}

func (s *Scene) dispose(ctx context.Context) {
	if s.binding == nil || s.binding.disposed {
		s.binding = nil
		return
	}
	b := s.binding
	b.anim = nil // cancel animation before releasing the renderer
	b.disposed = true
	b.renderer.Dispose()
	s.binding = nil
	observability.Scene().OnDispose(ctx)
	s.logger.Debug("renderer disposed")
}

// Bound reports whether a renderer is currently bound.
func (s *Scene) Bound() bool { return s.binding != nil }

// Draw renders one frame through the bound renderer: advance any camera
// animation, recompute the overlay, and hand the frame over. No-op while
// unbound.
func (s *Scene) Draw(now time.Time) {
	if s.binding == nil {
		return
	}
	s.stepAnimation(now)
	s.binding.renderer.Draw(Frame{
		Graph:    s.g,
		Overlay:  overlay.Compute(s.g, s.state),
		Camera:   s.binding.camera,
		Selected: s.selected,
	})
}

// =============================================================================
// Event handlers
// =============================================================================

// HandleClick selects the clicked node and opens the query panel if
// closed. Opening is idempotent: a click never closes an open panel.
func (s *Scene) HandleClick(nodeID string) {
	if !s.g.HasNode(nodeID) {
		return
	}
	s.selected = nodeID
	s.panelOpen = true
}

// HandleRightClick opens a context menu anchored at the pointer
// coordinates. The event is consumed here; renderers registering this
// handler must suppress any native context-menu behavior.
func (s *Scene) HandleRightClick(nodeID string, x, y int) {
	if !s.g.HasNode(nodeID) {
		return
	}
	s.menu = &ContextMenu{NodeID: nodeID, X: x, Y: y}
}

// Menu returns the open context menu, or nil.
func (s *Scene) Menu() *ContextMenu { return s.menu }

// CloseMenu dismisses the context menu.
func (s *Scene) CloseMenu() { s.menu = nil }

// PanelOpen reports whether the query panel is open.
func (s *Scene) PanelOpen() bool { return s.panelOpen }

// ClosePanel closes the query panel.
func (s *Scene) ClosePanel() { s.panelOpen = false }

// Selected returns the selected node ID, or empty.
func (s *Scene) Selected() string { return s.selected }

// =============================================================================
// Capability API
// =============================================================================

// FocusNode animates the camera to the node's position at a fixed zoom
// ratio over a fixed duration. Unknown IDs and unbound scenes are silent
// no-ops.
func (s *Scene) FocusNode(id string) {
	n := s.g.Node(id)
	if n == nil || s.binding == nil {
		return
	}
	s.animateCamera(Camera{X: n.X, Y: n.Y, Zoom: FocusZoom})
}

// FilterCluster highlights nodes whose cluster equals id and hides all
// others along with every edge. An unknown cluster is a silent no-op.
// The search overlay, if active, is left untouched.
func (s *Scene) FilterCluster(id string) {
	if _, ok := s.g.Clusters()[id]; !ok {
		return
	}
	s.state.Cluster = id
	s.state.ClusterActive = true
}

// ClearFilter removes the cluster filter. The search overlay, if
// active, is left untouched.
func (s *Scene) ClearFilter() {
	s.state.Cluster = ""
	s.state.ClusterActive = false
}

// SetSearch updates the free-text search query. On a transition to a
// query with at least one match, the camera auto-focuses the first match
// in insertion order.
func (s *Scene) SetSearch(query string) {
	if query == s.state.Query {
		return
	}
	s.state.Query = query
	if n := overlay.FirstMatch(s.g, query); n != nil {
		s.FocusNode(n.ID)
	}
}

// ResetView clears every visual override from both the cluster filter
// and the search, and animates the camera back to the default
// origin and zoom.
func (s *Scene) ResetView() {
	s.state = overlay.State{}
	if s.binding != nil {
		s.animateCamera(DefaultCamera)
	}
}

// RawGraph returns a read-only handle to the canonical graph. Callers
// must not mutate it; all mutation goes through scene operations.
func (s *Scene) RawGraph() *graph.Graph { return s.g }

// Overlay recomputes the current render overlay from the canonical
// attributes and interaction state.
func (s *Scene) Overlay() overlay.Overlay {
	return overlay.Compute(s.g, s.state)
}

// State returns the current interaction state.
func (s *Scene) State() overlay.State { return s.state }

// Camera returns an immutable snapshot of the camera. The zero camera is
// returned while unbound.
func (s *Scene) Camera() Camera {
	if s.binding == nil {
		return Camera{}
	}
	return s.binding.camera
}

// SetLayoutMode switches the layout strategy. While a renderer is bound
// the layout runs immediately, mutating canonical positions in place;
// otherwise it is deferred to the next bind. An invalid mode is a silent
// no-op.
func (s *Scene) SetLayoutMode(mode layout.Mode) {
	if layout.ValidateMode(mode) != nil {
		return
	}
	s.layoutMode = mode
	if s.binding == nil {
		s.layoutPending = true
		return
	}
	s.runLayout(context.Background())
}

// LayoutMode returns the active layout mode.
func (s *Scene) LayoutMode() layout.Mode { return s.layoutMode }

func (s *Scene) runLayout(ctx context.Context) {
	mode := s.layoutMode
	observability.Scene().OnLayoutStart(ctx, string(mode), s.g.NodeCount())
	start := time.Now()
	err := layout.Apply(s.g, mode, layout.Options{Seed: s.seed})
	observability.Scene().OnLayoutComplete(ctx, string(mode), time.Since(start), err)
	if err != nil {
		s.logger.Warn("layout failed", "mode", mode, "err", err)
		return
	}
	s.layoutPending = false
}

// =============================================================================
// Camera animation
// =============================================================================

func (s *Scene) animateCamera(to Camera) {
	if s.binding == nil {
		return
	}
	s.binding.anim = &cameraAnim{
		from:     s.binding.camera,
		to:       to,
		start:    time.Now(),
		duration: FocusDuration,
	}
}

// stepAnimation advances an in-flight camera animation to now.
// Returns true while an animation is still running.
func (s *Scene) stepAnimation(now time.Time) bool {
	if s.binding == nil || s.binding.anim == nil {
		return false
	}
	cam, done := s.binding.anim.at(now)
	s.binding.camera = cam
	if done {
		s.binding.anim = nil
		return false
	}
	return true
}

// Animating reports whether a camera animation is in flight.
func (s *Scene) Animating() bool {
	return s.binding != nil && s.binding.anim != nil
}
