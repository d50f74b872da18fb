package scene

// ViewportState is the result of a viewport query: the node IDs whose
// projection falls within the surface's visible bounds, plus a camera
// snapshot. It is computed on demand, never stored.
type ViewportState struct {
	VisibleNodeIDs []string
	Camera         Camera
}

// Viewport projects every node's canonical coordinates through the
// current camera transform into pixel space and collects the IDs landing
// inside the surface bounds. Insertion order is preserved. An unbound
// scene reports an empty viewport.
func (s *Scene) Viewport() ViewportState {
	if s.binding == nil {
		return ViewportState{}
	}

	w, h := s.binding.surface.Size()
	cam := s.binding.camera
	out := ViewportState{Camera: cam}

	for _, n := range s.g.Nodes() {
		x, y := project(n.X, n.Y, cam, w, h)
		if x >= 0 && x <= float64(w) && y >= 0 && y <= float64(h) {
			out.VisibleNodeIDs = append(out.VisibleNodeIDs, n.ID)
		}
	}
	return out
}

// project maps a graph-space coordinate to pixel space: the camera
// position is the viewport center, and zoom scales graph units to
// pixels.
func project(gx, gy float64, cam Camera, w, h int) (float64, float64) {
	zoom := cam.Zoom
	if zoom == 0 {
		zoom = DefaultZoom
	}
	px := (gx-cam.X)*zoom + float64(w)/2
	py := (gy-cam.Y)*zoom + float64(h)/2
	return px, py
}
