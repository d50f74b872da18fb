package scene

import (
	"time"
)

// Camera mirrors the renderer's live camera. Consumers only ever see
// value copies; the live camera is owned by the binding.
type Camera struct {
	X    float64
	Y    float64
	Zoom float64
}

// Camera defaults and animation constants. Focus and reset always animate
// at these fixed values.
const (
	DefaultZoom   = 1.0
	FocusZoom     = 2.0
	FocusDuration = 600 * time.Millisecond
)

// DefaultCamera is the origin the view resets to.
var DefaultCamera = Camera{X: 0, Y: 0, Zoom: DefaultZoom}

// cameraAnim is an in-flight camera move. The binding steps it from the
// draw loop; disposing the binding cancels it so a dispose never races an
// animation callback.
type cameraAnim struct {
	from     Camera
	to       Camera
	start    time.Time
	duration time.Duration
}

// at returns the interpolated camera at time t, and whether the
// animation has completed. Uses smoothstep easing.
func (a *cameraAnim) at(t time.Time) (Camera, bool) {
	elapsed := t.Sub(a.start)
	if elapsed >= a.duration {
		return a.to, true
	}
	if elapsed <= 0 {
		return a.from, false
	}
	p := float64(elapsed) / float64(a.duration)
	p = p * p * (3 - 2*p)
	return Camera{
		X:    a.from.X + (a.to.X-a.from.X)*p,
		Y:    a.from.Y + (a.to.Y-a.from.Y)*p,
		Zoom: a.from.Zoom + (a.to.Zoom-a.from.Zoom)*p,
	}, false
}
