// Package layout assigns node positions on the canonical graph.
//
// Four strategies are available: an iterative force-directed placement
// with a fixed iteration budget, even spacing on a circle, a square grid,
// and a uniform random scatter. Running a layout mutates node positions in
// place; callers that need the previous placement should export first.
//
// All strategies are deterministic for a given seed.
package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// Mode identifies a layout strategy.
type Mode string

const (
	ModeForceAtlas Mode = "forceatlas"
	ModeCircle     Mode = "circle"
	ModeGrid       Mode = "grid"
	ModeRandom     Mode = "random"
)

// ValidModes is the set of supported layout modes.
var ValidModes = map[Mode]bool{
	ModeForceAtlas: true,
	ModeCircle:     true,
	ModeGrid:       true,
	ModeRandom:     true,
}

// ValidateMode checks that a layout mode is valid.
func ValidateMode(m Mode) error {
	if !ValidModes[m] {
		return fmt.Errorf("invalid layout mode: %q (must be one of: forceatlas, circle, grid, random)", m)
	}
	return nil
}

const (
	// DefaultIterations bounds the force-directed pass. The count is fixed
	// per invocation so a layout never blocks the event loop unbounded.
	DefaultIterations = 100

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultBound is the half-extent of the scatter area used by the
	// random layout and by initial placement of unpositioned nodes.
	DefaultBound = 500.0

	// circleRadius is the radius used by the circle layout.
	circleRadius = 400.0

	// gridSpacing is the fixed cell spacing of the grid layout.
	gridSpacing = 120.0
)

// Options configures a layout run.
type Options struct {
	Iterations int    // force-directed iteration budget (default DefaultIterations)
	Seed       uint64 // random seed (default DefaultSeed)
}

// Apply runs the layout strategy for mode on g, mutating node positions.
// Returns an error only for an unknown mode; an empty graph is a no-op.
func Apply(g *graph.Graph, mode Mode, opts Options) error {
	if err := ValidateMode(mode); err != nil {
		return err
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}

	switch mode {
	case ModeForceAtlas:
		forceAtlas(g, opts)
	case ModeCircle:
		circle(g)
	case ModeGrid:
		grid(g)
	case ModeRandom:
		random(g, opts.Seed)
	}
	for _, n := range g.Nodes() {
		n.Placed = true
	}
	return nil
}

// Scatter assigns a random position within DefaultBound to every node that
// does not yet have one. Nodes already placed are left untouched. This is
// the default placement applied on first bind.
func Scatter(g *graph.Graph, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	for _, n := range g.Nodes() {
		if n.Placed {
			continue
		}
		n.X = (rng.Float64()*2 - 1) * DefaultBound
		n.Y = (rng.Float64()*2 - 1) * DefaultBound
		n.Placed = true
	}
}

// circle places nodes evenly spaced on a circle, in insertion order.
func circle(g *graph.Graph) {
	nodes := g.Nodes()
	count := len(nodes)
	for i, n := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(count)
		n.X = circleRadius * math.Cos(angle)
		n.Y = circleRadius * math.Sin(angle)
	}
}

// grid places nodes on a ceil(sqrt(n))-column grid with fixed spacing.
func grid(g *graph.Graph) {
	nodes := g.Nodes()
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	if cols == 0 {
		return
	}
	for i, n := range nodes {
		n.X = float64(i%cols) * gridSpacing
		n.Y = float64(i/cols) * gridSpacing
	}
}

// random scatters nodes uniformly within the fixed bounds.
func random(g *graph.Graph, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed))
	for _, n := range g.Nodes() {
		n.X = (rng.Float64()*2 - 1) * DefaultBound
		n.Y = (rng.Float64()*2 - 1) * DefaultBound
	}
}
