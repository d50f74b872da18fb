package layout

import (
	"math"
	"math/rand/v2"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// Force-directed placement constants. Tuned for graphs in the hundreds of
// nodes; the iteration budget, not these constants, bounds runtime.
const (
	repulsionStrength  = 5000.0
	attractionStrength = 0.02
	gravityStrength    = 0.01
	maxDisplacement    = 50.0
	coolingFactor      = 0.95
)

// forceAtlas runs a fixed budget of force-directed iterations.
//
// Each iteration applies pairwise repulsion, spring attraction along
// edges, and a weak pull toward the origin so disconnected components do
// not drift apart. Displacement is capped per iteration and the cap cools
// geometrically, so positions settle rather than oscillate.
func forceAtlas(g *graph.Graph, opts Options) {
	nodes := g.Nodes()
	if len(nodes) < 2 {
		return
	}

	// Unplaced nodes start from a seeded scatter so the simulation has
	// distinct starting points. Coincident nodes are nudged apart below.
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	for _, n := range nodes {
		if !n.Placed {
			n.X = (rng.Float64()*2 - 1) * DefaultBound
			n.Y = (rng.Float64()*2 - 1) * DefaultBound
		}
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	dx := make([]float64, len(nodes))
	dy := make([]float64, len(nodes))
	limit := maxDisplacement

	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}

		// Pairwise repulsion.
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				vx := nodes[i].X - nodes[j].X
				vy := nodes[i].Y - nodes[j].Y
				distSq := vx*vx + vy*vy
				if distSq < 1e-4 {
					// Coincident nodes: push apart in a deterministic direction.
					vx, vy = rng.Float64()-0.5, rng.Float64()-0.5
					distSq = vx*vx + vy*vy
				}
				f := repulsionStrength / distSq
				dist := math.Sqrt(distSq)
				fx, fy := f*vx/dist, f*vy/dist
				dx[i] += fx
				dy[i] += fy
				dx[j] -= fx
				dy[j] -= fy
			}
		}

		// Spring attraction along edges.
		for _, e := range g.Edges() {
			si, ok1 := index[e.Source]
			ti, ok2 := index[e.Target]
			if !ok1 || !ok2 || si == ti {
				continue
			}
			vx := nodes[ti].X - nodes[si].X
			vy := nodes[ti].Y - nodes[si].Y
			dx[si] += vx * attractionStrength
			dy[si] += vy * attractionStrength
			dx[ti] -= vx * attractionStrength
			dy[ti] -= vy * attractionStrength
		}

		// Gravity toward the origin.
		for i, n := range nodes {
			dx[i] -= n.X * gravityStrength
			dy[i] -= n.Y * gravityStrength
		}

		// Apply capped displacement.
		for i, n := range nodes {
			disp := math.Sqrt(dx[i]*dx[i] + dy[i]*dy[i])
			if disp > limit {
				scale := limit / disp
				dx[i] *= scale
				dy[i] *= scale
			}
			n.X += dx[i]
			n.Y += dy[i]
		}

		limit *= coolingFactor
	}
}
